// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"fmt"
	"io"
	"strings"
)

// Filter is a compiled filter expression.
// Applied to an input value, a filter produces zero or more outputs.
type Filter interface {
	filter() // not used; restricts Filter to types defined here.

	String() string       // returns a multi-line string representation
	print(io.Writer, int) // used for String
}

// A NewFilter is a filter that computes new values from its input
// without paths, bindings or backtracking. The same input always
// produces the same outputs.
// The NewFilter types are [Lit], [Array], [Object], [Logic], [Math]
// and [Func].
type NewFilter interface {
	Filter
	newFilter()
}

// A Ref is a filter with generator, path or control flow semantics.
// The Ref types are [Pipe], [Comma], [Empty], [IfThenElse], [Assign],
// [Update], [First], [Last], [Recurse], [Fold], [Limit] and [PathExpr].
type Ref interface {
	Filter
	ref()
}

// Lit is a literal value.
type Lit struct {
	Atom Atom
}

// Array collects the outputs of Elems into an array.
// The empty array literal has Elems of type [*Empty].
type Array struct {
	Elems Filter
}

// Object constructs objects from a list of entries.
type Object struct {
	Entries []Entry
}

// An Entry is a single key/value pair in an [Object].
// The key is a filter; for literal keys it is a [Lit] holding a [Str].
type Entry struct {
	Key   Filter
	Value Filter
}

// Logic is a comparison or boolean operation.
type Logic struct {
	L  Filter
	Op LogicOp
	R  Filter
}

// Math is an arithmetic operation.
type Math struct {
	L  Filter
	Op MathOp
	R  Filter
}

// Func is a call to a built-in function that has no path semantics.
// Arg is nil except for [BuiltinMap].
type Func struct {
	Name Builtin
	Arg  Filter
}

// Pipe feeds each output of L to R.
type Pipe struct {
	L, R Filter
}

// Comma produces the outputs of L followed by the outputs of R.
type Comma struct {
	L, R Filter
}

// Empty produces no outputs.
type Empty struct{}

// IfThenElse produces Then for each true output of Cond
// and Else for each false one.
type IfThenElse struct {
	Cond, Then, Else Filter
}

// Assign sets the locations named by Path to the outputs of Value,
// with Value evaluated against the original input.
type Assign struct {
	Path  Path
	Value Filter
}

// Update replaces each location named by Path by the result
// of applying F to the value found there.
type Update struct {
	Path Path
	F    Filter
}

// First produces the first output of F, if any.
type First struct {
	F Filter
}

// Last produces the last output of F, if any.
type Last struct {
	F Filter
}

// Recurse produces its input and then, recursively,
// every output of applying F to an output already produced.
type Recurse struct {
	F Filter
}

// Fold reduces over the outputs of Init, Update and Extract
// in the manner of jq's reduce.
type Fold struct {
	Init, Update, Extract Filter
}

// Limit produces at most N outputs of F.
type Limit struct {
	N, F Filter
}

// PathExpr is a filter that is itself a path.
// A PathExpr with an empty Path is the identity filter.
type PathExpr struct {
	Path Path
}

// Identity returns a new identity filter, written ".".
func Identity() *PathExpr {
	return &PathExpr{}
}

// IsPure reports whether f is a [NewFilter].
func IsPure(f Filter) bool {
	_, ok := f.(NewFilter)
	return ok
}

// ToPath returns the path of f.
// Only a [*PathExpr] converts to a path; for any other filter ToPath
// returns a [*NotPathError].
func ToPath(f Filter) (Path, error) {
	if p, ok := f.(*PathExpr); ok {
		return p.Path, nil
	}
	return nil, &NotPathError{Filter: f}
}

// NotPathError is returned by [ToPath] for a filter that is not a path.
type NotPathError struct {
	Filter Filter
}

func (e *NotPathError) Error() string {
	return "not a path expression: " + Describe(e.Filter)
}

// Describe returns a single-line description of the root of f,
// suitable for an error message.
func Describe(f Filter) string {
	s := f.String()
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// Indicate that all filter types implement [Filter].

func (*Lit) filter()        {}
func (*Array) filter()      {}
func (*Object) filter()     {}
func (*Logic) filter()      {}
func (*Math) filter()       {}
func (*Func) filter()       {}
func (*Pipe) filter()       {}
func (*Comma) filter()      {}
func (*Empty) filter()      {}
func (*IfThenElse) filter() {}
func (*Assign) filter()     {}
func (*Update) filter()     {}
func (*First) filter()      {}
func (*Last) filter()       {}
func (*Recurse) filter()    {}
func (*Fold) filter()       {}
func (*Limit) filter()      {}
func (*PathExpr) filter()   {}

func (*Lit) newFilter()    {}
func (*Array) newFilter()  {}
func (*Object) newFilter() {}
func (*Logic) newFilter()  {}
func (*Math) newFilter()   {}
func (*Func) newFilter()   {}

func (*Pipe) ref()       {}
func (*Comma) ref()      {}
func (*Empty) ref()      {}
func (*IfThenElse) ref() {}
func (*Assign) ref()     {}
func (*Update) ref()     {}
func (*First) ref()      {}
func (*Last) ref()       {}
func (*Recurse) ref()    {}
func (*Fold) ref()       {}
func (*Limit) ref()      {}
func (*PathExpr) ref()   {}

// Size returns the number of nodes in f, counting path elements.
func Size(f Filter) int {
	n := 0
	Walk(f, func(Filter) { n++ }, func(PathElem) { n++ })
	return n
}

// Walk calls visit for f and every filter below it, in preorder,
// and visitElem for every path element.
// Either function may be nil.
func Walk(f Filter, visit func(Filter), visitElem func(PathElem)) {
	if visit != nil {
		visit(f)
	}
	walk := func(fs ...Filter) {
		for _, f := range fs {
			if f != nil {
				Walk(f, visit, visitElem)
			}
		}
	}
	walkPath := func(p Path) {
		for _, e := range p {
			if visitElem != nil {
				visitElem(e)
			}
			switch e := e.(type) {
			case *Index:
				walk(e.F)
			case *Range:
				walk(e.From, e.Until)
			default:
				panic(fmt.Sprintf("unknown path element %T", e))
			}
		}
	}

	switch f := f.(type) {
	case *Lit, *Empty:
	case *Array:
		walk(f.Elems)
	case *Object:
		for _, e := range f.Entries {
			walk(e.Key, e.Value)
		}
	case *Logic:
		walk(f.L, f.R)
	case *Math:
		walk(f.L, f.R)
	case *Func:
		walk(f.Arg)
	case *Pipe:
		walk(f.L, f.R)
	case *Comma:
		walk(f.L, f.R)
	case *IfThenElse:
		walk(f.Cond, f.Then, f.Else)
	case *Assign:
		walkPath(f.Path)
		walk(f.Value)
	case *Update:
		walkPath(f.Path)
		walk(f.F)
	case *First:
		walk(f.F)
	case *Last:
		walk(f.F)
	case *Recurse:
		walk(f.F)
	case *Fold:
		walk(f.Init, f.Update, f.Extract)
	case *Limit:
		walk(f.N, f.F)
	case *PathExpr:
		walkPath(f.Path)
	default:
		panic(fmt.Sprintf("unknown filter %T", f))
	}
}
