// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"

	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
)

// build converts a parse tree node to a filter.
func build(n *syntax.Node) (filter.Filter, error) {
	switch n.Kind {
	case syntax.KindExpr:
		return expr(n)

	case syntax.KindAtom:
		a, err := atom(n)
		if err != nil {
			return nil, err
		}
		return &filter.Lit{Atom: a}, nil

	case syntax.KindArray:
		return array(n)

	case syntax.KindObject:
		return object(n)

	case syntax.KindIte:
		return ite(n)

	case syntax.KindFunction:
		return call(n)

	case syntax.KindPath:
		p, err := path(n)
		if err != nil {
			return nil, err
		}
		return &filter.PathExpr{Path: p}, nil
	}
	panic(fmt.Sprintf("unexpected node kind %v", n.Kind))
}

// array builds an array constructor.
// The empty array collects the outputs of [filter.Empty].
func array(n *syntax.Node) (filter.Filter, error) {
	switch len(n.Children) {
	case 0:
		return &filter.Array{Elems: &filter.Empty{}}, nil
	case 1:
		f, err := build(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &filter.Array{Elems: f}, nil
	}
	panic(fmt.Sprintf("array with %d children", len(n.Children)))
}

// object builds an object constructor.
func object(n *syntax.Node) (filter.Filter, error) {
	obj := &filter.Object{}
	for _, e := range n.Children {
		if e.Kind != syntax.KindEntry {
			panic(fmt.Sprintf("unexpected %v in object", e.Kind))
		}
		entry, err := objectEntry(e)
		if err != nil {
			return nil, err
		}
		obj.Entries = append(obj.Entries, entry)
	}
	return obj, nil
}

// objectEntry builds one object entry.
// An identifier or string key without a value is shorthand
// for that key bound to the field of the same name: {a} is {a: .a}.
func objectEntry(e *syntax.Node) (filter.Entry, error) {
	if len(e.Children) < 1 || len(e.Children) > 2 {
		panic(fmt.Sprintf("entry with %d children", len(e.Children)))
	}

	k := e.Children[0]
	var key filter.Filter
	switch k.Kind {
	case syntax.KindIdent, syntax.KindString:
		key = &filter.Lit{Atom: filter.Str(name(k))}
	default:
		f, err := build(k)
		if err != nil {
			return filter.Entry{}, err
		}
		key = f
	}

	if len(e.Children) == 2 {
		val, err := build(e.Children[1])
		if err != nil {
			return filter.Entry{}, err
		}
		return filter.Entry{Key: key, Value: val}, nil
	}

	switch k.Kind {
	case syntax.KindIdent, syntax.KindString:
		val := &filter.PathExpr{Path: filter.Path{
			&filter.Index{F: &filter.Lit{Atom: filter.Str(name(k))}},
		}}
		return filter.Entry{Key: key, Value: val}, nil
	}
	return filter.Entry{}, errorf(ErrUnimplemented, e.Pos, nil, "object entry %s has a computed key but no value", e.Text)
}

// ite builds a conditional.
func ite(n *syntax.Node) (filter.Filter, error) {
	if len(n.Children) != 3 {
		panic(fmt.Sprintf("conditional with %d children", len(n.Children)))
	}
	var fs [3]filter.Filter
	for i, c := range n.Children {
		f, err := build(c)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return &filter.IfThenElse{Cond: fs[0], Then: fs[1], Else: fs[2]}, nil
}

// call builds a function call.
func call(n *syntax.Node) (filter.Filter, error) {
	if len(n.Children) < 1 || len(n.Children) > 2 || n.Children[0].Kind != syntax.KindIdent {
		panic(fmt.Sprintf("malformed function node %q", n.Text))
	}
	fname := n.Children[0].Text

	var args []filter.Filter
	if len(n.Children) == 2 {
		for _, c := range n.Children[1].Children {
			f, err := build(c)
			if err != nil {
				return nil, err
			}
			args = append(args, f)
		}
	}

	f, ok := resolve(fname, args)
	if !ok {
		return nil, errorf(ErrUnknownFunction, n.Pos, nil, "unknown function %s/%d", fname, len(args))
	}
	return f, nil
}
