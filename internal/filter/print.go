// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"fmt"
	"io"
	"strings"
)

// String returns a string representation.
func (f *Lit) String() string        { return filterString(f) }
func (f *Array) String() string      { return filterString(f) }
func (f *Object) String() string     { return filterString(f) }
func (f *Logic) String() string      { return filterString(f) }
func (f *Math) String() string       { return filterString(f) }
func (f *Func) String() string       { return filterString(f) }
func (f *Pipe) String() string       { return filterString(f) }
func (f *Comma) String() string      { return filterString(f) }
func (f *Empty) String() string      { return filterString(f) }
func (f *IfThenElse) String() string { return filterString(f) }
func (f *Assign) String() string     { return filterString(f) }
func (f *Update) String() string     { return filterString(f) }
func (f *First) String() string      { return filterString(f) }
func (f *Last) String() string       { return filterString(f) }
func (f *Recurse) String() string    { return filterString(f) }
func (f *Fold) String() string       { return filterString(f) }
func (f *Limit) String() string      { return filterString(f) }
func (f *PathExpr) String() string   { return filterString(f) }

// filterString returns the string representation of a Filter.
func filterString(f Filter) string {
	var sb strings.Builder
	f.print(&sb, 0)
	return sb.String()
}

// line prints a single line at indent.
func line(w io.Writer, indent int, format string, args ...any) {
	fmt.Fprintf(w, "%*s", indent, "")
	fmt.Fprintf(w, format, args...)
	io.WriteString(w, "\n")
}

// print prints an indented representation to w.
func (f *Lit) print(w io.Writer, indent int) {
	line(w, indent, "lit %s", f.Atom)
}

func (f *Array) print(w io.Writer, indent int) {
	line(w, indent, "array")
	f.Elems.print(w, indent+2)
}

func (f *Object) print(w io.Writer, indent int) {
	line(w, indent, "object")
	for _, e := range f.Entries {
		line(w, indent+2, "entry")
		e.Key.print(w, indent+4)
		e.Value.print(w, indent+4)
	}
}

func (f *Logic) print(w io.Writer, indent int) {
	line(w, indent, "logic %s", f.Op)
	f.L.print(w, indent+2)
	f.R.print(w, indent+2)
}

func (f *Math) print(w io.Writer, indent int) {
	line(w, indent, "math %s", f.Op)
	f.L.print(w, indent+2)
	f.R.print(w, indent+2)
}

func (f *Func) print(w io.Writer, indent int) {
	line(w, indent, "func %s", f.Name)
	if f.Arg != nil {
		f.Arg.print(w, indent+2)
	}
}

func (f *Pipe) print(w io.Writer, indent int) {
	line(w, indent, "pipe")
	f.L.print(w, indent+2)
	f.R.print(w, indent+2)
}

func (f *Comma) print(w io.Writer, indent int) {
	line(w, indent, "comma")
	f.L.print(w, indent+2)
	f.R.print(w, indent+2)
}

func (f *Empty) print(w io.Writer, indent int) {
	line(w, indent, "empty")
}

func (f *IfThenElse) print(w io.Writer, indent int) {
	line(w, indent, "if")
	f.Cond.print(w, indent+2)
	f.Then.print(w, indent+2)
	f.Else.print(w, indent+2)
}

func (f *Assign) print(w io.Writer, indent int) {
	line(w, indent, "assign")
	printPath(w, indent+2, f.Path)
	f.Value.print(w, indent+2)
}

func (f *Update) print(w io.Writer, indent int) {
	line(w, indent, "update")
	printPath(w, indent+2, f.Path)
	f.F.print(w, indent+2)
}

func (f *First) print(w io.Writer, indent int) {
	line(w, indent, "first")
	f.F.print(w, indent+2)
}

func (f *Last) print(w io.Writer, indent int) {
	line(w, indent, "last")
	f.F.print(w, indent+2)
}

func (f *Recurse) print(w io.Writer, indent int) {
	line(w, indent, "recurse")
	f.F.print(w, indent+2)
}

func (f *Fold) print(w io.Writer, indent int) {
	line(w, indent, "fold")
	f.Init.print(w, indent+2)
	f.Update.print(w, indent+2)
	f.Extract.print(w, indent+2)
}

func (f *Limit) print(w io.Writer, indent int) {
	line(w, indent, "limit")
	f.N.print(w, indent+2)
	f.F.print(w, indent+2)
}

func (f *PathExpr) print(w io.Writer, indent int) {
	printPath(w, indent, f.Path)
}

// printPath prints a path. The empty path prints as "identity".
func printPath(w io.Writer, indent int, p Path) {
	if len(p) == 0 {
		line(w, indent, "identity")
		return
	}
	line(w, indent, "path")
	for _, e := range p {
		e.print(w, indent+2)
	}
}

// opt returns the suffix marking an optional path element.
func opt(b bool) string {
	if b {
		return "?"
	}
	return ""
}

func (e *Index) print(w io.Writer, indent int) {
	line(w, indent, "index%s", opt(e.Opt))
	e.F.print(w, indent+2)
}

func (e *Range) print(w io.Writer, indent int) {
	line(w, indent, "range%s", opt(e.Opt))
	if e.From != nil {
		line(w, indent+2, "from")
		e.From.print(w, indent+4)
	}
	if e.Until != nil {
		line(w, indent+2, "until")
		e.Until.print(w, indent+4)
	}
}
