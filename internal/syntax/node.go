// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Kind is the grammar rule that produced a [Node].
type Kind int

const (
	KindInvalid Kind = iota

	// KindExpr is a flat sequence of terms separated by operators:
	// term, op, term, op, ..., term.
	KindExpr

	// Infix operators. A KindUpdateWith node has a single child,
	// the arithmetic operator (KindAdd through KindRem).
	KindPipe
	KindComma
	KindAssign
	KindUpdate
	KindUpdateWith
	KindOr
	KindAnd
	KindEq
	KindNe
	KindGt
	KindGe
	KindLt
	KindLe
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindRem

	KindAtom      // child: KindNull, KindBool, KindNumber or KindString
	KindNull      // null
	KindBool      // true or false
	KindNumber    // number literal, possibly negative
	KindString    // string literal; Val holds the contents
	KindArray     // children: zero or one KindExpr
	KindObject    // children: KindEntry
	KindEntry     // children: key (KindIdent, KindString or KindExpr), optional KindExpr value
	KindIdent     // identifier
	KindIte       // children: condition, then, else
	KindFunction  // children: KindIdent, optional KindArgs
	KindArgs      // children: KindExpr per argument
	KindPath      // children: KindPart
	KindPart      // children: optional KindIndex, then KindRange
	KindIndex     // children: KindIdent or KindString, optional KindQuestion
	KindQuestion  // ?
	KindRange     // children: optional KindAt, KindFrom, KindUntil or KindFromUntil, optional KindQuestion
	KindAt        // [e]; child: KindExpr
	KindFrom      // [e:]; child: KindExpr
	KindUntil     // [:e]; child: KindExpr
	KindFromUntil // [e:e]; children: two KindExpr
)

var kindStrings = [...]string{
	KindInvalid:    "invalid",
	KindExpr:       "expr",
	KindPipe:       "pipe",
	KindComma:      "comma",
	KindAssign:     "assign",
	KindUpdate:     "update",
	KindUpdateWith: "update_with",
	KindOr:         "or",
	KindAnd:        "and",
	KindEq:         "eq",
	KindNe:         "ne",
	KindGt:         "gt",
	KindGe:         "ge",
	KindLt:         "lt",
	KindLe:         "le",
	KindAdd:        "add",
	KindSub:        "sub",
	KindMul:        "mul",
	KindDiv:        "div",
	KindRem:        "rem",
	KindAtom:       "atom",
	KindNull:       "null",
	KindBool:       "boolean",
	KindNumber:     "number",
	KindString:     "string",
	KindArray:      "array",
	KindObject:     "object",
	KindEntry:      "entry",
	KindIdent:      "identifier",
	KindIte:        "ite",
	KindFunction:   "function",
	KindArgs:       "args",
	KindPath:       "path",
	KindPart:       "part",
	KindIndex:      "index",
	KindQuestion:   "question",
	KindRange:      "range",
	KindAt:         "at",
	KindFrom:       "from",
	KindUntil:      "until",
	KindFromUntil:  "from_until",
}

// String returns the grammar rule name of k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindStrings) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindStrings[k]
}

// IsOperator reports whether k is an infix operator.
func (k Kind) IsOperator() bool {
	return k >= KindPipe && k <= KindRem
}

// Position describes a position in the filter string.
// Lines and columns start at 1; columns count runes.
type Position struct {
	Line, Col int
}

// String prints a position for an error message.
func (pos Position) String() string {
	return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
}

// Span is a half-open range of byte offsets in the filter string.
type Span struct {
	Start, End int
}

// A Node is a node in the concrete parse tree.
type Node struct {
	Kind     Kind
	Pos      Position // position of Span.Start
	Span     Span
	Text     string // source text covered by Span
	Val      string // contents of a string literal; only set for KindString
	Children []*Node
}

// String returns a multi-line representation of the tree rooted at n.
func (n *Node) String() string {
	var sb strings.Builder
	n.print(&sb, 0)
	return sb.String()
}

// print prints an indented representation to w.
func (n *Node) print(w io.Writer, indent int) {
	fmt.Fprintf(w, "%*s%s", indent, "", n.Kind)
	switch {
	case n.Kind == KindString:
		fmt.Fprintf(w, " %q", n.Val)
	case len(n.Children) == 0 && n.Kind != KindArray && n.Kind != KindObject && n.Kind != KindRange && n.Kind != KindArgs:
		fmt.Fprintf(w, " %s", n.Text)
	}
	io.WriteString(w, "\n")
	for _, c := range n.Children {
		c.print(w, indent+2)
	}
}
