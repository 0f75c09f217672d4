// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
)

// An opInfo is the precedence and associativity of an infix operator.
// Higher precedences bind tighter.
type opInfo struct {
	prec  int
	right bool // right associative
}

// operators is the precedence table, loosest first.
// Operators on one line share a level.
var operators = map[syntax.Kind]opInfo{
	syntax.KindPipe: {1, false},

	syntax.KindComma: {2, false},

	syntax.KindAssign:     {3, true},
	syntax.KindUpdate:     {3, true},
	syntax.KindUpdateWith: {3, true},

	syntax.KindOr: {4, false},

	syntax.KindAnd: {5, false},

	syntax.KindEq: {6, false},
	syntax.KindNe: {6, false},

	syntax.KindGt: {7, false},
	syntax.KindGe: {7, false},
	syntax.KindLt: {7, false},
	syntax.KindLe: {7, false},

	syntax.KindAdd: {8, false},
	syntax.KindSub: {8, false},

	syntax.KindMul: {9, false},
	syntax.KindDiv: {9, false},

	syntax.KindRem: {10, false},
}

// logicOps maps operator kinds to logic operators.
var logicOps = map[syntax.Kind]filter.LogicOp{
	syntax.KindOr:  filter.Or,
	syntax.KindAnd: filter.And,
	syntax.KindEq:  filter.Eq,
	syntax.KindNe:  filter.Ne,
	syntax.KindGt:  filter.Gt,
	syntax.KindGe:  filter.Ge,
	syntax.KindLt:  filter.Lt,
	syntax.KindLe:  filter.Le,
}

// mathOps maps operator kinds to arithmetic operators.
var mathOps = map[syntax.Kind]filter.MathOp{
	syntax.KindAdd: filter.Add,
	syntax.KindSub: filter.Sub,
	syntax.KindMul: filter.Mul,
	syntax.KindDiv: filter.Div,
	syntax.KindRem: filter.Rem,
}
