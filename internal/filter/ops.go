// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "fmt"

// LogicOp is a comparison or boolean operator.
type LogicOp int

const (
	Or LogicOp = iota
	And
	Eq
	Ne
	Gt
	Ge
	Lt
	Le
)

var logicOpStrings = [...]string{
	Or:  "or",
	And: "and",
	Eq:  "==",
	Ne:  "!=",
	Gt:  ">",
	Ge:  ">=",
	Lt:  "<",
	Le:  "<=",
}

// String returns the operator as written in a filter.
func (op LogicOp) String() string {
	if op < 0 || int(op) >= len(logicOpStrings) {
		return fmt.Sprintf("LogicOp(%d)", int(op))
	}
	return logicOpStrings[op]
}

// MathOp is an arithmetic operator.
type MathOp int

const (
	Add MathOp = iota
	Sub
	Mul
	Div
	Rem
)

var mathOpStrings = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Rem: "%",
}

// String returns the operator as written in a filter.
func (op MathOp) String() string {
	if op < 0 || int(op) >= len(mathOpStrings) {
		return fmt.Sprintf("MathOp(%d)", int(op))
	}
	return mathOpStrings[op]
}

// Builtin names a built-in function without path semantics.
type Builtin int

const (
	BuiltinAny Builtin = iota
	BuiltinAll
	BuiltinNot
	BuiltinLength
	BuiltinType
	BuiltinAdd
	BuiltinMap // takes one argument
)

var builtinStrings = [...]string{
	BuiltinAny:    "any",
	BuiltinAll:    "all",
	BuiltinNot:    "not",
	BuiltinLength: "length",
	BuiltinType:   "type",
	BuiltinAdd:    "add",
	BuiltinMap:    "map",
}

// String returns the function name.
func (b Builtin) String() string {
	if b < 0 || int(b) >= len(builtinStrings) {
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
	return builtinStrings[b]
}
