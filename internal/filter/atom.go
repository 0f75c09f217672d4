// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"strconv"
)

// An Atom is a scalar literal:
// [Null], [Bool], [Int], [Float] or [Str].
type Atom interface {
	atom()
	String() string
}

// Null is the JSON null.
type Null struct{}

// Bool is a boolean.
type Bool bool

// Int is a number literal written without a fraction or exponent
// whose value fits in an int64.
type Int int64

// Float is any other number literal.
type Float float64

// Str is a string.
type Str string

func (Null) atom()  {}
func (Bool) atom()  {}
func (Int) atom()   {}
func (Float) atom() {}
func (Str) atom()   {}

// String returns the atom in jq syntax.
func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (s Str) String() string { return strconv.Quote(string(s)) }

// Value returns the atom as a Go value suitable for encoding:
// nil, bool, int64, float64 or string.
func Value(a Atom) any {
	switch a := a.(type) {
	case Null:
		return nil
	case Bool:
		return bool(a)
	case Int:
		return int64(a)
	case Float:
		return float64(a)
	case Str:
		return string(a)
	}
	panic("can't happen")
}
