// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"golang.org/x/jqc/internal/filter"
)

// A signature identifies a function by name and number of arguments.
// The same name may mean different things, or nothing,
// at different arities.
type signature struct {
	name  string
	arity int
}

// builtins maps each known signature to a constructor
// that receives exactly arity arguments.
var builtins = map[signature]func(args []filter.Filter) filter.Filter{
	{"empty", 0}:  func([]filter.Filter) filter.Filter { return &filter.Empty{} },
	{"any", 0}:    pure(filter.BuiltinAny),
	{"all", 0}:    pure(filter.BuiltinAll),
	{"not", 0}:    pure(filter.BuiltinNot),
	{"length", 0}: pure(filter.BuiltinLength),
	{"type", 0}:   pure(filter.BuiltinType),
	{"add", 0}:    pure(filter.BuiltinAdd),

	{"first", 1}:   func(a []filter.Filter) filter.Filter { return &filter.First{F: a[0]} },
	{"last", 1}:    func(a []filter.Filter) filter.Filter { return &filter.Last{F: a[0]} },
	{"map", 1}:     func(a []filter.Filter) filter.Filter { return &filter.Func{Name: filter.BuiltinMap, Arg: a[0]} },
	{"select", 1}:  selectFilter,
	{"recurse", 1}: func(a []filter.Filter) filter.Filter { return &filter.Recurse{F: a[0]} },

	{"limit", 2}: func(a []filter.Filter) filter.Filter { return &filter.Limit{N: a[0], F: a[1]} },

	{"fold", 3}: func(a []filter.Filter) filter.Filter {
		return &filter.Fold{Init: a[0], Update: a[1], Extract: a[2]}
	},
}

// pure returns a constructor for a built-in without arguments.
func pure(b filter.Builtin) func([]filter.Filter) filter.Filter {
	return func([]filter.Filter) filter.Filter { return &filter.Func{Name: b} }
}

// selectFilter builds select(f), which is if f then . else empty end.
func selectFilter(a []filter.Filter) filter.Filter {
	return &filter.IfThenElse{Cond: a[0], Then: filter.Identity(), Else: &filter.Empty{}}
}

// resolve returns the filter for a call of name with args.
// It reports false if no function has that name and arity.
func resolve(name string, args []filter.Filter) (filter.Filter, bool) {
	mk, ok := builtins[signature{name, len(args)}]
	if !ok {
		return nil, false
	}
	return mk(args), true
}
