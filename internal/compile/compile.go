// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile turns jq filter strings into filter ASTs.
//
// Compilation parses the string with package syntax and then builds
// the AST bottom up: operator precedence is resolved by precedence
// climbing, compound assignments such as .a += 1 become updates,
// function names are resolved by name and argument count, and path
// syntax becomes structured [filter.Path] values.
//
// Compilation has no side effects and uses only read-only package
// state, so it is safe to call from multiple goroutines.
package compile

import (
	"errors"

	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
)

// Compile parses and compiles src.
// Errors are of type [*Error].
func Compile(src string) (filter.Filter, error) {
	n, err := syntax.Parse(src)
	if err != nil {
		var serr *syntax.Error
		if !errors.As(err, &serr) {
			return nil, err
		}
		return nil, &Error{Kind: ErrSyntax, Pos: serr.Pos, Msg: serr.Msg, Err: serr}
	}
	return Build(n)
}

// Build compiles a parse tree produced by [syntax.Parse].
// A tree that does not follow the shape documented by package syntax
// causes a panic.
func Build(n *syntax.Node) (filter.Filter, error) {
	return build(n)
}
