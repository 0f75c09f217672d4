// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"errors"
	"fmt"

	"golang.org/x/jqc/internal/syntax"
)

// Error kinds. An [*Error] matches its kind with [errors.Is].
var (
	ErrSyntax          = errors.New("syntax error")
	ErrNotPath         = errors.New("invalid assignment target")
	ErrUnknownFunction = errors.New("unknown function")
	ErrNumber          = errors.New("invalid number literal")
	ErrUnimplemented   = errors.New("unimplemented")
)

// codes are short names for the error kinds, for metrics and logs.
var codes = map[error]string{
	ErrSyntax:          "syntax",
	ErrNotPath:         "not_path",
	ErrUnknownFunction: "unknown_function",
	ErrNumber:          "number",
	ErrUnimplemented:   "unimplemented",
}

// An Error is a compilation error.
type Error struct {
	Kind error           // ErrSyntax, ErrNotPath and so on
	Pos  syntax.Position // location of the offending construct
	Msg  string
	Err  error // underlying error, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Is reports whether target is e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns a short name for e's kind, such as "not_path".
func (e *Error) Code() string {
	if c, ok := codes[e.Kind]; ok {
		return c
	}
	return "unknown"
}

// errorf returns an *Error of kind at pos.
func errorf(kind error, pos syntax.Position, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...), Err: err}
}
