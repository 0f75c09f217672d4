// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
)

// atom decodes the literal below a KindAtom node.
func atom(n *syntax.Node) (filter.Atom, error) {
	if len(n.Children) != 1 {
		panic(fmt.Sprintf("atom with %d children", len(n.Children)))
	}
	lit := n.Children[0]
	switch lit.Kind {
	case syntax.KindNull:
		return filter.Null{}, nil
	case syntax.KindBool:
		return filter.Bool(lit.Text == "true"), nil
	case syntax.KindNumber:
		return number(lit)
	case syntax.KindString:
		return filter.Str(lit.Val), nil
	}
	panic(fmt.Sprintf("unexpected literal kind %v", lit.Kind))
}

// number decodes a number literal.
// The literal is read exactly as a decimal and then converted:
// integers without a fraction or exponent that fit in an int64
// become [filter.Int], anything else a [filter.Float].
// A literal too large for a float64 is an error.
func number(n *syntax.Node) (filter.Atom, error) {
	d, _, err := apd.NewFromString(n.Text)
	if err != nil {
		return nil, errorf(ErrNumber, n.Pos, err, "invalid number literal %s", n.Text)
	}
	if !strings.ContainsAny(n.Text, ".eE") {
		if i, err := d.Int64(); err == nil {
			return filter.Int(i), nil
		}
	}
	f, err := d.Float64()
	if err != nil {
		return nil, errorf(ErrNumber, n.Pos, err, "number literal %s is out of range", n.Text)
	}
	return filter.Float(f), nil
}
