// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"

	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
)

// A climber resolves operator precedence in the children of a
// KindExpr node, which alternate between terms and operators.
type climber struct {
	nodes []*syntax.Node
	pos   int // index of the next unread node
}

// expr builds a KindExpr node.
func expr(n *syntax.Node) (filter.Filter, error) {
	if len(n.Children)%2 != 1 {
		panic(fmt.Sprintf("expr with %d children", len(n.Children)))
	}
	c := &climber{nodes: n.Children}
	lhs, err := c.operand()
	if err != nil {
		return nil, err
	}
	return c.climb(lhs, 0)
}

// operand builds the next term.
func (c *climber) operand() (filter.Filter, error) {
	n := c.nodes[c.pos]
	c.pos++
	return build(n)
}

// peek returns the next operator and its table entry,
// or nil if there are no more operators.
func (c *climber) peek() (*syntax.Node, opInfo) {
	if c.pos >= len(c.nodes) {
		return nil, opInfo{}
	}
	op := c.nodes[c.pos]
	info, ok := operators[op.Kind]
	if !ok {
		panic(fmt.Sprintf("no precedence for operator %v", op.Kind))
	}
	return op, info
}

// climb consumes operators binding at least as tightly as minPrec,
// with lhs as the left operand of the first one.
func (c *climber) climb(lhs filter.Filter, minPrec int) (filter.Filter, error) {
	for {
		op, info := c.peek()
		if op == nil || info.prec < minPrec {
			return lhs, nil
		}
		c.pos++
		rhs, err := c.operand()
		if err != nil {
			return nil, err
		}

		// An operator binding tighter than op, or a right associative
		// one at op's level, takes rhs as its left operand.
		for {
			next, ninfo := c.peek()
			if next == nil || ninfo.prec < info.prec || ninfo.prec == info.prec && !ninfo.right {
				break
			}
			level := info.prec + 1
			if ninfo.prec == info.prec {
				level = info.prec
			}
			rhs, err = c.climb(rhs, level)
			if err != nil {
				return nil, err
			}
		}

		lhs, err = reduce(lhs, op, rhs)
		if err != nil {
			return nil, err
		}
	}
}

// reduce applies the operator op to lhs and rhs.
func reduce(lhs filter.Filter, op *syntax.Node, rhs filter.Filter) (filter.Filter, error) {
	switch op.Kind {
	case syntax.KindPipe:
		return &filter.Pipe{L: lhs, R: rhs}, nil

	case syntax.KindComma:
		return &filter.Comma{L: lhs, R: rhs}, nil

	case syntax.KindAssign:
		p, err := target(lhs, op)
		if err != nil {
			return nil, err
		}
		return &filter.Assign{Path: p, Value: rhs}, nil

	case syntax.KindUpdate:
		p, err := target(lhs, op)
		if err != nil {
			return nil, err
		}
		return &filter.Update{Path: p, F: rhs}, nil

	case syntax.KindUpdateWith:
		// p op= f is p |= . op f.
		if len(op.Children) != 1 {
			panic(fmt.Sprintf("update_with with %d children", len(op.Children)))
		}
		mop, ok := mathOps[op.Children[0].Kind]
		if !ok {
			panic(fmt.Sprintf("update_with with operator %v", op.Children[0].Kind))
		}
		p, err := target(lhs, op)
		if err != nil {
			return nil, err
		}
		return &filter.Update{Path: p, F: &filter.Math{L: filter.Identity(), Op: mop, R: rhs}}, nil
	}

	if lop, ok := logicOps[op.Kind]; ok {
		return &filter.Logic{L: lhs, Op: lop, R: rhs}, nil
	}
	if mop, ok := mathOps[op.Kind]; ok {
		return &filter.Math{L: lhs, Op: mop, R: rhs}, nil
	}
	panic(fmt.Sprintf("operator %v has precedence but no meaning", op.Kind))
}

// target converts the left operand of an assignment operator to a path.
func target(lhs filter.Filter, op *syntax.Node) (filter.Path, error) {
	p, err := filter.ToPath(lhs)
	if err != nil {
		return nil, errorf(ErrNotPath, op.Pos, err, "left side of %q is not a path: %s", op.Text, filter.Describe(lhs))
	}
	return p, nil
}
