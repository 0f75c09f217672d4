// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"

	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
)

// path builds the path of a KindPath node.
func path(n *syntax.Node) (filter.Path, error) {
	var p filter.Path
	for _, part := range n.Children {
		if part.Kind != syntax.KindPart {
			panic(fmt.Sprintf("unexpected %v in path", part.Kind))
		}
		elems, err := pathPart(part)
		if err != nil {
			return nil, err
		}
		p = append(p, elems...)
	}
	return p, nil
}

// pathPart returns the path elements of one KindPart node.
// A bare "." contributes nothing; a named head contributes an index
// by that name; each bracketed qualifier contributes one element.
func pathPart(part *syntax.Node) ([]filter.PathElem, error) {
	var elems []filter.PathElem
	for _, c := range part.Children {
		switch c.Kind {
		case syntax.KindIndex:
			elems = append(elems, pathIndex(c))
		case syntax.KindRange:
			e, err := pathRange(c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		default:
			panic(fmt.Sprintf("unexpected %v in path part", c.Kind))
		}
	}
	return elems, nil
}

// optional reports whether the last child of n is a "?".
// If so, it returns the remaining children.
func optional(n *syntax.Node) ([]*syntax.Node, bool) {
	cs := n.Children
	if len(cs) > 0 && cs[len(cs)-1].Kind == syntax.KindQuestion {
		return cs[:len(cs)-1], true
	}
	return cs, false
}

// pathIndex builds the element for a named path head such as .a or ."a".
func pathIndex(n *syntax.Node) filter.PathElem {
	cs, opt := optional(n)
	if len(cs) != 1 {
		panic(fmt.Sprintf("index with %d children", len(cs)))
	}
	return &filter.Index{F: &filter.Lit{Atom: filter.Str(name(cs[0]))}, Opt: opt}
}

// name returns the name given by an identifier or string node.
func name(n *syntax.Node) string {
	switch n.Kind {
	case syntax.KindIdent:
		return n.Text
	case syntax.KindString:
		return n.Val
	}
	panic(fmt.Sprintf("unexpected %v as name", n.Kind))
}

// pathRange builds the element for a bracketed qualifier.
//
//	[]      Range(nil, nil)
//	[e]     Index(e)
//	[e:]    Range(e, nil)
//	[:e]    Range(nil, e)
//	[e1:e2] Range(e1, e2)
func pathRange(n *syntax.Node) (filter.PathElem, error) {
	cs, opt := optional(n)
	if len(cs) == 0 {
		return &filter.Range{Opt: opt}, nil
	}
	if len(cs) != 1 {
		panic(fmt.Sprintf("range with %d children", len(cs)))
	}

	q := cs[0]
	args := make([]filter.Filter, len(q.Children))
	for i, c := range q.Children {
		f, err := build(c)
		if err != nil {
			return nil, err
		}
		args[i] = f
	}

	want := 1
	if q.Kind == syntax.KindFromUntil {
		want = 2
	}
	if len(args) != want {
		panic(fmt.Sprintf("%v with %d children", q.Kind, len(args)))
	}

	switch q.Kind {
	case syntax.KindAt:
		return &filter.Index{F: args[0], Opt: opt}, nil
	case syntax.KindFrom:
		return &filter.Range{From: args[0], Opt: opt}, nil
	case syntax.KindUntil:
		return &filter.Range{Until: args[0], Opt: opt}, nil
	case syntax.KindFromUntil:
		return &filter.Range{From: args[0], Until: args[1], Opt: opt}, nil
	}
	panic(fmt.Sprintf("unexpected %v in range", q.Kind))
}
