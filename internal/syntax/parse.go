// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"io"
)

// Trace, if not nil, receives a trace of the parser's progress.
// It is not safe to set Trace while Parse is running.
var Trace io.Writer

// An Error is a syntax error in a filter string.
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// errorf returns an *Error at pos.
func errorf(pos Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Parse parses a filter expression into a concrete parse tree.
// The root is always a [KindExpr] node.
// main = expr EOF ;
func Parse(src string) (*Node, error) {
	lex := newLexer(src)

	n, err := parseExpr(lex, false)
	if err != nil {
		return nil, err
	}

	tok := lex.nextToken()
	if tok.kind != tokenEOF {
		return nil, unexpected(tok, "after filter expression")
	}
	return n, nil
}

// unexpected returns an error for tok in the context ctx.
func unexpected(tok token, ctx string) error {
	if tok.kind == tokenInvalidInput {
		return errorf(tok.pos, "%s", tok.val)
	}
	return errorf(tok.pos, "unexpected %s %s", tok, ctx)
}

// infixKinds maps operator tokens to node kinds.
var infixKinds = map[tokenKind]Kind{
	tokenPipe:              KindPipe,
	tokenComma:             KindComma,
	tokenAssign:            KindAssign,
	tokenUpdate:            KindUpdate,
	tokenAddUpdate:         KindUpdateWith,
	tokenSubUpdate:         KindUpdateWith,
	tokenMulUpdate:         KindUpdateWith,
	tokenDivUpdate:         KindUpdateWith,
	tokenRemUpdate:         KindUpdateWith,
	tokenOr:                KindOr,
	tokenAnd:               KindAnd,
	tokenEquals:            KindEq,
	tokenNotEquals:         KindNe,
	tokenGreaterThan:       KindGt,
	tokenGreaterThanEquals: KindGe,
	tokenLessThan:          KindLt,
	tokenLessThanEquals:    KindLe,
	tokenPlus:              KindAdd,
	tokenMinus:             KindSub,
	tokenStar:              KindMul,
	tokenSlash:             KindDiv,
	tokenPercent:           KindRem,
}

// updateWithKinds maps compound assignment tokens to
// the arithmetic operator they apply.
var updateWithKinds = map[tokenKind]Kind{
	tokenAddUpdate: KindAdd,
	tokenSubUpdate: KindSub,
	tokenMulUpdate: KindMul,
	tokenDivUpdate: KindDiv,
	tokenRemUpdate: KindRem,
}

// leaf returns a childless node covering tok.
func (lex *lexer) leaf(kind Kind, tok token) *Node {
	return &Node{
		Kind: kind,
		Pos:  tok.pos,
		Span: Span{tok.off, tok.end},
		Text: lex.src[tok.off:tok.end],
	}
}

// node returns a node that starts at start and ends at byte offset end.
func (lex *lexer) node(kind Kind, start token, end int, children ...*Node) *Node {
	return &Node{
		Kind:     kind,
		Pos:      start.pos,
		Span:     Span{start.off, end},
		Text:     lex.src[start.off:end],
		Children: children,
	}
}

// paren widens the expression n, read between the tokens lp and rp,
// to cover both parentheses.
func (lex *lexer) paren(n *Node, lp, rp token) *Node {
	n.Pos = lp.pos
	n.Span = Span{lp.off, rp.end}
	n.Text = lex.src[lp.off:rp.end]
	return n
}

// expect consumes the next token, which must be of kind want.
func expect(lex *lexer, want tokenKind, ctx string) (token, error) {
	tok := lex.nextToken()
	if tok.kind != want {
		lex.pushToken(tok)
		if tok.kind == tokenInvalidInput {
			return tok, errorf(tok.pos, "%s", tok.val)
		}
		return tok, errorf(tok.pos, "expected %q %s, found %s", want.String(), ctx, tok)
	}
	return tok, nil
}

// parseExpr parses a sequence of terms separated by infix operators.
// Operator precedence is not resolved here; the node's children
// alternate between terms and operators.
// If noComma is set, a comma ends the expression, as in object values.
//
//	expr = term { infix term } ;
func parseExpr(lex *lexer, noComma bool) (n *Node, err error) {
	fn := trace("Expr")
	defer func() { fn(n, err) }()

	start := lex.peekToken()
	term, err := parseTerm(lex)
	if err != nil {
		return nil, err
	}
	children := []*Node{term}

	for {
		tok := lex.nextToken()
		kind, ok := infixKinds[tok.kind]
		if !ok || noComma && kind == KindComma {
			lex.pushToken(tok)
			break
		}

		op := lex.leaf(kind, tok)
		if kind == KindUpdateWith {
			// The arithmetic operator is the text without the "=".
			mop := lex.leaf(updateWithKinds[tok.kind], tok)
			mop.Span.End--
			mop.Text = mop.Text[:len(mop.Text)-1]
			op.Children = []*Node{mop}
		}

		rhs, err := parseTerm(lex)
		if err != nil {
			return nil, err
		}
		children = append(children, op, rhs)
	}

	last := children[len(children)-1]
	return lex.node(KindExpr, start, last.Span.End, children...), nil
}

// parseTerm parses a term.
//
//	term = path | atom | array | object | ite | function | "(" expr ")" ;
func parseTerm(lex *lexer) (n *Node, err error) {
	fn := trace("Term")
	defer func() { fn(n, err) }()

	tok := lex.nextToken()
	switch tok.kind {
	case tokenDot:
		lex.pushToken(tok)
		return parsePath(lex)

	case tokenNull, tokenTrue, tokenFalse, tokenNumber, tokenString, tokenMinus:
		return parseAtom(lex, tok)

	case tokenLbrack:
		return parseArray(lex, tok)

	case tokenLbrace:
		return parseObject(lex, tok)

	case tokenIf:
		return parseIte(lex, tok)

	case tokenIdent:
		return parseFunction(lex, tok)

	case tokenLparen:
		e, err := parseExpr(lex, false)
		if err != nil {
			return nil, err
		}
		rp, err := expect(lex, tokenRparen, "after parenthesized expression")
		if err != nil {
			return nil, err
		}
		return lex.paren(e, tok, rp), nil

	case tokenDotDot:
		return nil, errorf(tok.pos, "recursive descent %q is not supported", "..")

	default:
		return nil, unexpected(tok, "where a term was expected")
	}
}

// parseAtom parses a literal. We have already read its first token.
//
//	atom = "null" | "true" | "false" | [ "-" ] number | string ;
func parseAtom(lex *lexer, tok token) (n *Node, err error) {
	fn := trace("Atom")
	defer func() { fn(n, err) }()

	var lit *Node
	switch tok.kind {
	case tokenNull:
		lit = lex.leaf(KindNull, tok)
	case tokenTrue, tokenFalse:
		lit = lex.leaf(KindBool, tok)
	case tokenNumber:
		lit = lex.leaf(KindNumber, tok)
	case tokenString:
		lit = lex.leaf(KindString, tok)
		lit.Val = tok.val
	case tokenMinus:
		num := lex.nextToken()
		if num.kind != tokenNumber || num.space {
			lex.pushToken(num)
			return nil, errorf(tok.pos, "unary minus is only supported before a number literal")
		}
		lit = lex.node(KindNumber, tok, num.end)
	default:
		panic("can't happen")
	}
	return lex.node(KindAtom, tok, lit.Span.End, lit), nil
}

// parseArray parses an array constructor. We have already seen the "[".
//
//	array = "[" [ expr ] "]" ;
func parseArray(lex *lexer, open token) (n *Node, err error) {
	fn := trace("Array")
	defer func() { fn(n, err) }()

	tok := lex.nextToken()
	if tok.kind == tokenRbrack {
		return lex.node(KindArray, open, tok.end), nil
	}
	lex.pushToken(tok)

	e, err := parseExpr(lex, false)
	if err != nil {
		return nil, err
	}
	end, err := expect(lex, tokenRbrack, "after array elements")
	if err != nil {
		return nil, err
	}
	return lex.node(KindArray, open, end.end, e), nil
}

// parseObject parses an object constructor. We have already seen the "{".
//
//	object = "{" [ entry { "," entry } ] "}" ;
func parseObject(lex *lexer, open token) (n *Node, err error) {
	fn := trace("Object")
	defer func() { fn(n, err) }()

	var entries []*Node
	tok := lex.nextToken()
	if tok.kind == tokenRbrace {
		return lex.node(KindObject, open, tok.end), nil
	}
	lex.pushToken(tok)

	for {
		entry, err := parseEntry(lex)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)

		tok := lex.nextToken()
		switch tok.kind {
		case tokenComma:
		case tokenRbrace:
			return lex.node(KindObject, open, tok.end, entries...), nil
		default:
			return nil, unexpected(tok, "in object; expected \",\" or \"}\"")
		}
	}
}

// parseEntry parses one object entry.
// The value may not contain a top-level comma, which separates entries.
//
//	entry = ( identifier | keyword | string | "(" expr ")" ) [ ":" expr ] ;
func parseEntry(lex *lexer) (n *Node, err error) {
	fn := trace("Entry")
	defer func() { fn(n, err) }()

	tok := lex.nextToken()
	var key *Node
	switch {
	case tok.kind == tokenIdent || tok.kind.isKeyword():
		key = lex.leaf(KindIdent, tok)
	case tok.kind == tokenString:
		key = lex.leaf(KindString, tok)
		key.Val = tok.val
	case tok.kind == tokenLparen:
		key, err = parseExpr(lex, false)
		if err != nil {
			return nil, err
		}
		rp, err := expect(lex, tokenRparen, "after object key expression")
		if err != nil {
			return nil, err
		}
		key = lex.paren(key, tok, rp)
	default:
		return nil, unexpected(tok, "where an object key was expected")
	}

	colon := lex.nextToken()
	if colon.kind != tokenColon {
		lex.pushToken(colon)
		return lex.node(KindEntry, tok, key.Span.End, key), nil
	}

	val, err := parseExpr(lex, true)
	if err != nil {
		return nil, err
	}
	return lex.node(KindEntry, tok, val.Span.End, key, val), nil
}

// parseIte parses a conditional. We have already seen the "if" or "elif".
// An elif chain becomes a nested conditional in the else position,
// so every conditional node has exactly three children.
//
//	ite = "if" expr "then" expr { "elif" expr "then" expr } "else" expr "end" ;
func parseIte(lex *lexer, start token) (n *Node, err error) {
	fn := trace("Ite")
	defer func() { fn(n, err) }()

	cond, err := parseExpr(lex, false)
	if err != nil {
		return nil, err
	}
	if _, err := expect(lex, tokenThen, "after condition"); err != nil {
		return nil, err
	}
	then, err := parseExpr(lex, false)
	if err != nil {
		return nil, err
	}

	var els *Node
	var end int
	tok := lex.nextToken()
	switch tok.kind {
	case tokenElif:
		els, err = parseIte(lex, tok)
		if err != nil {
			return nil, err
		}
		end = els.Span.End
	case tokenElse:
		els, err = parseExpr(lex, false)
		if err != nil {
			return nil, err
		}
		endTok, err := expect(lex, tokenEnd, "after else branch")
		if err != nil {
			return nil, err
		}
		end = endTok.end
	default:
		return nil, unexpected(tok, "in conditional; expected \"elif\" or \"else\"")
	}
	return lex.node(KindIte, start, end, cond, then, els), nil
}

// parseFunction parses a function call. We have already seen the name.
//
//	function = identifier [ "(" [ expr { ";" expr } ] ")" ] ;
func parseFunction(lex *lexer, name token) (n *Node, err error) {
	fn := trace("Function")
	defer func() { fn(n, err) }()

	id := lex.leaf(KindIdent, name)
	open := lex.nextToken()
	if open.kind != tokenLparen {
		lex.pushToken(open)
		return lex.node(KindFunction, name, id.Span.End, id), nil
	}

	var args []*Node
	tok := lex.nextToken()
	if tok.kind != tokenRparen {
		lex.pushToken(tok)
		for {
			arg, err := parseExpr(lex, false)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			tok = lex.nextToken()
			if tok.kind == tokenRparen {
				break
			}
			if tok.kind != tokenSemicolon {
				return nil, unexpected(tok, "in argument list; expected \";\" or \")\"")
			}
		}
	}
	argNode := lex.node(KindArgs, open, tok.end, args...)
	return lex.node(KindFunction, name, tok.end, id, argNode), nil
}

// parsePath parses a path. The next token is a ".".
// A "." that continues a path must immediately follow the previous part.
//
//	path = part { part } ;
func parsePath(lex *lexer) (n *Node, err error) {
	fn := trace("Path")
	defer func() { fn(n, err) }()

	var parts []*Node
	start := lex.peekToken()
	for {
		tok := lex.nextToken()
		if tok.kind != tokenDot || len(parts) > 0 && tok.space {
			lex.pushToken(tok)
			break
		}
		part, err := parsePart(lex, tok)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	last := parts[len(parts)-1]
	return lex.node(KindPath, start, last.Span.End, parts...), nil
}

// parsePart parses one path part. We have already seen the ".".
// A bare "." selects nothing by itself.
//
//	part  = "." [ index ] { range } ;
//	index = ( identifier | keyword | string ) [ "?" ] ;
func parsePart(lex *lexer, dot token) (n *Node, err error) {
	fn := trace("Part")
	defer func() { fn(n, err) }()

	var children []*Node
	end := dot.end

	tok := lex.nextToken()
	if !tok.space && (tok.kind == tokenIdent || tok.kind == tokenString || tok.kind.isKeyword()) {
		var name *Node
		if tok.kind == tokenString {
			name = lex.leaf(KindString, tok)
			name.Val = tok.val
		} else {
			name = lex.leaf(KindIdent, tok)
		}
		idx := []*Node{name}
		end = tok.end
		if q := lex.nextToken(); q.kind == tokenQuestion {
			idx = append(idx, lex.leaf(KindQuestion, q))
			end = q.end
		} else {
			lex.pushToken(q)
		}
		children = append(children, lex.node(KindIndex, tok, end, idx...))
	} else {
		lex.pushToken(tok)
	}

	for {
		tok := lex.nextToken()
		if tok.kind != tokenLbrack {
			lex.pushToken(tok)
			break
		}
		r, err := parseRange(lex, tok)
		if err != nil {
			return nil, err
		}
		children = append(children, r)
		end = r.Span.End
	}
	return lex.node(KindPart, dot, end, children...), nil
}

// parseRange parses a bracketed path qualifier. We have already seen the "[".
//
//	range      = "[" [ at | from | until | from_until ] "]" [ "?" ] ;
//	at         = expr ;
//	from       = expr ":" ;
//	until      = ":" expr ;
//	from_until = expr ":" expr ;
func parseRange(lex *lexer, open token) (n *Node, err error) {
	fn := trace("Range")
	defer func() { fn(n, err) }()

	var children []*Node
	tok := lex.nextToken()
	switch tok.kind {
	case tokenRbrack:
		// [] selects every element.
		lex.pushToken(tok)

	case tokenColon:
		if next := lex.peekToken(); next.kind == tokenRbrack {
			// [:] is the same as [].
			break
		}
		e, err := parseExpr(lex, false)
		if err != nil {
			return nil, err
		}
		children = append(children, lex.node(KindUntil, tok, e.Span.End, e))

	default:
		lex.pushToken(tok)
		e, err := parseExpr(lex, false)
		if err != nil {
			return nil, err
		}
		colon := lex.nextToken()
		if colon.kind != tokenColon {
			lex.pushToken(colon)
			children = append(children, lex.node(KindAt, tok, e.Span.End, e))
			break
		}
		if next := lex.peekToken(); next.kind == tokenRbrack {
			children = append(children, lex.node(KindFrom, tok, colon.end, e))
			break
		}
		e2, err := parseExpr(lex, false)
		if err != nil {
			return nil, err
		}
		children = append(children, lex.node(KindFromUntil, tok, e2.Span.End, e, e2))
	}

	closeTok, err := expect(lex, tokenRbrack, "after path qualifier")
	if err != nil {
		return nil, err
	}
	end := closeTok.end
	if q := lex.nextToken(); q.kind == tokenQuestion {
		children = append(children, lex.leaf(KindQuestion, q))
		end = q.end
	} else {
		lex.pushToken(q)
	}
	return lex.node(KindRange, open, end, children...), nil
}

// traceIndent is how far to indent the trace.
var traceIndent int

// trace emits a parse trace. It returns a function to defer.
func trace(fn string) func(*Node, error) {
	w := Trace
	if w == nil {
		return func(*Node, error) {}
	}
	fmt.Fprintf(w, "%*s%s\n", traceIndent, "", fn)
	traceIndent++
	return func(n *Node, err error) {
		traceIndent--
		fmt.Fprintf(w, "%*s%s returning ", traceIndent, "", fn)
		switch {
		case n == nil && err == nil:
			fmt.Fprintf(w, "nil, nil\n")
		case n == nil:
			fmt.Fprintf(w, "error %v\n", err)
		case err == nil:
			fmt.Fprintf(w, "%s", n.Kind)
			fmt.Fprintf(w, " %q\n", n.Text)
		default:
			fmt.Fprintf(w, "error %v %s\n", err, n.Kind)
		}
	}
}
