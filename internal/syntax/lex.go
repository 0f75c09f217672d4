// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// tokenKind is a lexical token.
type tokenKind int

const (
	tokenInvalidInput      tokenKind = iota
	tokenEOF                         // end of tokens
	tokenDot                         // .
	tokenDotDot                      // ..
	tokenQuestion                    // ?
	tokenLparen                      // (
	tokenRparen                      // )
	tokenLbrack                      // [
	tokenRbrack                      // ]
	tokenLbrace                      // {
	tokenRbrace                      // }
	tokenColon                       // :
	tokenSemicolon                   // ;
	tokenComma                       // ,
	tokenPipe                        // |
	tokenAssign                      // =
	tokenUpdate                      // |=
	tokenAddUpdate                   // +=
	tokenSubUpdate                   // -=
	tokenMulUpdate                   // *=
	tokenDivUpdate                   // /=
	tokenRemUpdate                   // %=
	tokenEquals                      // ==
	tokenNotEquals                   // !=
	tokenGreaterThan                 // >
	tokenGreaterThanEquals           // >=
	tokenLessThan                    // <
	tokenLessThanEquals              // <=
	tokenPlus                        // +
	tokenMinus                       // -
	tokenStar                        // *
	tokenSlash                       // /
	tokenPercent                     // %
	tokenOr                          // or
	tokenAnd                         // and
	tokenIf                          // if
	tokenThen                        // then
	tokenElif                        // elif
	tokenElse                        // else
	tokenEnd                         // end
	tokenNull                        // null
	tokenTrue                        // true
	tokenFalse                       // false
	tokenIdent
	tokenNumber
	tokenString
)

var tokenKindStrings = [...]string{
	tokenInvalidInput:      "invalid",
	tokenEOF:               "EOF",
	tokenDot:               ".",
	tokenDotDot:            "..",
	tokenQuestion:          "?",
	tokenLparen:            "(",
	tokenRparen:            ")",
	tokenLbrack:            "[",
	tokenRbrack:            "]",
	tokenLbrace:            "{",
	tokenRbrace:            "}",
	tokenColon:             ":",
	tokenSemicolon:         ";",
	tokenComma:             ",",
	tokenPipe:              "|",
	tokenAssign:            "=",
	tokenUpdate:            "|=",
	tokenAddUpdate:         "+=",
	tokenSubUpdate:         "-=",
	tokenMulUpdate:         "*=",
	tokenDivUpdate:         "/=",
	tokenRemUpdate:         "%=",
	tokenEquals:            "==",
	tokenNotEquals:         "!=",
	tokenGreaterThan:       ">",
	tokenGreaterThanEquals: ">=",
	tokenLessThan:          "<",
	tokenLessThanEquals:    "<=",
	tokenPlus:              "+",
	tokenMinus:             "-",
	tokenStar:              "*",
	tokenSlash:             "/",
	tokenPercent:           "%",
	tokenOr:                "or",
	tokenAnd:               "and",
	tokenIf:                "if",
	tokenThen:              "then",
	tokenElif:              "elif",
	tokenElse:              "else",
	tokenEnd:               "end",
	tokenNull:              "null",
	tokenTrue:              "true",
	tokenFalse:             "false",
	tokenIdent:             "identifier",
	tokenNumber:            "number",
	tokenString:            "string",
}

// String returns the string representation of a tokenKind.
func (tk tokenKind) String() string {
	return tokenKindStrings[tk]
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]tokenKind{
	"or":    tokenOr,
	"and":   tokenAnd,
	"if":    tokenIf,
	"then":  tokenThen,
	"elif":  tokenElif,
	"else":  tokenElse,
	"end":   tokenEnd,
	"null":  tokenNull,
	"true":  tokenTrue,
	"false": tokenFalse,
}

// isKeyword reports whether tk is a reserved word.
// Reserved words may still be used as object keys and path indexes.
func (tk tokenKind) isKeyword() bool {
	return tk >= tokenOr && tk <= tokenFalse
}

// token is a lexical token read from the filter string.
type token struct {
	kind  tokenKind
	pos   Position
	off   int    // byte offset of the first byte
	end   int    // byte offset just past the last byte
	val   string // decoded string contents, or the error message for tokenInvalidInput
	space bool   // token was preceded by whitespace or a comment
}

// String describes a token for an error message.
func (tok token) String() string {
	switch tok.kind {
	case tokenEOF:
		return "EOF"
	case tokenIdent, tokenNumber:
		return fmt.Sprintf("%s %s", tok.kind, tok.val)
	case tokenString:
		return fmt.Sprintf("string %q", tok.val)
	default:
		return fmt.Sprintf("%q", tok.kind.String())
	}
}

// lexer is used to convert a string into a sequence of tokens.
type lexer struct {
	src   string // full filter text
	input string // unread suffix of src

	pushed      bool
	pushedToken token // valid if pushed

	nextPos Position // position of next rune
}

// newLexer returns a lexer reading src.
func newLexer(src string) *lexer {
	return &lexer{
		src:     src,
		input:   src,
		nextPos: Position{Line: 1, Col: 1},
	}
}

// offset returns the byte offset of the next unread byte.
func (lex *lexer) offset() int {
	return len(lex.src) - len(lex.input)
}

// nextToken returns the next token from the string.
// At the end of the input this returns tokenEOF.
func (lex *lexer) nextToken() token {
	if lex.pushed {
		lex.pushed = false
		return lex.pushedToken
	}

	space := lex.skipWhite()
	tok := lex.scan()
	tok.space = space
	tok.end = lex.offset()
	return tok
}

// scan reads one token. Whitespace has already been skipped.
func (lex *lexer) scan() token {
	pos := lex.nextPos
	off := lex.offset()
	mk := func(kind tokenKind) token {
		return token{kind: kind, pos: pos, off: off}
	}

	if len(lex.input) == 0 {
		return mk(tokenEOF)
	}

	r, size := utf8.DecodeRuneInString(lex.input)
	if r == utf8.RuneError && size <= 1 {
		lex.advance(r, size)
		return lex.invalid(pos, off, "invalid UTF-8 encoding")
	}
	lex.advance(r, size)

	// two reports whether the next byte is c, consuming it if so.
	two := func(c byte) bool {
		if len(lex.input) > 0 && lex.input[0] == c {
			lex.advance(rune(c), 1)
			return true
		}
		return false
	}

	switch {
	case r == '.':
		if two('.') {
			return mk(tokenDotDot)
		}
		return mk(tokenDot)
	case r == '?':
		return mk(tokenQuestion)
	case r == '(':
		return mk(tokenLparen)
	case r == ')':
		return mk(tokenRparen)
	case r == '[':
		return mk(tokenLbrack)
	case r == ']':
		return mk(tokenRbrack)
	case r == '{':
		return mk(tokenLbrace)
	case r == '}':
		return mk(tokenRbrace)
	case r == ':':
		return mk(tokenColon)
	case r == ';':
		return mk(tokenSemicolon)
	case r == ',':
		return mk(tokenComma)
	case r == '|':
		if two('=') {
			return mk(tokenUpdate)
		}
		return mk(tokenPipe)
	case r == '=':
		if two('=') {
			return mk(tokenEquals)
		}
		return mk(tokenAssign)
	case r == '!':
		if two('=') {
			return mk(tokenNotEquals)
		}
		return lex.invalid(pos, off, "unexpected character '!'")
	case r == '>':
		if two('=') {
			return mk(tokenGreaterThanEquals)
		}
		return mk(tokenGreaterThan)
	case r == '<':
		if two('=') {
			return mk(tokenLessThanEquals)
		}
		return mk(tokenLessThan)
	case r == '+':
		if two('=') {
			return mk(tokenAddUpdate)
		}
		return mk(tokenPlus)
	case r == '-':
		if two('=') {
			return mk(tokenSubUpdate)
		}
		return mk(tokenMinus)
	case r == '*':
		if two('=') {
			return mk(tokenMulUpdate)
		}
		return mk(tokenStar)
	case r == '/':
		if two('=') {
			return mk(tokenDivUpdate)
		}
		return mk(tokenSlash)
	case r == '%':
		if two('=') {
			return mk(tokenRemUpdate)
		}
		return mk(tokenPercent)
	case r == '"':
		return lex.collectString(pos, off)
	case isDigit(r):
		return lex.number(pos, off)
	case isIdentStart(r):
		return lex.ident(pos, off)
	default:
		return lex.invalid(pos, off, fmt.Sprintf("unexpected character %q", r))
	}
}

// invalid returns a tokenInvalidInput carrying msg.
func (lex *lexer) invalid(pos Position, off int, msg string) token {
	return token{kind: tokenInvalidInput, pos: pos, off: off, val: msg}
}

// skipWhite skips whitespace and comments.
// It reports whether anything was skipped.
func (lex *lexer) skipWhite() bool {
	skipped := false
	for len(lex.input) > 0 {
		r, size := utf8.DecodeRuneInString(lex.input)
		switch {
		case isWhite(r):
			lex.advance(r, size)
		case r == '#':
			lex.skipComment()
		default:
			return skipped
		}
		skipped = true
	}
	return skipped
}

// skipComment skips a comment up to, but not including, the newline.
func (lex *lexer) skipComment() {
	for len(lex.input) > 0 {
		r, size := utf8.DecodeRuneInString(lex.input)
		if r == '\n' {
			return
		}
		lex.advance(r, size)
	}
}

// advance advances past r of size size.
func (lex *lexer) advance(r rune, size int) {
	lex.input = lex.input[size:]
	if r == '\n' {
		lex.nextPos.Line++
		lex.nextPos.Col = 1
	} else {
		lex.nextPos.Col++
	}
}

// digits advances past a run of ASCII digits and reports how many there were.
func (lex *lexer) digits() int {
	n := 0
	for len(lex.input) > 0 && isDigit(rune(lex.input[0])) {
		lex.advance(rune(lex.input[0]), 1)
		n++
	}
	return n
}

// number collects a number literal.
// The first digit has already been consumed.
//
//	number = digit { digit } [ "." { digit } ] [ ("e" | "E") [ "+" | "-" ] digit { digit } ] ;
func (lex *lexer) number(pos Position, off int) token {
	lex.digits()
	if len(lex.input) > 0 && lex.input[0] == '.' {
		// Leave "1..2" alone so that the error points at "..".
		if len(lex.input) < 2 || lex.input[1] != '.' {
			lex.advance('.', 1)
			lex.digits()
		}
	}
	if len(lex.input) > 0 && (lex.input[0] == 'e' || lex.input[0] == 'E') {
		lex.advance(rune(lex.input[0]), 1)
		if len(lex.input) > 0 && (lex.input[0] == '+' || lex.input[0] == '-') {
			lex.advance(rune(lex.input[0]), 1)
		}
		if lex.digits() == 0 {
			return lex.invalid(pos, off, "missing exponent digits in number literal")
		}
	}
	if len(lex.input) > 0 {
		if r, _ := utf8.DecodeRuneInString(lex.input); isIdentStart(r) {
			return lex.invalid(pos, off, fmt.Sprintf("unexpected character %q after number literal", r))
		}
	}
	return token{kind: tokenNumber, pos: pos, off: off, val: lex.src[off:lex.offset()]}
}

// ident collects an identifier or keyword.
// The first rune has already been consumed.
func (lex *lexer) ident(pos Position, off int) token {
	for len(lex.input) > 0 {
		r, size := utf8.DecodeRuneInString(lex.input)
		if !isIdentStart(r) && !isDigit(r) {
			break
		}
		lex.advance(r, size)
	}
	name := lex.src[off:lex.offset()]
	if kind, ok := keywords[name]; ok {
		return token{kind: kind, pos: pos, off: off, val: name}
	}
	return token{kind: tokenIdent, pos: pos, off: off, val: name}
}

// quotedSpecials is a map from a character that can follow a
// backslash to the byte value that it represents.
var quotedSpecials = map[rune]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// collectString collects the characters from a string.
// The opening quote has already been consumed.
func (lex *lexer) collectString(pos Position, off int) token {
	var sb strings.Builder
	for len(lex.input) > 0 {
		r, size := utf8.DecodeRuneInString(lex.input)
		lex.advance(r, size)
		switch {
		case r == '"':
			return token{kind: tokenString, pos: pos, off: off, val: sb.String()}

		case r == '\\':
			if len(lex.input) == 0 {
				return lex.invalid(pos, off, "unterminated string literal")
			}
			escPos := lex.nextPos
			r, size = utf8.DecodeRuneInString(lex.input)
			if s, ok := quotedSpecials[r]; ok {
				lex.advance(r, size)
				sb.WriteByte(s)
				continue
			}
			switch r {
			case 'u':
				if !lex.handleHex(&sb) {
					return lex.invalid(escPos, off, `invalid \u escape in string literal`)
				}
			case '(':
				return lex.invalid(escPos, off, "string interpolation is not supported")
			default:
				return lex.invalid(escPos, off, fmt.Sprintf("invalid escape sequence \\%c in string literal", r))
			}

		case r < ' ':
			return lex.invalid(pos, off, "control character in string literal")

		default:
			sb.WriteRune(r)
		}
	}
	return lex.invalid(pos, off, "unterminated string literal")
}

// hex4 reads four hex digits following a 'u' at the start of input.
// It reports whether it succeeded; on failure it consumes nothing.
func (lex *lexer) hex4() (rune, bool) {
	if len(lex.input) < 5 || lex.input[0] != 'u' {
		return 0, false
	}
	var r rune
	for i := 1; i <= 4; i++ {
		c := rune(lex.input[i])
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r += c - '0'
		case c >= 'a' && c <= 'f':
			r += 10 + c - 'a'
		case c >= 'A' && c <= 'F':
			r += 10 + c - 'A'
		default:
			return 0, false
		}
	}
	for i := 0; i < 5; i++ {
		lex.advance(rune(lex.input[0]), 1)
	}
	return r, true
}

// handleHex decodes a \uDDDD escape, combining UTF-16 surrogate pairs.
// The input points at the 'u'.
func (lex *lexer) handleHex(sb *strings.Builder) bool {
	r, ok := lex.hex4()
	if !ok {
		return false
	}
	if utf16.IsSurrogate(r) {
		if len(lex.input) > 0 && lex.input[0] == '\\' {
			save, savePos := lex.input, lex.nextPos
			lex.advance('\\', 1)
			if r2, ok := lex.hex4(); ok {
				if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
					sb.WriteRune(dec)
					return true
				}
			}
			lex.input, lex.nextPos = save, savePos
		}
		r = utf8.RuneError
	}
	sb.WriteRune(r)
	return true
}

// pushToken pushes a token so that it is the next one returned.
func (lex *lexer) pushToken(tok token) {
	if lex.pushed {
		panic("double pushToken")
	}
	lex.pushed = true
	lex.pushedToken = tok
}

// peekToken returns the next token without consuming it.
func (lex *lexer) peekToken() token {
	tok := lex.nextToken()
	lex.pushToken(tok)
	return tok
}

// isWhite reports whether r is a whitespace character.
func isWhite(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// isDigit reports whether r is a digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isIdentStart reports whether r can start an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
