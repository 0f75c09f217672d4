// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax parses jq filter strings into a concrete parse tree.
//
// The tree records which grammar rule produced each [Node], the node's
// source text and its position. Infix operator precedence is not
// resolved here: a [KindExpr] node holds its terms and operators in
// source order, and package compile applies precedence when it builds
// the abstract syntax tree.
//
// The grammar, in EBNF:
//
//	main       = expr EOF ;
//	expr       = term { infix term } ;
//	infix      = "|" | "," | "=" | "|=" | "+=" | "-=" | "*=" | "/=" | "%="
//	           | "or" | "and" | "==" | "!=" | ">" | ">=" | "<" | "<="
//	           | "+" | "-" | "*" | "/" | "%" ;
//	term       = path | atom | array | object | ite | function | "(" expr ")" ;
//	atom       = "null" | "true" | "false" | [ "-" ] number | string ;
//	array      = "[" [ expr ] "]" ;
//	object     = "{" [ entry { "," entry } ] "}" ;
//	entry      = ( identifier | keyword | string | "(" expr ")" ) [ ":" expr ] ;
//	ite        = "if" expr "then" expr { "elif" expr "then" expr } "else" expr "end" ;
//	function   = identifier [ "(" [ expr { ";" expr } ] ")" ] ;
//	path       = part { part } ;
//	part       = "." [ index ] { range } ;
//	index      = ( identifier | keyword | string ) [ "?" ] ;
//	range      = "[" [ expr | expr ":" | ":" [ expr ] | expr ":" expr ] "]" [ "?" ] ;
//
// Whitespace and comments, which run from "#" to the end of the line,
// may separate any two tokens, except that a "." continuing a path
// must directly follow the previous part and a leading "-" must
// directly precede its number.
package syntax
