// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"errors"
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/jqc/internal/testutil"
)

var update = flag.Bool("update", false, "update test output")

var traceParse = flag.Bool("trace-parse", false, "trace parser")

// TestParse runs the golden tests in testdata/parse.
// Each result is the printed parse tree or the syntax error.
func TestParse(t *testing.T) {
	if *traceParse {
		Trace = os.Stdout
		defer func() { Trace = nil }()
	}
	testutil.Golden(t, "testdata/parse/*.txt", *update, func(src string) (string, error) {
		n, err := Parse(src)
		if err != nil {
			return "", err
		}
		return n.String(), nil
	})
}

func TestParsePositions(t *testing.T) {
	src := "1 |\n  .a"
	n, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Children) != 3 {
		t.Fatalf("got %d children, want 3\n%s", len(n.Children), n)
	}
	path := n.Children[2]
	if path.Kind != KindPath {
		t.Fatalf("got %v, want path", path.Kind)
	}
	if want := (Position{Line: 2, Col: 3}); path.Pos != want {
		t.Errorf("path position = %v, want %v", path.Pos, want)
	}
	if want := (Span{6, 8}); path.Span != want {
		t.Errorf("path span = %v, want %v", path.Span, want)
	}
	if path.Text != ".a" {
		t.Errorf("path text = %q, want %q", path.Text, ".a")
	}
	if n.Span != (Span{0, len(src)}) || n.Text != src {
		t.Errorf("root covers %v %q, want whole input", n.Span, n.Text)
	}
}

// TestParseParenSpans checks that parenthesized terms and object keys
// cover their closing parenthesis.
func TestParseParenSpans(t *testing.T) {
	for _, src := range []string{
		"(1)",
		"1 + (2)",
		"(.a) | ((.b))",
		"{(.a)}",
		"{(.a): (1)}",
		"[(1)]",
		"if (.a) then (1) else (2) end",
		"limit((1); (.))",
	} {
		n, err := Parse(src)
		if err != nil {
			t.Errorf("Parse(%q): %v", src, err)
			continue
		}
		if n.Span != (Span{0, len(src)}) || n.Text != src {
			t.Errorf("Parse(%q): root covers %v %q, want whole input", src, n.Span, n.Text)
		}
	}

	n, err := Parse("1 + (2 * 3)")
	if err != nil {
		t.Fatal(err)
	}
	paren := n.Children[2]
	if paren.Kind != KindExpr || paren.Text != "(2 * 3)" {
		t.Errorf("parenthesized term = %v %q, want expr %q", paren.Kind, paren.Text, "(2 * 3)")
	}
	if want := (Position{Line: 1, Col: 5}); paren.Pos != want {
		t.Errorf("parenthesized term position = %v, want %v", paren.Pos, want)
	}

	n, err = Parse("{(.a)}")
	if err != nil {
		t.Fatal(err)
	}
	entry := n.Children[0].Children[0]
	if entry.Kind != KindEntry || entry.Text != "(.a)" {
		t.Errorf("object entry = %v %q, want entry %q", entry.Kind, entry.Text, "(.a)")
	}
}

func TestParseStringEscapes(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{`"a\tb"`, "a\tb"},
		{`"\u00e9"`, "é"},
		{`"\ud83d\ude00"`, "\U0001F600"},
		{`"\/\\\""`, `/\"`},
		{`"日本"`, "日本"},
	} {
		n, err := Parse(tc.src)
		if err != nil {
			t.Errorf("Parse(%s): %v", tc.src, err)
			continue
		}
		lit := n.Children[0].Children[0]
		if lit.Kind != KindString || lit.Val != tc.want {
			t.Errorf("Parse(%s) = %v %q, want string %q", tc.src, lit.Kind, lit.Val, tc.want)
		}
	}
}

func TestParseErrorType(t *testing.T) {
	_, err := Parse("[1,")
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Parse error %T is not *Error", err)
	}
	if want := (Position{Line: 1, Col: 4}); serr.Pos != want {
		t.Errorf("error position = %v, want %v", serr.Pos, want)
	}
}

func TestParseComments(t *testing.T) {
	n, err := Parse("# leading\n.a # trailing\n| .b")
	if err != nil {
		t.Fatal(err)
	}
	var kinds []Kind
	for _, c := range n.Children {
		kinds = append(kinds, c.Kind)
	}
	if want := []Kind{KindPath, KindPipe, KindPath}; !cmp.Equal(kinds, want) {
		t.Errorf("got %v, want %v", kinds, want)
	}
}
