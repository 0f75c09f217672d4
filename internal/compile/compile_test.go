// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/syntax"
	"golang.org/x/jqc/internal/testutil"
	"gopkg.in/yaml.v3"
)

var update = flag.Bool("update", false, "update test output")

// TestCompile runs the golden tests in testdata/compile.
// Each result is the printed filter or the compile error.
func TestCompile(t *testing.T) {
	testutil.Golden(t, "testdata/compile/*.txt", *update, func(src string) (string, error) {
		f, err := Compile(src)
		if err != nil {
			return "", err
		}
		return f.String(), nil
	})
}

// errorTests holds the contents of testdata/errors_test.yaml.
type errorTests struct {
	Tests []errorTest `yaml:"tests"`
}

// errorTest is a single source that must fail to compile.
type errorTest struct {
	Description string `yaml:"description"`
	Src         string `yaml:"src"`
	Code        string `yaml:"code"`
	Error       string `yaml:"error"`
}

func TestErrors(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "errors_test.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var tests errorTests
	if err := dec.Decode(&tests); err != nil {
		t.Fatal(err)
	}

	var desc string
	var idx int
	for _, test := range tests.Tests {
		if test.Description != "" {
			desc, idx = test.Description, 1
		}
		t.Run(fmt.Sprintf("%s %d", desc, idx), func(t *testing.T) {
			f, err := Compile(test.Src)
			if err == nil {
				t.Fatalf("Compile(%q) = %s, want error", test.Src, f)
			}
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("Compile(%q) error %T is not *Error", test.Src, err)
			}
			if cerr.Code() != test.Code {
				t.Errorf("Compile(%q) error code = %s, want %s", test.Src, cerr.Code(), test.Code)
			}
			if err.Error() != test.Error {
				t.Errorf("Compile(%q) error:\n got %s\nwant %s", test.Src, err, test.Error)
			}
		})
		idx++
	}
}

func mustCompile(t *testing.T, src string) filter.Filter {
	t.Helper()
	f, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return f
}

func str(s string) *filter.Lit { return &filter.Lit{Atom: filter.Str(s)} }
func num(i int64) *filter.Lit  { return &filter.Lit{Atom: filter.Int(i)} }

func field(name string) filter.PathElem { return &filter.Index{F: str(name)} }

func TestStructure(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want filter.Filter
	}{
		{"1 + 2 * 3", &filter.Math{L: num(1), Op: filter.Add, R: &filter.Math{L: num(2), Op: filter.Mul, R: num(3)}}},
		{"1 | 2, 3", &filter.Pipe{L: num(1), R: &filter.Comma{L: num(2), R: num(3)}}},
		{"[]", &filter.Array{Elems: &filter.Empty{}}},
		{"[1,2]", &filter.Array{Elems: &filter.Comma{L: num(1), R: num(2)}}},
		{"limit(5; .)", &filter.Limit{N: num(5), F: filter.Identity()}},
		{".[2:5]", &filter.PathExpr{Path: filter.Path{&filter.Range{From: num(2), Until: num(5)}}}},
		{".[2:]", &filter.PathExpr{Path: filter.Path{&filter.Range{From: num(2)}}}},
		{".[:5]", &filter.PathExpr{Path: filter.Path{&filter.Range{Until: num(5)}}}},
		{".[:]", &filter.PathExpr{Path: filter.Path{&filter.Range{}}}},
		{".a?", &filter.PathExpr{Path: filter.Path{&filter.Index{F: str("a"), Opt: true}}}},
		{".a", &filter.PathExpr{Path: filter.Path{field("a")}}},
		{"{x}", &filter.Object{Entries: []filter.Entry{{Key: str("x"), Value: &filter.PathExpr{Path: filter.Path{field("x")}}}}}},
		{"1.0", &filter.Lit{Atom: filter.Float(1)}},
		{"-9223372036854775808", &filter.Lit{Atom: filter.Int(-9223372036854775808)}},
		{"9223372036854775808", &filter.Lit{Atom: filter.Float(9223372036854775808)}},
	} {
		got := mustCompile(t, tc.src)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Compile(%q) mismatch (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestUpdateWith(t *testing.T) {
	// .x += 1 means .x |= . + 1.
	for _, op := range []string{"+", "-", "*", "/", "%"} {
		sugar := mustCompile(t, ".x "+op+"= 1")
		plain := mustCompile(t, ".x |= . "+op+" 1")
		if diff := cmp.Diff(plain, sugar); diff != "" {
			t.Errorf("%s= mismatch (-plain +sugar):\n%s", op, diff)
		}
	}
}

func TestPathRoundTrip(t *testing.T) {
	p, err := filter.ToPath(mustCompile(t, ".a.b[0]"))
	if err != nil {
		t.Fatal(err)
	}
	want := filter.Path{field("a"), field("b"), &filter.Index{F: num(0)}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	for _, src := range []string{"1", "[.a]", ".a | .b", "select(.a)", "first(.a)"} {
		if _, err := filter.ToPath(mustCompile(t, src)); err == nil {
			t.Errorf("ToPath(%s) succeeded, want error", src)
		}
	}
}

func TestIdempotent(t *testing.T) {
	const src = `{a: [.x[1:]?, fold(0; . + 1; .)], (.k): select(.v >= 2)} | .y |= . * 2, limit(3; recurse(.[]))`
	f1 := mustCompile(t, src)
	f2 := mustCompile(t, src)
	if diff := cmp.Diff(f1, f2); diff != "" {
		t.Errorf("two compilations differ:\n%s", diff)
	}
	if f1.String() != f2.String() {
		t.Errorf("printed forms differ")
	}
}

// TestNoSharing checks that every node has exactly one parent.
func TestNoSharing(t *testing.T) {
	f := mustCompile(t, `select(.a) | .b += 1 | {x, y: .x}`)
	seen := make(map[any]bool)
	filter.Walk(f,
		func(f filter.Filter) {
			if _, ok := f.(*filter.Empty); ok {
				// Empty has no fields; pointers to it may compare equal.
				return
			}
			if seen[f] {
				t.Errorf("node visited twice: %s", filter.Describe(f))
			}
			seen[f] = true
		},
		func(e filter.PathElem) {
			if seen[e] {
				t.Errorf("path element visited twice")
			}
			seen[e] = true
		})
}

func TestConcurrent(t *testing.T) {
	const src = `.a[0] = (1, 2) | map(. + 1)`
	want := mustCompile(t, src).String()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				f, err := Compile(src)
				if err != nil {
					t.Error(err)
					return
				}
				if got := f.String(); got != want {
					t.Errorf("concurrent Compile = %s, want %s", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestErrorIs(t *testing.T) {
	_, err := Compile(".a = 1 = 2")
	if !errors.Is(err, ErrNotPath) {
		t.Errorf("errors.Is(%v, ErrNotPath) = false", err)
	}
	if errors.Is(err, ErrSyntax) {
		t.Errorf("errors.Is(%v, ErrSyntax) = true", err)
	}
	var perr *filter.NotPathError
	if !errors.As(err, &perr) {
		t.Errorf("error does not wrap *filter.NotPathError")
	}

	_, err = Compile("[")
	var serr *syntax.Error
	if !errors.Is(err, ErrSyntax) || !errors.As(err, &serr) {
		t.Errorf("Compile(\"[\") error = %v, want syntax error wrapping *syntax.Error", err)
	}
}

func TestBuild(t *testing.T) {
	n, err := syntax.Parse(".a | length")
	if err != nil {
		t.Fatal(err)
	}
	f, err := Build(n)
	if err != nil {
		t.Fatal(err)
	}
	want := &filter.Pipe{L: &filter.PathExpr{Path: filter.Path{field("a")}}, R: &filter.Func{Name: filter.BuiltinLength}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}
