// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/jqc/internal/cache"
	"golang.org/x/jqc/internal/compile"
	"golang.org/x/jqc/internal/library"
	"golang.org/x/jqc/internal/pebble"
	"golang.org/x/jqc/internal/storage"
	"golang.org/x/jqc/internal/testutil"
	"gopkg.in/yaml.v3"
)

func newTest(t *testing.T, format string) (*jqc, *bytes.Buffer) {
	lg := testutil.Slogger(t)
	c := cache.New(lg, nil, 16)
	var out bytes.Buffer
	return &jqc{
		slog:   lg,
		cache:  c,
		lib:    library.New(lg, storage.MemDB(), "", c),
		format: format,
		out:    &out,
	}, &out
}

func TestCompileText(t *testing.T) {
	j, out := newTest(t, "text")
	testutil.Check(t, j.run(&jqcFlags{}, []string{".a"}))
	want := "path\n  index\n    lit \"a\"\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestCompileJSON(t *testing.T) {
	j, out := newTest(t, "json")
	testutil.Check(t, j.run(&jqcFlags{}, []string{".a?"}))
	var got any
	testutil.Check(t, json.Unmarshal(out.Bytes(), &got))
	want := map[string]any{
		"path": []any{
			map[string]any{"index": map[string]any{"lit": "a"}, "optional": true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileYAML(t *testing.T) {
	j, out := newTest(t, "yaml")
	testutil.Check(t, j.run(&jqcFlags{}, []string{"1 | empty"}))
	var got map[string]any
	testutil.Check(t, yaml.Unmarshal(out.Bytes(), &got))
	want := map[string]any{
		"pipe": []any{
			map[string]any{"lit": 1},
			map[string]any{"empty": true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileError(t *testing.T) {
	j, out := newTest(t, "text")
	err := j.run(&jqcFlags{}, []string{"foo(1)"})
	if !errors.Is(err, compile.ErrUnknownFunction) {
		t.Errorf("err = %v, want ErrUnknownFunction", err)
	}
	if out.Len() != 0 {
		t.Errorf("failed compile printed %q", out)
	}
}

func TestUsage(t *testing.T) {
	j, _ := newTest(t, "text")
	if err := j.run(&jqcFlags{}, []string{"a", "b"}); err != errUsage {
		t.Errorf("two filters: err = %v, want errUsage", err)
	}
	if err := j.run(&jqcFlags{define: "x"}, nil); err != errUsage {
		t.Errorf("-define without filter: err = %v, want errUsage", err)
	}
	j.lib = nil
	if err := j.run(&jqcFlags{list: true}, nil); err == nil || !strings.Contains(err.Error(), "-db") {
		t.Errorf("-list without library: err = %v, want -db error", err)
	}
}

func TestLibraryCommands(t *testing.T) {
	j, out := newTest(t, "text")
	run := func(f *jqcFlags, args ...string) string {
		t.Helper()
		out.Reset()
		if err := j.run(f, args); err != nil {
			t.Fatal(err)
		}
		return out.String()
	}

	run(&jqcFlags{define: "len"}, "length")
	run(&jqcFlags{define: "sum"}, "fold(0; . + 1; .)")

	if got, want := run(&jqcFlags{show: "sum"}), "fold(0; . + 1; .)\n"; got != want {
		t.Errorf("-show sum = %q, want %q", got, want)
	}
	if got, want := run(&jqcFlags{list: true}), "len\tlength\nsum\tfold(0; . + 1; .)\n"; got != want {
		t.Errorf("-list = %q, want %q", got, want)
	}
	// fold, lit, math, identity, lit, identity
	if got, want := run(&jqcFlags{largest: 1}), "6\tsum\tfold(0; . + 1; .)\n"; got != want {
		t.Errorf("-largest 1 = %q, want %q", got, want)
	}
	if got, want := run(&jqcFlags{}, "@len"), "func length\n"; got != want {
		t.Errorf("@len = %q, want %q", got, want)
	}
	if got := run(&jqcFlags{check: true}); got != "" {
		t.Errorf("-check printed %q", got)
	}

	err := j.run(&jqcFlags{show: "nosuch"}, nil)
	if !errors.Is(err, library.ErrNotDefined) {
		t.Errorf("-show nosuch: err = %v, want ErrNotDefined", err)
	}
}

func TestEval(t *testing.T) {
	j, out := newTest(t, "text")
	var errs bytes.Buffer
	j.eval(&errs, "   ")
	j.eval(&errs, "[")
	j.eval(&errs, "null")
	if got, want := out.String(), "lit null\n"; got != want {
		t.Errorf("eval output = %q, want %q", got, want)
	}
	if !strings.HasPrefix(errs.String(), "?1:2: ") {
		t.Errorf("eval errors = %q, want ?1:2: prefix", errs.String())
	}
}

func TestCheckReports(t *testing.T) {
	j, out := newTest(t, "text")
	testutil.Check(t, j.lib.Define("ok", "."))
	if err := j.check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("check printed %q for valid library", out)
	}
}

func TestExecuteClosesDB(t *testing.T) {
	lg := testutil.Slogger(t)
	dir := filepath.Join(t.TempDir(), "lib")
	var out, stderr bytes.Buffer

	// A failed define must still close the database it created.
	status := execute(lg, &jqcFlags{format: "text", db: "pebble:" + dir, define: "bad"}, []string{"nosuch(1)"}, &out, &stderr)
	if status != 1 {
		t.Fatalf("execute = %d, want 1", status)
	}
	if !strings.Contains(stderr.String(), "unknown function nosuch/1") {
		t.Errorf("stderr = %q, want unknown function error", stderr.String())
	}
	db, err := pebble.Open(lg, dir)
	if err != nil {
		t.Fatalf("reopening after failed define: %v", err)
	}
	db.Close()

	stderr.Reset()
	status = execute(lg, &jqcFlags{format: "text", db: "pebble:" + dir, define: "len"}, []string{"length"}, &out, &stderr)
	if status != 0 {
		t.Fatalf("execute define = %d, stderr %q", status, stderr.String())
	}
	status = execute(lg, &jqcFlags{format: "text", db: "pebble:" + dir, show: "len"}, nil, &out, &stderr)
	if status != 0 || out.String() != "length\n" {
		t.Errorf("execute -show = %d, %q, want 0, %q", status, out.String(), "length\n")
	}
}

func TestExecuteStatus(t *testing.T) {
	lg := testutil.Slogger(t)
	var out, stderr bytes.Buffer
	for _, tc := range []struct {
		flags  jqcFlags
		args   []string
		status int
	}{
		{jqcFlags{format: "text"}, []string{"."}, 0},
		{jqcFlags{format: "xml"}, []string{"."}, 2},
		{jqcFlags{format: "text"}, []string{"a", "b"}, 2},
		{jqcFlags{format: "text", db: "nosuch:x"}, []string{"."}, 1},
		{jqcFlags{format: "text"}, []string{"["}, 1},
	} {
		if got := execute(lg, &tc.flags, tc.args, &out, &stderr); got != tc.status {
			t.Errorf("execute(%+v, %q) = %d, want %d", tc.flags, tc.args, got, tc.status)
		}
	}
}
