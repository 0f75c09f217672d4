// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// Golden runs golden tests stored in the txtar archives matching glob.
//
// Each archive holds a sequence of NAME.test files, each followed by
// either NAME.out or NAME.err. Golden calls fn with the contents of
// NAME.test, minus its final newline. If fn succeeds, its output must
// equal NAME.out; if it fails, its error text plus a newline must
// equal NAME.err.
//
// If update is set, Golden rewrites the archives with fn's results
// instead of checking them.
func Golden(t *testing.T, glob string, update bool, fn func(src string) (string, error)) {
	files, err := filepath.Glob(glob)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatalf("no files match %s", glob)
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txt"), func(t *testing.T) {
			goldenFile(t, file, update, fn)
		})
	}
}

func goldenFile(t *testing.T, file string, update bool, fn func(string) (string, error)) {
	ar, err := txtar.ParseFile(file)
	if err != nil {
		t.Fatal(err)
	}

	var newFiles []txtar.File
	for i := 0; i < len(ar.Files); i++ {
		test := ar.Files[i]
		base, ok := strings.CutSuffix(test.Name, ".test")
		if !ok {
			t.Fatalf("archive format error: found %s when expecting a test", test.Name)
		}
		var want *txtar.File
		if i+1 < len(ar.Files) && (ar.Files[i+1].Name == base+".out" || ar.Files[i+1].Name == base+".err") {
			want = &ar.Files[i+1]
			i++
		}

		src := strings.TrimSuffix(string(test.Data), "\n")
		got, gotName := "", base+".out"
		out, err := fn(src)
		if err != nil {
			got, gotName = err.Error()+"\n", base+".err"
		} else {
			got = out
		}

		if update {
			newFiles = append(newFiles, test, txtar.File{Name: gotName, Data: []byte(got)})
			continue
		}

		t.Run(base, func(t *testing.T) {
			if want == nil {
				t.Fatal("missing result")
			}
			if gotName != want.Name {
				t.Fatalf("%q produced %s, want %s:\n%s", src, gotName, want.Name, got)
			}
			if diff := cmp.Diff(string(want.Data), got); diff != "" {
				t.Errorf("%q mismatch (-want +got):\n%s", src, diff)
			}
		})
	}

	if update {
		ar.Files = newFiles
		if err := os.WriteFile(file, txtar.Format(ar), 0o666); err != nil {
			t.Errorf("error writing out %s: %v", file, err)
		}
	}
}
