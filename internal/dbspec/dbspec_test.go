// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbspec

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/jqc/internal/testutil"
)

func TestParse(t *testing.T) {
	dir := filepath.Join("some", "dir")
	for _, tc := range []struct {
		in      string
		want    Spec
		wantErr string // if non-empty, error should contain this
	}{
		{
			in:      "",
			wantErr: "unknown kind",
		},
		{
			in:      "firestore:proj,db",
			wantErr: "unknown kind",
		},
		{
			in:   "mem",
			want: Spec{Kind: "mem"},
		},
		{
			in:      "mem:",
			wantErr: "invalid",
		},
		{
			in:   "mem~",
			want: Spec{Kind: "mem"},
		},
		{
			in:   "mem~team",
			want: Spec{Kind: "mem", Namespace: "team"},
		},
		{
			in:   "pebble:" + dir,
			want: Spec{Kind: "pebble", Location: dir},
		},
		{
			in:   `pebble:C:\WINDOWS\WORKS`,
			want: Spec{Kind: "pebble", Location: `C:\WINDOWS\WORKS`},
		},
		{
			in:      "pebble",
			wantErr: "missing directory",
		},
		{
			in:      "pebble:",
			wantErr: "missing directory",
		},
		{
			in:      "pebble:~team",
			wantErr: "missing directory",
		},
		{
			in:   "pebble:" + dir + "~team",
			want: Spec{Kind: "pebble", Location: dir, Namespace: "team"},
		},
	} {
		got, err := Parse(tc.in)
		if err != nil {
			if tc.wantErr == "" {
				t.Errorf("%q: %v", tc.in, err)
				continue
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("%q: got %q, should contain %q", tc.in, err, tc.wantErr)
			}
			continue
		}
		if tc.wantErr != "" {
			t.Errorf("%q: unexpected success", tc.in)
			continue
		}
		if g, w := *got, tc.want; g != w {
			t.Errorf("%q:\ngot  %#v\nwant %#v", tc.in, g, w)
		}
	}
}

func TestString(t *testing.T) {
	for _, tc := range []struct {
		in   Spec
		want string
	}{
		{
			in:   Spec{Kind: "unk"},
			want: `&dbspec.Spec{Kind:"unk", Location:"", Namespace:""}`,
		},
		{
			in:   Spec{Kind: "mem"},
			want: "mem",
		},
		{
			in:   Spec{Kind: "mem", Namespace: "ns"},
			want: "mem~ns",
		},
		{
			in:   Spec{Kind: "pebble", Location: "dir", Namespace: "ns"},
			want: "pebble:dir~ns",
		},
	} {
		got := tc.in.String()
		if got != tc.want {
			t.Errorf("%#v: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOpen(t *testing.T) {
	lg := testutil.Slogger(t)
	dir := filepath.Join(t.TempDir(), "lib")
	s, err := Parse("pebble:" + dir)
	testutil.Check(t, err)

	if _, err := s.Open(lg, false); err == nil {
		t.Fatal("Open of missing pebble DB without create succeeded")
	}
	db, err := s.Open(lg, true)
	testutil.Check(t, err)
	db.Set([]byte("k"), []byte("v"))
	db.Close()

	// Opening with create set must not recreate an existing DB.
	db, err = s.Open(lg, true)
	testutil.Check(t, err)
	defer db.Close()
	if _, ok := db.Get([]byte("k")); !ok {
		t.Errorf("reopened DB lost key")
	}

	if _, err := (&Spec{Kind: "bad"}).Open(lg, false); err == nil {
		t.Errorf("Open of unknown kind succeeded")
	}
	mem, err := (&Spec{Kind: "mem"}).Open(lg, false)
	testutil.Check(t, err)
	mem.Close()
}
