// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"strings"
	"testing"

	"rsc.io/ordered"
)

func TestMemDB(t *testing.T) {
	db := MemDB()
	TestDB(t, db)
	TestDBLock(t, db)
}

func TestMemBatchDeferred(t *testing.T) {
	db := MemDB()
	b := db.Batch()
	b.Set([]byte("k"), []byte("v"))
	if b.MaybeApply() {
		t.Errorf("MaybeApply applied a tiny batch")
	}
	if _, ok := db.Get([]byte("k")); ok {
		t.Errorf("Get(k) succeeded before Apply")
	}
	b.Apply()
	if val, ok := db.Get([]byte("k")); !ok || string(val) != "v" {
		t.Errorf("Get(k) after Apply = %q, %v", val, ok)
	}
}

func TestMemScanWrite(t *testing.T) {
	// Writing during a scan must not disturb the scan.
	db := MemDB()
	for i := range 5 {
		db.Set(ordered.Encode(i), []byte{byte(i)})
	}
	var n int
	for key := range db.Scan(ordered.Encode(0), ordered.Encode(10)) {
		db.Delete(key)
		db.Set(ordered.Encode(100+n), nil)
		n++
	}
	if n != 5 {
		t.Errorf("scan visited %d keys, want 5", n)
	}
}

func TestMemGetCopy(t *testing.T) {
	db := MemDB()
	db.Set([]byte("k"), []byte("abc"))
	val, _ := db.Get([]byte("k"))
	val[0] = 'x'
	if again, _ := db.Get([]byte("k")); string(again) != "abc" {
		t.Errorf("mutating Get result changed stored value to %q", again)
	}
}

func TestFmt(t *testing.T) {
	got := Fmt(ordered.Encode("jqc.Def", "head"))
	if !strings.Contains(got, "jqc.Def") || !strings.Contains(got, "head") {
		t.Errorf("Fmt = %q, want mention of jqc.Def and head", got)
	}
}

func TestPanic(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Panic did not panic")
		}
		if s, _ := r.(string); !strings.Contains(s, "bad key") {
			t.Errorf("panic value %v does not mention message", r)
		}
	}()
	MemDB().Panic("bad key", "key", "x")
}
