// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"rsc.io/ordered"
)

// defKey returns a key shaped like the ones the filter library stores.
func defKey(i int) []byte {
	return ordered.Encode("test.Def", i)
}

// TestDB runs basic tests on db.
// It should be empty when TestDB is called.
// To run tests on Lock and Unlock, also call [TestDBLock].
func TestDB(t *testing.T, db DB) {
	db.Set([]byte("def"), []byte(".a | length"))
	if val, ok := db.Get([]byte("def")); string(val) != ".a | length" || !ok {
		t.Fatalf("Get(def) = %q, %v, want %q, true", val, ok, ".a | length")
	}
	if val, ok := db.Get([]byte("missing")); val != nil || ok {
		t.Fatalf("Get(missing) = %v, %v, want nil, false", val, ok)
	}

	db.Delete([]byte("def"))
	if val, ok := db.Get([]byte("def")); val != nil || ok {
		t.Fatalf("Get(def) after delete = %v, %v, want nil, false", val, ok)
	}

	b := db.Batch()
	for i := range 10 {
		b.Set(defKey(i), []byte(fmt.Sprintf(".[%d]", i)))
		b.MaybeApply()
	}
	b.Apply()

	collect := func(lo, hi, stop int) []int {
		t.Helper()
		var list []int
		for key, val := range db.Scan(defKey(lo), defKey(hi)) {
			var prefix string
			var i int
			if err := ordered.Decode(key, &prefix, &i); err != nil {
				t.Fatalf("db.Scan malformed key %v", Fmt(key))
			}
			if sv, want := string(val()), fmt.Sprintf(".[%d]", i); sv != want {
				t.Fatalf("db.Scan key %v val=%q, want %q", i, sv, want)
			}
			list = append(list, i)
			if i == stop {
				break
			}
		}
		return list
	}

	if scan, want := collect(3, 6, -1), []int{3, 4, 5, 6}; !slices.Equal(scan, want) {
		t.Fatalf("Scan(3, 6) = %v, want %v", scan, want)
	}
	if scan, want := collect(3, 6, 5), []int{3, 4, 5}; !slices.Equal(scan, want) {
		t.Fatalf("Scan(3, 6) with break at 5 = %v, want %v", scan, want)
	}

	// Keys outside the prefix must not show up in a prefix scan.
	db.Set(ordered.Encode("test.Other", 5), []byte("x"))
	var n int
	for range db.Scan(ordered.Encode("test.Def"), ordered.Encode("test.Def", ordered.Inf)) {
		n++
	}
	if n != 10 {
		t.Fatalf("prefix scan found %d keys, want 10", n)
	}

	db.DeleteRange(defKey(4), defKey(7))
	if scan, want := collect(-1, 11, -1), []int{0, 1, 2, 3, 8, 9}; !slices.Equal(scan, want) {
		t.Fatalf("Scan(-1, 11) after DeleteRange(4, 7) = %v, want %v", scan, want)
	}

	b = db.Batch()
	for i := range 5 {
		b.Delete(defKey(i))
		b.Set(defKey(2*i), []byte(fmt.Sprintf(".[%d]", 2*i)))
	}
	b.DeleteRange(defKey(0), defKey(0))
	b.Apply()
	if scan, want := collect(-1, 11, -1), []int{6, 8, 9}; !slices.Equal(scan, want) {
		t.Fatalf("Scan(-1, 11) after batch Delete+Set = %v, want %v", scan, want)
	}

	// Apply clears the batch.
	k := ordered.Encode("test.Def", "a")
	b = db.Batch()
	b.Set(k, []byte{0})
	b.Apply()
	db.Delete(k)
	b.Apply()
	if _, ok := db.Get(k); ok {
		t.Fatalf("empty Apply should be no-op, but got previous value")
	}

	db.Flush()
}

type locker interface {
	Lock(string)
	Unlock(string)
}

// TestDBLock verifies that Lock behaves correctly.
// It is separate from [TestDB] because it depends on timing.
func TestDBLock(t *testing.T, db locker) {
	db.Lock("def:abc")
	c := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		db.Lock("def:abc")
		close(c)
		db.Unlock("def:abc")
	}()

	select {
	case <-c:
		t.Fatal("Lock did not wait")
	case <-time.After(100 * time.Millisecond):
	}

	db.Unlock("def:abc")
	<-c
	wg.Wait()

	func() {
		defer func() {
			recover()
		}()
		db.Unlock("def:never")
		t.Errorf("Unlock never-locked key did not panic")
	}()
}
