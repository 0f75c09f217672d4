// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pebble

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"golang.org/x/jqc/internal/storage"
	"golang.org/x/jqc/internal/testutil"
)

func TestDB(t *testing.T) {
	lg := testutil.Slogger(t)
	dbname := filepath.Join(t.TempDir(), "db1")

	if _, err := Open(lg, dbname); err == nil {
		t.Fatal("Open nonexistent succeeded")
	}

	db, err := Create(lg, dbname)
	testutil.Check(t, err)
	db.Close()

	if _, err := Create(lg, dbname); err == nil {
		t.Fatal("Create already-existing succeeded")
	}

	db, err = Open(lg, dbname)
	testutil.Check(t, err)
	defer db.Close()

	storage.TestDB(t, db)
	storage.TestDBLock(t, db)
}

func TestReopen(t *testing.T) {
	lg := testutil.Slogger(t)
	dbname := filepath.Join(t.TempDir(), "db")

	db, err := Create(lg, dbname)
	testutil.Check(t, err)
	db.Set([]byte("def"), []byte(`{"Name":"x"}`))
	db.Close()

	db, err = Open(lg, dbname)
	testutil.Check(t, err)
	defer db.Close()
	if val, ok := db.Get([]byte("def")); !ok || string(val) != `{"Name":"x"}` {
		t.Errorf("after reopen, Get(def) = %q, %v", val, ok)
	}
}

func TestLargeBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large batch in short mode")
	}
	lg := testutil.Slogger(t)
	db, err := Create(lg, filepath.Join(t.TempDir(), "db"))
	testutil.Check(t, err)
	defer db.Close()

	// MaybeApply must apply a batch before it grows too large.
	b := db.Batch()
	val := make([]byte, 1e6)
	pcg := rand.NewPCG(1, 2)
	applied := 0
	for key := range 500 {
		for i := 0; i < len(val); i += 8 {
			binary.BigEndian.PutUint64(val[i:], pcg.Uint64())
		}
		binary.BigEndian.PutUint64(val, uint64(key))
		b.Set([]byte(fmt.Sprint(key)), val)
		if b.MaybeApply() {
			if applied++; applied == 2 {
				break
			}
		}
	}
	b.Apply()

	for key := range 200 {
		val, ok := db.Get([]byte(fmt.Sprint(key)))
		if !ok {
			t.Fatalf("after batch, missing key %d", key)
		}
		if x := binary.BigEndian.Uint64(val); x != uint64(key) {
			t.Fatalf("Get(%d) = value for %d, want %d", key, x, key)
		}
	}
}
