// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"iter"
	"slices"
	"sync"

	"rsc.io/omap"
)

// A memDB is an in-memory DB implementation.
type memDB struct {
	MemLocker
	mu   sync.RWMutex
	data omap.Map[string, []byte]
}

// MemDB returns an in-memory DB implementation.
func MemDB() DB {
	return new(memDB)
}

// Close closes the database. It is a no-op.
func (*memDB) Close() {}

// Flush flushes everything to persistent storage. It is a no-op.
func (*memDB) Flush() {}

// Panic panics with msg and args.
func (*memDB) Panic(msg string, args ...any) {
	Panic(msg, args...)
}

// Get returns the value associated with the key.
func (db *memDB) Get(key []byte) (val []byte, ok bool) {
	db.mu.RLock()
	v, ok := db.data.Get(string(key))
	db.mu.RUnlock()
	if ok {
		v = bytes.Clone(v)
	}
	return v, ok
}

// Scan returns an iterator over a snapshot of the keys
// in the range start <= key <= end, taken when iteration begins.
// The callback may modify the database.
func (db *memDB) Scan(start, end []byte) iter.Seq2[[]byte, func() []byte] {
	lo, hi := string(start), string(end)
	return func(yield func(key []byte, val func() []byte) bool) {
		type kv struct {
			key string
			val []byte
		}
		var snap []kv
		db.mu.RLock()
		for k, v := range db.data.Scan(lo, hi) {
			snap = append(snap, kv{k, v})
		}
		db.mu.RUnlock()

		for _, e := range snap {
			if !yield([]byte(e.key), func() []byte { return bytes.Clone(e.val) }) {
				return
			}
		}
	}
}

// Delete deletes any entry for the key.
func (db *memDB) Delete(key []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.data.Delete(string(key))
}

// DeleteRange deletes all entries with start <= key <= end.
func (db *memDB) DeleteRange(start, end []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.data.DeleteRange(string(start), string(end))
}

// Set sets the value associated with key to val.
func (db *memDB) Set(key, val []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.data.Set(string(key), bytes.Clone(val))
}

// Batch returns a new batch.
func (db *memDB) Batch() Batch {
	return &memBatch{db: db}
}

// A memBatch is a Batch for a memDB.
type memBatch struct {
	db  *memDB
	ops []func()
}

func (b *memBatch) Set(key, val []byte) {
	k := string(key)
	v := bytes.Clone(val)
	b.ops = append(b.ops, func() { b.db.data.Set(k, v) })
}

func (b *memBatch) Delete(key []byte) {
	k := string(key)
	b.ops = append(b.ops, func() { b.db.data.Delete(k) })
}

func (b *memBatch) DeleteRange(start, end []byte) {
	lo, hi := string(start), string(end)
	b.ops = append(b.ops, func() { b.db.data.DeleteRange(lo, hi) })
}

// MaybeApply never applies the batch; memory batches have no size limit.
func (b *memBatch) MaybeApply() bool {
	return false
}

func (b *memBatch) Apply() {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	for _, op := range b.ops {
		op()
	}
	b.ops = slices.Delete(b.ops, 0, len(b.ops))
}
