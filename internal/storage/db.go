// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage defines the key/value store used for
// persistent filter state, along with an in-memory implementation.
//
// Keys are usually built with [rsc.io/ordered], so that related
// entries sort together and can be read back with a single [DB.Scan].
package storage

import (
	"fmt"
	"iter"
	"strings"

	"rsc.io/ordered"
)

// A DB is a key-value database.
//
// DB operations do not return errors. A failure in the underlying
// storage is reported by a call to [DB.Panic], which does not return.
type DB interface {
	// Lock acquires a lock on the given name, which need not exist
	// in the database. Lock blocks until the lock is available.
	Lock(name string)

	// Unlock releases the lock with the given name.
	// Unlock panics if the lock is not held.
	Unlock(name string)

	// Get looks up the value associated with key.
	// If there is no entry for key, Get returns nil, false.
	Get(key []byte) (val []byte, ok bool)

	// Scan returns an iterator over all key-value pairs with
	// start <= key <= end. The value is returned by a function
	// so that callers that need only keys avoid reading values.
	Scan(start, end []byte) iter.Seq2[[]byte, func() []byte]

	// Set sets the value associated with key to val.
	Set(key, val []byte)

	// Delete deletes any value associated with key.
	Delete(key []byte)

	// DeleteRange deletes all key-value pairs with start <= key <= end.
	DeleteRange(start, end []byte)

	// Batch returns a new batch of writes.
	Batch() Batch

	// Flush flushes DB changes to permanent storage.
	Flush()

	// Close closes the database.
	Close()

	// Panic logs the error message and args using the database's
	// logger and then panics with the text of the message.
	Panic(msg string, args ...any)
}

// A Batch accumulates database mutations that are applied
// to the database by Apply. Batches are not safe for
// concurrent use.
type Batch interface {
	Set(key, val []byte)
	Delete(key []byte)
	DeleteRange(start, end []byte)

	// MaybeApply calls Apply if the batch is getting close to full.
	// It reports whether it applied the batch.
	MaybeApply() bool

	// Apply applies all the operations in the batch, in order,
	// and then clears the batch.
	Apply()
}

// Panic panics with the text of msg and args,
// formatted in the style of log/slog: msg key=value key=value.
func Panic(msg string, args ...any) {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	panic(b.String())
}

// Fmt formats an [rsc.io/ordered]-encoded key for printing.
// Keys that are not ordered encodings print as quoted strings.
func Fmt(key []byte) string {
	if s, err := ordered.DecodeFmt(key); err == nil {
		return s
	}
	return fmt.Sprintf("%q", key)
}
