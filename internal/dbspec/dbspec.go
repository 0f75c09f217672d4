// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbspec implements a string notation for referring to a
// definition library. A library specification can take one of these forms:
//
// pebble:DIR[~NAMESPACE]
//
//	A Pebble database in the directory DIR.
//	DIR can be relative or absolute.
//
// mem[~NAMESPACE]
//
//	An in-memory database, discarded when the program exits.
//
// A database can hold several independent libraries, each with its own
// namespace. Without a NAMESPACE, the spec refers to the library with
// the empty namespace.
package dbspec

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/jqc/internal/pebble"
	"golang.org/x/jqc/internal/storage"
)

// A Spec is the parsed representation of a library specification string.
type Spec struct {
	Kind      string // "pebble" or "mem"
	Location  string // directory, for pebble
	Namespace string // library namespace, possibly empty
}

func (s *Spec) String() string {
	var ns string
	if s.Namespace != "" {
		ns = "~" + s.Namespace
	}
	switch s.Kind {
	case "mem":
		return "mem" + ns
	case "pebble":
		return "pebble:" + s.Location + ns
	default:
		return fmt.Sprintf("%#v", s)
	}
}

// Open opens the database described by the spec.
// If create is set and the spec names a Pebble database
// that does not exist, Open creates it.
func (s *Spec) Open(lg *slog.Logger, create bool) (storage.DB, error) {
	switch s.Kind {
	case "mem":
		return storage.MemDB(), nil
	case "pebble":
		if _, err := os.Stat(s.Location); create && errors.Is(err, os.ErrNotExist) {
			return pebble.Create(lg, s.Location)
		}
		return pebble.Open(lg, s.Location)
	default:
		return nil, fmt.Errorf("unknown DB kind %q", s.Kind)
	}
}

// Parse parses a library specification string into a [Spec].
func Parse(s string) (_ *Spec, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("dbspec.Parse(%q): %v", s, err)
		}
	}()

	var kind, middle, ns string
	hasColon := strings.ContainsRune(s, ':')
	if hasColon {
		kind, middle, _ = strings.Cut(s, ":")
		middle, ns, _ = strings.Cut(middle, "~")
	} else {
		kind, ns, _ = strings.Cut(s, "~")
	}

	spec := &Spec{Kind: kind, Namespace: ns}

	switch kind {
	case "mem":
		if hasColon {
			return nil, errors.New("invalid 'mem' spec: should be mem[~NAMESPACE]")
		}

	case "pebble":
		if len(middle) == 0 {
			return nil, errors.New("pebble spec missing directory; want pebble:DIR[~NAMESPACE]")
		}
		spec.Location = filepath.Clean(middle)

	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return spec, nil
}
