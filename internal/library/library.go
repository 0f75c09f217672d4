// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package library stores named filter definitions in a [storage.DB].
//
// A definition is a name and the source of a filter. Sources are
// compiled before they are stored, so the library only ever holds
// filters that compiled when they were defined. Compiled forms are
// not stored; [Library.Lookup] recompiles through a [cache.Cache].
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"unicode"

	"golang.org/x/jqc/internal/cache"
	"golang.org/x/jqc/internal/compile"
	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/storage"
	"golang.org/x/sync/errgroup"
	"rsc.io/ordered"
	"rsc.io/top"
)

// ErrNotDefined is returned for names with no definition.
var ErrNotDefined = errors.New("not defined")

// A Def is a single named definition.
type Def struct {
	Name   string
	Source string
}

// A Library is a collection of named filter definitions.
// A database can hold any number of libraries, each in its own
// namespace.
type Library struct {
	slog  *slog.Logger
	db    storage.DB
	ns    string
	cache *cache.Cache
}

// New returns the Library with namespace ns in db.
// Filters returned by [Library.Lookup] are compiled through c.
func New(lg *slog.Logger, db storage.DB, ns string, c *cache.Cache) *Library {
	return &Library{slog: lg, db: db, ns: ns, cache: c}
}

const defKind = "jqc.Def"

func (l *Library) key(name string) []byte {
	return ordered.Encode(defKind, l.ns, name)
}

// ValidName reports whether name can be used for a definition:
// a letter or underscore followed by letters, digits and underscores.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// Define stores src under name, replacing any previous definition.
// It returns the compile error if src does not compile.
func (l *Library) Define(name, src string) error {
	if !ValidName(name) {
		return fmt.Errorf("library: invalid definition name %q", name)
	}
	if _, err := l.cache.Get(src); err != nil {
		return fmt.Errorf("library: define %s: %w", name, err)
	}
	data, err := json.Marshal(&Def{Name: name, Source: src})
	if err != nil {
		// unreachable: Def has only string fields
		l.db.Panic("library marshal", "name", name, "err", err)
	}

	key := l.key(name)
	l.db.Lock(string(key))
	defer l.db.Unlock(string(key))

	_, replaced := l.db.Get(key)
	l.db.Set(key, data)
	l.slog.Info("library define", "ns", l.ns, "name", name, "replaced", replaced)
	return nil
}

// get returns the definition stored under name.
func (l *Library) get(name string) (*Def, bool) {
	data, ok := l.db.Get(l.key(name))
	if !ok {
		return nil, false
	}
	return l.decode(data), true
}

func (l *Library) decode(data []byte) *Def {
	d := new(Def)
	if err := json.Unmarshal(data, d); err != nil {
		l.db.Panic("library unmarshal", "data", string(data), "err", err)
	}
	return d
}

// Source returns the source of the named definition.
func (l *Library) Source(name string) (string, bool) {
	d, ok := l.get(name)
	if !ok {
		return "", false
	}
	return d.Source, true
}

// Lookup returns the compiled filter for the named definition.
func (l *Library) Lookup(name string) (filter.Filter, error) {
	d, ok := l.get(name)
	if !ok {
		return nil, fmt.Errorf("library: %s: %w", name, ErrNotDefined)
	}
	f, err := l.cache.Get(d.Source)
	if err != nil {
		return nil, fmt.Errorf("library: %s: %w", name, err)
	}
	return f, nil
}

// Delete removes the named definition.
// It reports whether there was a definition to remove.
func (l *Library) Delete(name string) bool {
	key := l.key(name)
	l.db.Lock(string(key))
	defer l.db.Unlock(string(key))

	if _, ok := l.db.Get(key); !ok {
		return false
	}
	l.db.Delete(key)
	l.slog.Info("library delete", "ns", l.ns, "name", name)
	return true
}

// All returns an iterator over all definitions, in name order.
func (l *Library) All() iter.Seq[*Def] {
	return func(yield func(*Def) bool) {
		for _, val := range l.db.Scan(ordered.Encode(defKind, l.ns), ordered.Encode(defKind, l.ns, ordered.Inf)) {
			if !yield(l.decode(val())) {
				return
			}
		}
	}
}

// A Sized is a definition with the number of nodes in its compiled filter.
type Sized struct {
	*Def
	Size int
}

// Largest returns the n definitions whose compiled filters have the
// most nodes, largest first. Ties are broken by name.
// Definitions that no longer compile are skipped.
// Largest returns nil if n is not positive.
func (l *Library) Largest(n int) []Sized {
	if n <= 0 {
		return nil
	}
	t := top.New(n, func(x, y Sized) int {
		if x.Size != y.Size {
			return x.Size - y.Size
		}
		// Earlier names rank higher.
		switch {
		case x.Name < y.Name:
			return +1
		case x.Name > y.Name:
			return -1
		}
		return 0
	})
	for d := range l.All() {
		f, err := l.cache.Get(d.Source)
		if err != nil {
			l.slog.Warn("library largest: skipping definition", "name", d.Name, "err", err)
			continue
		}
		t.Add(Sized{Def: d, Size: filter.Size(f)})
	}
	return t.Take()
}

// A Problem is a definition that no longer compiles.
type Problem struct {
	Name string
	Err  error
}

// Check recompiles every definition, using up to workers goroutines,
// and returns the definitions that fail, in name order.
// Definitions can stop compiling when the compiler changes.
func (l *Library) Check(ctx context.Context, workers int) ([]Problem, error) {
	var defs []*Def
	for d := range l.All() {
		defs = append(defs, d)
	}

	errs := make([]error, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, d := range defs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, errs[i] = compile.Compile(d.Source)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var probs []Problem
	for i, err := range errs {
		if err != nil {
			probs = append(probs, Problem{Name: defs[i].Name, Err: err})
		}
	}
	return probs, nil
}
