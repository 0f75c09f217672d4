// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache keeps recently compiled filters in memory.
//
// A compiled [filter.Filter] is immutable, so a single value may be
// handed to any number of goroutines. The cache relies on that: [Cache.Get]
// returns the same Filter for repeated requests of the same source.
package cache

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/jqc/internal/compile"
	"golang.org/x/jqc/internal/filter"
	"golang.org/x/sync/singleflight"
)

// A Cache is a fixed-size least recently used cache of compiled filters,
// keyed by filter source. It is safe for concurrent use.
type Cache struct {
	slog     *slog.Logger
	capacity int
	group    singleflight.Group

	hits   metric.Int64Counter
	misses metric.Int64Counter
	errs   metric.Int64Counter

	mu    sync.Mutex
	order *list.List // of *entry, most recent first
	items map[string]*list.Element
}

type entry struct {
	src string
	f   filter.Filter
}

// New returns a new Cache holding at most capacity filters.
// If meter is nil, metrics are discarded.
// New panics if capacity is not positive.
func New(lg *slog.Logger, meter metric.Meter, capacity int) *Cache {
	if capacity <= 0 {
		panic("cache.New: capacity must be positive")
	}
	if meter == nil {
		meter = noop.Meter{}
	}
	c := &Cache{
		slog:     lg,
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
	c.hits = c.newCounter(meter, "cache.hits", "number of compiled filters served from the cache")
	c.misses = c.newCounter(meter, "cache.misses", "number of filters compiled on a cache miss")
	c.errs = c.newCounter(meter, "compile.errors", "number of failed compilations, by error kind")
	return c
}

// newCounter creates an integer counter instrument.
// It panics if the counter cannot be created.
func (c *Cache) newCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	ctr, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		c.slog.Error("counter creation failed", "name", name, "err", err)
		panic(err)
	}
	return ctr
}

// Get returns the compiled form of src, compiling it if necessary.
// Concurrent calls for the same uncached source share one compilation.
// Failed compilations are not cached.
func (c *Cache) Get(src string) (filter.Filter, error) {
	ctx := context.Background()
	if f, ok := c.lookup(src); ok {
		c.hits.Add(ctx, 1)
		return f, nil
	}
	v, err, _ := c.group.Do(src, func() (any, error) {
		// Another caller may have finished compiling src
		// between our lookup and entering the group.
		if f, ok := c.lookup(src); ok {
			c.hits.Add(ctx, 1)
			return f, nil
		}
		c.misses.Add(ctx, 1)
		f, err := compile.Compile(src)
		if err != nil {
			c.errs.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", errorKind(err))))
			c.slog.Debug("cache compile failed", "src", src, "err", err)
			return nil, err
		}
		c.add(src, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(filter.Filter), nil
}

// errorKind returns the short name of the kind of a compile error.
func errorKind(err error) string {
	var cerr *compile.Error
	if errors.As(err, &cerr) {
		return cerr.Code()
	}
	return "unknown"
}

func (c *Cache) lookup(src string) (filter.Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[src]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(e)
	return e.Value.(*entry).f, true
}

func (c *Cache) add(src string, f filter.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[src]; ok {
		c.order.MoveToFront(e)
		return
	}
	c.items[src] = c.order.PushFront(&entry{src, f})
	for c.order.Len() > c.capacity {
		old := c.order.Back()
		c.order.Remove(old)
		delete(c.items, old.Value.(*entry).src)
		c.slog.Debug("cache evict", "src", old.Value.(*entry).src)
	}
}

// Len returns the number of cached filters.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge removes all cached filters.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.items)
}
