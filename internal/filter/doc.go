// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter defines the abstract syntax tree of a compiled
// jq filter.
//
// A [Filter] is either a [NewFilter], which computes values from its
// input, or a [Ref], which has generator, path or control flow
// semantics. Paths are sequences of [Index] and [Range] steps; a
// [PathExpr] is the only filter that may be the target of an
// assignment, and [ToPath] enforces that.
//
// Every node is built once and not modified afterward, and no node
// has two parents. Filters may be shared freely between goroutines.
package filter
