// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "io"

// A Path is a sequence of steps into a value.
// The empty path names the value itself.
type Path []PathElem

// A PathElem is a single step of a [Path]: an [*Index] or a [*Range].
type PathElem interface {
	pathElem()

	print(io.Writer, int)
}

// Index selects the element of an object or array
// whose key or index is each output of F.
// If Opt is set, inputs that cannot be indexed produce no output
// rather than an error.
type Index struct {
	F   Filter
	Opt bool
}

// Range selects the elements of an array or string between From
// and Until. A nil bound means the start or end of the value.
// With both bounds nil, Range iterates over every element,
// which for an object means its values.
// If Opt is set, inputs that cannot be iterated produce no output
// rather than an error.
type Range struct {
	From  Filter
	Until Filter
	Opt   bool
}

func (*Index) pathElem() {}
func (*Range) pathElem() {}
