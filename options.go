//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package tbox

const defaultChunkSize = 1024

type config struct {
	chunkSize int
	maxSlabs  int
}

// Option configures Heap
type Option func(*config)

// WithChunkSize sets number of objects per slab, at most 64K-1.
func WithChunkSize(n int) Option {
	if n <= 0 {
		panic("tbox: chunk size must be positive")
	}

	if n >= 64*1024 {
		n = 64*1024 - 1
	}

	return func(c *config) {
		c.chunkSize = n
	}
}

// WithMaxSlabs bounds the heap growth. Allocation beyond the bound fails
// with ErrOutOfMemory. Zero means unbounded.
func WithMaxSlabs(n int) Option {
	if n < 0 {
		panic("tbox: max slabs must not be negative")
	}

	return func(c *config) {
		c.maxSlabs = n
	}
}
