//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package bst

import (
	"sync"

	"github.com/fogfish/tbox"
)

// Sync guards tree with mutex so it can be shared by goroutines
type Sync[T any] struct {
	mu   sync.Mutex
	tree *Tree[T]
}

// NewSync wraps tree, which must not be used directly afterwards
func NewSync[T any](tree *Tree[T]) *Sync[T] {
	return &Sync[T]{tree: tree}
}

// Insert value, see Tree.Insert
func (s *Sync[T]) Insert(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Insert(value)
}

// Contains is true if tree has a value equal to the given one
func (s *Sync[T]) Contains(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Contains(value)
}

// Free releases every node of the tree
func (s *Sync[T]) Free() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Free()
}

func (s *Sync[T]) Stats() tbox.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Stats()
}
