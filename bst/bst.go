//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

// Package bst implements binary search tree on top of owning boxes.
//
// Each node is exclusively owned by a single slot: the left or right
// child slot of its parent, or the root slot of the tree. The tree is
// released without recursion, degenerate trees of any height are safe
// to free.
package bst

import (
	"cmp"

	"github.com/fogfish/tbox"
)

type node[T any] struct {
	value       T
	left, right *tbox.Box[node[T]]
}

// Finalize releases value and whatever subtree node still owns
func (n *node[T]) Finalize() {
	tbox.Drop(&n.value)
	tbox.Take(&n.left).Free()
	tbox.Take(&n.right).Free()
}

// Tree is ordered set of values. Equal values are stored once.
// Tree is not safe for concurrent use, see Sync.
type Tree[T any] struct {
	root    *tbox.Box[node[T]]
	compare func(a, b T) int
	heap    *tbox.Heap[node[T]]
}

// New creates empty tree of naturally ordered values
func New[T cmp.Ordered](opts ...tbox.Option) *Tree[T] {
	return NewFunc(cmp.Compare[T], opts...)
}

// NewFunc creates empty tree ordered by compare, which returns
// negative, zero or positive if a is less, equal or greater than b.
func NewFunc[T any](compare func(a, b T) int, opts ...tbox.Option) *Tree[T] {
	if compare == nil {
		panic("bst: nil compare")
	}

	return &Tree[T]{
		compare: compare,
		heap:    tbox.NewHeap[node[T]](opts...),
	}
}

// Insert value into tree. If an equal value is already in the tree
// the tree is not changed and the given value is finalized.
func (t *Tree[T]) Insert(value T) {
	if t.heap == nil || t.compare == nil {
		panic("bst: tree is not initialized, use New or NewFunc")
	}

	slot := &t.root

	for *slot != nil {
		n := (*slot).Get()

		switch c := t.compare(value, n.value); {
		case c == 0:
			tbox.Drop(&value)
			return
		case c < 0:
			slot = &n.left
		default:
			slot = &n.right
		}
	}

	*slot = tbox.New(t.heap, node[T]{value: value})
}

// Contains is true if tree has a value equal to the given one
func (t *Tree[T]) Contains(value T) bool {
	at := t.root

	for at != nil {
		n := at.Get()

		switch c := t.compare(value, n.value); {
		case c == 0:
			return true
		case c < 0:
			at = n.left
		default:
			at = n.right
		}
	}

	return false
}

// IsEmpty is true if tree has no values
func (t *Tree[T]) IsEmpty() bool { return t.root == nil }

// Free releases every node, finalizing its value. The tree is empty
// afterwards and can be reused.
//
// Nodes are detached onto an explicit stack before their children are
// inspected, the call stack does not grow with the tree height.
func (t *Tree[T]) Free() {
	var stack []*tbox.Box[node[T]]

	if root := tbox.Take(&t.root); root != nil {
		stack = append(stack, root)
	}

	for len(stack) > 0 {
		top := len(stack) - 1
		box := stack[top]
		stack[top] = nil
		stack = stack[:top]

		n := box.Get()
		if lh := tbox.Take(&n.left); lh != nil {
			stack = append(stack, lh)
		}
		if rh := tbox.Take(&n.right); rh != nil {
			stack = append(stack, rh)
		}

		box.Free()
	}
}

// Stats of the heap holding tree nodes. Live is number of nodes.
func (t *Tree[T]) Stats() tbox.Stats {
	if t.heap == nil {
		return tbox.Stats{}
	}

	return t.heap.Stats()
}
