//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package tbox

import "unsafe"

// Finalizer is implemented by values that own resources. Box calls
// Finalize exactly once, right before the value's memory is released.
type Finalizer interface {
	Finalize()
}

// Drop finalizes value if it implements Finalizer
func Drop[T any](v *T) {
	if f, ok := any(v).(Finalizer); ok {
		f.Finalize()
	}
}

// Box is exclusive owner of a single value allocated on typed Heap.
//
// The *Box handle is the only path to the value. Moving ownership is
// passing the handle and forgetting it at the source (see Take). Free
// releases the value once, later calls are no-op.
type Box[T any] struct {
	heap *Heap[T]
	ptr  Ptr[T]
	obj  *T
}

// New moves value into memory allocated from heap.
//
// Zero-size types are not allocated, the box points to the shared
// zero-size address and heap might be nil. Failure to allocate memory is
// fatal, see OnAllocError.
func New[T any](heap *Heap[T], value T) *Box[T] {
	layout := LayoutOf[T]()
	if layout.IsZero() {
		return &Box[T]{obj: new(T)}
	}

	if heap == nil {
		panic("tbox: nil heap")
	}

	ptr, obj, err := heap.Alloc()
	if err != nil {
		handleAllocError(layout, err)
	}

	*obj = value
	return &Box[T]{heap: heap, ptr: ptr, obj: obj}
}

// Get dereferences box. The pointer is valid until box is freed.
func (b *Box[T]) Get() *T {
	if b.obj == nil {
		panic("tbox: use after free")
	}

	return b.obj
}

// Ptr is heap address of the value, nil for zero-size values
func (b *Box[T]) Ptr() Ptr[T] { return b.ptr }

// Addr is memory address of the value
func (b *Box[T]) Addr() uintptr { return uintptr(unsafe.Pointer(b.Get())) }

func (b *Box[T]) Layout() Layout { return LayoutOf[T]() }

// Alive is true until box is freed
func (b *Box[T]) Alive() bool { return b != nil && b.obj != nil }

// Free finalizes the value and returns its memory to heap.
func (b *Box[T]) Free() {
	if b == nil || b.obj == nil {
		return
	}

	// box is dead before finalizer runs, re-entrant Free is no-op
	obj := b.obj
	b.obj = nil

	Drop(obj)

	if b.heap != nil {
		if !b.heap.Free(b.ptr) {
			panic("tbox: box memory released twice")
		}
	}

	b.heap = nil
	b.ptr = 0
}

// Take moves box out of the slot, leaving the slot empty
func Take[T any](slot **Box[T]) *Box[T] {
	b := *slot
	*slot = nil
	return b
}
