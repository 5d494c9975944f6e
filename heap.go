//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package tbox

import (
	"fmt"
	"io"
)

// typed pointer to the object on Heap
//
// The pointer packs slot generation (32 bits), slab (16 bits) and
// slot (16 bits, one-based) identities. The generation makes a pointer
// to a released slot distinguishable from a pointer to its next tenant.
type Ptr[T any] uint64

func (ptr Ptr[T]) ref() ref {
	return ref{slabID: int(ptr>>16) & 0xffff, slotID: int(ptr & 0xffff)}
}

func (ptr Ptr[T]) gen() uint32 { return uint32(ptr >> 32) }

func (ptr Ptr[T]) IsNil() bool { return ptr == 0 }

func (ptr Ptr[T]) String() string {
	if ptr.IsNil() {
		return "nil"
	}
	r := ptr.ref()
	return fmt.Sprintf("%d:%d@%d", r.slabID, r.slotID, ptr.gen())
}

type Stats struct {
	NumAllocs int
	NumFrees  int
	Slabs     int
	Slots     int
	SlotsFree int
	Live      int
}

// Typed Heap manages pool of objects on typed-slabs.
// Heap is not safe for concurrent use.
type Heap[T any] struct {
	slabs  tslabs[T]
	layout Layout

	chunkSize int
	maxSlabs  int

	statsAllocs int
	statsFrees  int
}

// Sequence of typed-slabs
type tslabs[T any] struct {
	seq []*tslab[T]

	freeSlots      ref
	freeSlotsCount int
	slotsCount     int
}

// typed slab
type tslab[T any] struct {
	// object heap memory, never re-allocated
	memory []T
	// metadata about memory chunks
	slots []slot
	live  int
}

// metadata about slots available on slab
type slot struct {
	refs int32
	gen  uint32
	self ref
	next ref
}

// reference to slot
type ref struct {
	slabID int
	slotID int
}

func (ref ref) isNil() bool { return ref.slabID == -1 && ref.slotID == -1 }

var nilRef = ref{-1, -1}

// slab identity is 16 bits wide
const maxSlabs = 64 * 1024

// Create new heap for objects of type T
func NewHeap[T any](opts ...Option) *Heap[T] {
	conf := config{chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(&conf)
	}

	return &Heap[T]{
		slabs:     tslabs[T]{freeSlots: nilRef},
		layout:    LayoutOf[T](),
		chunkSize: conf.chunkSize,
		maxSlabs:  conf.maxSlabs,
	}
}

// Layout of objects managed by the heap
func (h *Heap[T]) Layout() Layout { return h.layout }

// Allocate zeroed object from heap.
// It fails with ErrOutOfMemory if heap cannot grow anymore.
func (h *Heap[T]) Alloc() (Ptr[T], *T, error) {
	if h.slabs.freeSlots.isNil() {
		n := len(h.slabs.seq)
		if n >= maxSlabs || (h.maxSlabs > 0 && n >= h.maxSlabs) {
			return 0, nil, fmt.Errorf("%w: %d slabs of %d objects (%s)",
				ErrOutOfMemory, n, h.chunkSize, h.layout)
		}
		h.slabs.grow(h.chunkSize)
	}

	h.statsAllocs++

	slot := h.slabs.dequeueFreeSlot()
	h.slabs.seq[slot.self.slabID].live++

	ptr, obj := h.slabs.fetchSlot(slot)
	return ptr, obj, nil
}

// Get object by pointer, nil if pointer is released
func (h *Heap[T]) Get(ptr Ptr[T]) *T {
	slot := h.slabs.lookup(ptr)
	if slot == nil {
		return nil
	}

	_, obj := h.slabs.fetchSlot(slot)
	return obj
}

// Free memory allocated to pointer. The memory is zeroed so that heap
// does not retain anything the object referenced. It returns false if
// pointer does not address live object.
func (h *Heap[T]) Free(ptr Ptr[T]) bool {
	slot := h.slabs.lookup(ptr)
	if slot == nil {
		return false
	}

	var zero T
	slab := h.slabs.seq[slot.self.slabID]
	slab.memory[slot.self.slotID-1] = zero
	slab.live--

	slot.refs = 0
	slot.gen++
	h.statsFrees++

	h.slabs.enqueueFreeSlot(slot)
	return true
}

func (h *Heap[T]) Stats() Stats {
	return Stats{
		NumAllocs: h.statsAllocs,
		NumFrees:  h.statsFrees,
		Slabs:     len(h.slabs.seq),
		Slots:     h.slabs.slotsCount,
		SlotsFree: h.slabs.freeSlotsCount,
		Live:      h.slabs.slotsCount - h.slabs.freeSlotsCount,
	}
}

// Dump occupancy of slabs
func (h *Heap[T]) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "heap: %s chunk=%d\n", h.layout, h.chunkSize); err != nil {
		return err
	}

	for id, x := range h.slabs.seq {
		if _, err := fmt.Fprintf(w, "slab %d: %d/%d\n", id, x.live, len(x.slots)); err != nil {
			return err
		}
	}

	return nil
}

// ---------------------------------------------------------------

// add empty slab
func (slabs *tslabs[T]) grow(size int) {
	id := len(slabs.seq)
	slab := &tslab[T]{
		memory: make([]T, size),
		slots:  make([]slot, size),
	}
	slabs.seq = append(slabs.seq, slab)
	slabs.slotsCount += size

	for i := 1; i <= len(slab.slots); i++ {
		c := &(slab.slots[i-1])
		c.self.slabID = id
		c.self.slotID = i
		slabs.enqueueFreeSlot(c)
	}
}

// fetches object and its address behind memory slot
func (slabs *tslabs[T]) fetchSlot(slot *slot) (Ptr[T], *T) {
	slab := slabs.seq[slot.self.slabID]

	obj := &(slab.memory[slot.self.slotID-1])
	ptr := Ptr[T](uint64(slot.gen)<<32 | uint64(slot.self.slabID)<<16 | uint64(slot.self.slotID))

	return ptr, obj
}

// cast ref to slot
func (slabs *tslabs[T]) refToSlot(ref ref) *slot {
	if ref.isNil() {
		return nil
	}

	return &(slabs.seq[ref.slabID].slots[ref.slotID-1])
}

// cast pointer to live slot
func (slabs *tslabs[T]) lookup(ptr Ptr[T]) *slot {
	if ptr.IsNil() {
		return nil
	}

	ref := ptr.ref()
	if ref.slabID >= len(slabs.seq) {
		return nil
	}

	slab := slabs.seq[ref.slabID]
	if ref.slotID < 1 || ref.slotID > len(slab.slots) {
		return nil
	}

	slot := &(slab.slots[ref.slotID-1])
	if slot.refs == 0 || slot.gen != ptr.gen() {
		return nil
	}

	return slot
}

// release slot to heap
func (slabs *tslabs[T]) enqueueFreeSlot(c *slot) {
	if c.refs != 0 {
		panic("slabs: enqueue no empty slot")
	}

	c.next = slabs.freeSlots
	slabs.freeSlots = c.self
	slabs.freeSlotsCount++
}

// allocate slot from heap
func (slabs *tslabs[T]) dequeueFreeSlot() *slot {
	if slabs.freeSlots.isNil() {
		panic("slabs: out of memory")
	}

	c := slabs.refToSlot(slabs.freeSlots)

	if c.refs != 0 {
		panic("slabs: dequeue allocated slot")
	}

	c.refs = 1
	slabs.freeSlots = c.next
	c.next = nilRef
	slabs.freeSlotsCount--

	if slabs.freeSlotsCount < 0 {
		panic("slabs: queue of slots corrupted")
	}

	return c
}
