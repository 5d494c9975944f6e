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
	"unsafe"
)

// Layout is the memory requirement of a type: size and alignment in bytes.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns layout of type T
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
	}
}

// IsZero is true for types that carry no data (e.g. struct{})
func (l Layout) IsZero() bool { return l.Size == 0 }

func (l Layout) String() string {
	return fmt.Sprintf("size=%d align=%d", l.Size, l.Align)
}
