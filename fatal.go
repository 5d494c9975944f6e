//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package tbox

import (
	"errors"
	"fmt"
	"os"
)

// ErrOutOfMemory is reported by Heap.Alloc when heap is exhausted
var ErrOutOfMemory = errors.New("out of memory")

// OnAllocError is called when Box cannot obtain memory for its value.
// The default handler reports the failed allocation and terminates the
// process. The handler must not return; if it does, the allocating
// call panics instead of returning a box.
var OnAllocError = func(layout Layout, err error) {
	fmt.Fprintf(os.Stderr, "tbox: memory allocation of %d bytes (align %d) failed: %v\n",
		layout.Size, layout.Align, err)
	os.Exit(134)
}

func handleAllocError(layout Layout, err error) {
	OnAllocError(layout, err)
	panic(fmt.Sprintf("tbox: allocation error handler returned (%s)", layout))
}
