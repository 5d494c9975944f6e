//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package main

import (
	"fmt"
	"os"

	"github.com/fogfish/tbox"
	"github.com/fogfish/tbox/bst"
)

func main() {
	heap := tbox.NewHeap[string](tbox.WithChunkSize(8))

	box := tbox.New(heap, "hello")
	*box.Get() += ", world"
	fmt.Printf("==> box %s (%s): %q\n", box.Ptr(), box.Layout(), *box.Get())

	if err := heap.Dump(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	box.Free()
	fmt.Printf("==> stats %+3v\n", heap.Stats())

	// strictly ascending keys build a single chain of nodes
	const n = 20000
	tree := bst.New[int](tbox.WithChunkSize(4096))
	for i := 0; i < n; i++ {
		tree.Insert(i)
	}
	tree.Insert(0)

	fmt.Printf("==> contains %d: %v, %d: %v\n", n-1, tree.Contains(n-1), n, tree.Contains(n))
	fmt.Printf("==> stats %+3v\n", tree.Stats())

	tree.Free()
	fmt.Printf("==> stats %+3v\n", tree.Stats())
}
