//
// Copyright (C) 2023 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/tbox
//

package bst_test

import (
	"cmp"
	"strings"
	"sync"
	"testing"

	"github.com/fogfish/tbox"
	"github.com/fogfish/tbox/bst"
)

// counts finalization of values
type probe struct {
	key   int
	drops *int
}

func (p *probe) Finalize() { *p.drops++ }

func compareProbe(a, b probe) int { return cmp.Compare(a.key, b.key) }

// midpoint-first order builds balanced tree
func balanced(lo, hi int, seq []int) []int {
	if lo >= hi {
		return seq
	}
	mid := lo + (hi-lo)/2
	seq = append(seq, mid)
	seq = balanced(lo, mid, seq)
	return balanced(mid+1, hi, seq)
}

func TestNewTreeIsEmpty(t *testing.T) {
	tree := bst.New[int]()
	defer tree.Free()

	if !tree.IsEmpty() {
		t.Errorf("new tree is not empty")
	}

	for _, v := range []int{0, -1, 123} {
		if tree.Contains(v) {
			t.Errorf("empty tree contains %d", v)
		}
	}
}

func TestInsertSingleValue(t *testing.T) {
	tree := bst.New[int]()
	defer tree.Free()

	tree.Insert(10)

	if !tree.Contains(10) {
		t.Errorf("tree does not contain 10")
	}
	if tree.Contains(9) || tree.Contains(11) {
		t.Errorf("tree contains neighbours of 10")
	}
}

func TestInsertMultipleValues(t *testing.T) {
	tree := bst.New[int]()
	defer tree.Free()

	for _, v := range []int{5, 3, 7, 2, 4, 6, 8} {
		tree.Insert(v)
	}

	for _, v := range []int{5, 3, 7, 2, 4, 6, 8} {
		if !tree.Contains(v) {
			t.Errorf("tree does not contain %d", v)
		}
	}

	for _, v := range []int{0, 1, 9, 10, -1} {
		if tree.Contains(v) {
			t.Errorf("tree contains %d", v)
		}
	}

	if live := tree.Stats().Live; live != 7 {
		t.Errorf("unexpected number of nodes %d", live)
	}
}

func TestDuplicateInsertsAreIgnored(t *testing.T) {
	tree := bst.New[int]()
	defer tree.Free()

	tree.Insert(5)
	tree.Insert(5)
	tree.Insert(5)

	if !tree.Contains(5) {
		t.Errorf("tree does not contain 5")
	}
	if tree.Contains(4) || tree.Contains(6) {
		t.Errorf("tree contains neighbours of 5")
	}
	if live := tree.Stats().Live; live != 1 {
		t.Errorf("value 5 is stored in %d nodes", live)
	}
}

func TestDuplicateKeepsFirstValue(t *testing.T) {
	type kv struct {
		key int
		val string
	}

	tree := bst.NewFunc(func(a, b kv) int { return cmp.Compare(a.key, b.key) })
	defer tree.Free()

	tree.Insert(kv{1, "first"})
	tree.Insert(kv{1, "second"})

	if !tree.Contains(kv{key: 1}) {
		t.Errorf("tree does not contain key 1")
	}
	if live := tree.Stats().Live; live != 1 {
		t.Errorf("key 1 is stored in %d nodes", live)
	}
}

func TestDuplicateIsFinalized(t *testing.T) {
	kept, dups := 0, 0

	tree := bst.NewFunc(compareProbe)
	tree.Insert(probe{key: 1, drops: &kept})
	tree.Insert(probe{key: 1, drops: &dups})
	tree.Insert(probe{key: 1, drops: &dups})

	if kept != 0 || dups != 2 {
		t.Errorf("unexpected finalization kept=%d dups=%d", kept, dups)
	}

	tree.Free()
	if kept != 1 || dups != 2 {
		t.Errorf("unexpected finalization kept=%d dups=%d", kept, dups)
	}
}

func TestDescendingInsertsDegenerateTree(t *testing.T) {
	tree := bst.New[int]()
	defer tree.Free()

	for v := 99; v >= 0; v-- {
		tree.Insert(v)
	}

	for v := 0; v < 100; v++ {
		if !tree.Contains(v) {
			t.Errorf("tree does not contain %d", v)
		}
	}

	if tree.Contains(100) {
		t.Errorf("tree contains 100")
	}
}

func TestStrings(t *testing.T) {
	tree := bst.New[string]()
	defer tree.Free()

	tree.Insert("cat")
	tree.Insert("dog")
	tree.Insert("ant")

	for _, v := range []string{"cat", "dog", "ant"} {
		if !tree.Contains(v) {
			t.Errorf("tree does not contain %q", v)
		}
	}

	if tree.Contains("fox") {
		t.Errorf("tree contains fox")
	}
}

func TestFreeFinalizesEachNodeOnce(t *testing.T) {
	drops := 0
	tree := bst.NewFunc(compareProbe)

	for _, v := range balanced(0, 1024, nil) {
		tree.Insert(probe{key: v, drops: &drops})
	}

	dups := 0
	for _, v := range []int{123, 500, 0} {
		for i := 0; i < 1000; i++ {
			tree.Insert(probe{key: v, drops: &dups})
		}
	}

	if live := tree.Stats().Live; live != 1024 {
		t.Errorf("unexpected number of nodes %d", live)
	}

	tree.Free()

	if drops != 1024 {
		t.Errorf("free finalized %d nodes", drops)
	}
	if dups != 3000 {
		t.Errorf("discarded duplicates finalized %d times", dups)
	}
	if stats := tree.Stats(); stats.Live != 0 || stats.NumFrees != 1024 {
		t.Errorf("tree leaked nodes %+v", stats)
	}
}

func TestFreeDegenerateTree(t *testing.T) {
	const n = 20000

	for name, seq := range map[string]func(int) int{
		"ascending":  func(i int) int { return i },
		"descending": func(i int) int { return n - i },
	} {
		t.Run(name, func(t *testing.T) {
			drops := 0
			tree := bst.NewFunc(compareProbe)

			for i := 0; i < n; i++ {
				tree.Insert(probe{key: seq(i), drops: &drops})
			}

			tree.Free()

			if drops != n {
				t.Errorf("free finalized %d nodes", drops)
			}
			if !tree.IsEmpty() || tree.Stats().Live != 0 {
				t.Errorf("tree is not empty after free")
			}
		})
	}
}

func TestFreeEmptyTree(t *testing.T) {
	tree := bst.New[int]()
	tree.Free()
	tree.Free()

	if stats := tree.Stats(); stats.NumAllocs != 0 {
		t.Errorf("empty tree allocated %+v", stats)
	}
}

func TestReuseAfterFree(t *testing.T) {
	tree := bst.New[int](tbox.WithChunkSize(4))
	defer tree.Free()

	for v := 0; v < 10; v++ {
		tree.Insert(v)
	}
	tree.Free()

	if tree.Contains(5) {
		t.Errorf("freed tree contains 5")
	}

	tree.Insert(5)
	if !tree.Contains(5) || tree.Contains(4) {
		t.Errorf("reused tree is corrupted")
	}

	if stats := tree.Stats(); stats.Slabs != 3 || stats.Live != 1 {
		t.Errorf("released nodes are not reused %+v", stats)
	}
}

func TestSync(t *testing.T) {
	tree := bst.NewSync(bst.New[int]())
	defer tree.Free()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for v := w; v < 400; v += 4 {
				tree.Insert(v)
				tree.Insert(v)
			}
		}(w)
	}
	wg.Wait()

	for v := 0; v < 400; v++ {
		if !tree.Contains(v) {
			t.Errorf("tree does not contain %d", v)
		}
	}

	if live := tree.Stats().Live; live != 400 {
		t.Errorf("unexpected number of nodes %d", live)
	}
}

func BenchmarkInsert(b *testing.B) {
	b.ReportAllocs()

	tree := bst.New[int](tbox.WithChunkSize(16 * 1024))
	defer tree.Free()

	for i := 0; i < b.N; i++ {
		tree.Insert(int(uint32(i) * 2654435761))
	}
}

func BenchmarkInsertFree(b *testing.B) {
	seq := balanced(0, 1024, nil)

	for i := 0; i < b.N; i++ {
		tree := bst.New[int]()
		for _, v := range seq {
			tree.Insert(v)
		}
		tree.Free()
	}
}

func TestZeroTreeIsNotUsable(t *testing.T) {
	var tree bst.Tree[int]

	if tree.Contains(1) || !tree.IsEmpty() {
		t.Errorf("zero tree is not empty")
	}
	if stats := tree.Stats(); stats != (tbox.Stats{}) {
		t.Errorf("zero tree has stats %+v", stats)
	}
	tree.Free()

	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "use New") {
			t.Errorf("unexpected panic %q", msg)
		}
	}()

	tree.Insert(1)
}
