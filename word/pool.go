package word

import (
	"math/bits"
	"sync"
)

// Slab size classes for Heap backing arrays, in uint64s (64 B .. 256 KiB).
var slabClass = [...]int{8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768}

type slabPool struct {
	pools [len(slabClass)]sync.Pool
}

var slabs = newSlabPool()

func newSlabPool() *slabPool {
	var sp slabPool
	for i, sz := range slabClass {
		size := sz
		sp.pools[i].New = func() any {
			s := make([]uint64, size)
			return &s
		}
	}
	return &sp
}

// classIndex returns the index of the smallest class holding n uint64s,
// or -1 when n exceeds the largest class.
func classIndex(n int) int {
	if n <= 0 {
		return 0
	}
	if n > slabClass[len(slabClass)-1] {
		return -1
	}
	idx := bits.Len(uint(n))
	if idx < 4 {
		return 0
	}
	if n&(n-1) == 0 {
		return idx - 4
	}
	return idx - 3
}

// acquire returns a slab of at least n uint64s. Contents are unspecified:
// the Buf contract only promises that bytes below the previous length are
// preserved across Extend.
func (sp *slabPool) acquire(n int) []uint64 {
	idx := classIndex(n)
	if idx < 0 {
		return make([]uint64, n)
	}
	slabPtr := sp.pools[idx].Get().(*[]uint64)
	return *slabPtr
}

// release returns a slab to its pool if its size matches a class.
func (sp *slabPool) release(slab []uint64) {
	n := cap(slab)
	if n < slabClass[0] || n > slabClass[len(slabClass)-1] || n&(n-1) != 0 {
		return // not a class size
	}
	slab = slab[:n]
	sp.pools[bits.Len(uint(n))-4].Put(&slab)
}
