package word

import "unsafe"

// Fixed is a buffer with capacity set at creation. The view always spans the
// full capacity; Extend only checks the requested count against it.
type Fixed struct {
	size  int
	words int
	back  []uint64
}

// NewFixed creates a fixed buffer of the given word count and word size.
// Backing storage is allocated as uint64s so the base is 8-byte aligned even
// for byte-sized words.
func NewFixed(words, wordSize int) *Fixed {
	checkWordSize(wordSize)
	if words < 0 {
		panic("word: negative word count")
	}
	nb := words * wordSize
	return &Fixed{
		size:  wordSize,
		words: words,
		back:  make([]uint64, (nb+7)/8),
	}
}

func (b *Fixed) Bytes() []byte {
	if b.words == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.back[0])), b.words*b.size)
}

func (b *Fixed) Words() int    { return b.words }
func (b *Fixed) WordSize() int { return b.size }

func (b *Fixed) Extend(words int) error {
	if words > b.words {
		return ErrCapacity
	}
	return nil
}

// Heap is a growable buffer. Backing arrays are drawn from a size-class pool;
// growth copies the current bytes into a larger slab and releases the old
// one. Like Fixed, the view spans the full capacity of the current slab.
type Heap struct {
	size  int
	words int
	back  []uint64
}

// NewHeap creates an empty growable buffer of the given word size.
func NewHeap(wordSize int) *Heap {
	checkWordSize(wordSize)
	return &Heap{size: wordSize}
}

func (b *Heap) Bytes() []byte {
	if b.words == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.back[0])), b.words*b.size)
}

func (b *Heap) Words() int    { return b.words }
func (b *Heap) WordSize() int { return b.size }

func (b *Heap) Extend(words int) error {
	if words <= b.words {
		return nil
	}
	need := (words*b.size + 7) / 8
	if need <= len(b.back) {
		// Slab already big enough, widen the view.
		b.words = len(b.back) * 8 / b.size
		return nil
	}
	slab := slabs.acquire(need)
	copy(slab, b.back)
	slabs.release(b.back)
	b.back = slab
	b.words = len(slab) * 8 / b.size
	return nil
}
