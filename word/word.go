// Package word provides the storage words and buffers that back the inline
// containers. A buffer is a contiguous run of uniformly sized words; all
// container bookkeeping is done in word offsets so that a growable buffer may
// relocate its backing storage without invalidating container state.
package word

import "errors"

// Logical word sizes, in bytes. A buffer's word size is also its alignment
// guarantee: frame data always starts on a word boundary.
const (
	U8  = 1
	U16 = 2
	U32 = 4
	U64 = 8
)

// MetaBytes is the byte width of one descriptor word. Descriptors are stored
// as a little-endian uint64 regardless of the buffer's logical word size
// (8 bytes is a whole number of words for every supported size).
const MetaBytes = 8

// ErrCapacity is returned by Extend when a fixed buffer cannot reach the
// requested word count. Push-family operations surface it unchanged.
var ErrCapacity = errors.New("word: buffer at fixed capacity")

// Buf is a block of uniformly sized words.
//
// Bytes returns the full current view; its length is Words()*WordSize() and
// its base address is aligned to at least WordSize(). Extend grows the view
// to at least the given word count, preserving every existing byte at the
// same offset from the low end. Growth may relocate the backing storage, so
// callers must never retain raw addresses across an Extend.
type Buf interface {
	Bytes() []byte
	Words() int
	WordSize() int
	Extend(words int) error
}

// Round converts a byte count to a word count, rounding up.
func Round(bytes, wordSize int) int {
	return (bytes + wordSize - 1) / wordSize
}

func checkWordSize(size int) {
	switch size {
	case U8, U16, U32, U64:
	default:
		panic("word: word size must be 1, 2, 4 or 8 bytes")
	}
}
