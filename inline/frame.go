// Package inline implements containers that store dynamically sized values
// inside a single word buffer: a single-slot holder, a LIFO stack and a FIFO
// queue. Each stored value occupies one frame: a descriptor word (dispatch
// table index or sequence length) packed next to the value's raw bytes.
//
// Containers are single-owner and unsynchronized. Views returned by Get, Top,
// Front and the iterators borrow the container's buffer and are invalidated
// by the next mutating call (push, pop, replace, compact or growth).
//
// Element types must be plain data: values are stored as raw bytes in memory
// the collector does not scan, so a stored pointer, slice, string, map or
// interface field would not keep its referent alive. Registration rejects
// such types up front.
package inline

import (
	"encoding/binary"
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// shape tells the stack and fifo cores how to interpret one frame: what the
// descriptor word means, how many data bytes the frame holds and how to
// rebuild or destroy the stored view.
type shape[V any] interface {
	sizeOf(meta uint64) int
	lift(p unsafe.Pointer, meta uint64) V
	drop(p unsafe.Pointer, meta uint64)
}

// tableShape frames hold one dispatch-table value; the descriptor is the
// table index of its concrete type.
type tableShape[T any] struct {
	tab *vtab.Table[T]
}

func (s tableShape[T]) sizeOf(meta uint64) int { return s.tab.Lookup(meta).Size() }
func (s tableShape[T]) lift(p unsafe.Pointer, meta uint64) T {
	return s.tab.Lookup(meta).Lift(p)
}
func (s tableShape[T]) drop(p unsafe.Pointer, meta uint64) { s.tab.Lookup(meta).Drop(p) }

// sliceShape frames hold a packed run of I; the descriptor is the element
// count.
type sliceShape[I any] struct {
	elemSize int
	elemDrop func(unsafe.Pointer)
}

func newSliceShape[I any]() sliceShape[I] {
	var z I
	s := sliceShape[I]{elemSize: int(unsafe.Sizeof(z))}
	if _, ok := any((*I)(nil)).(vtab.Dropper); ok {
		s.elemDrop = func(p unsafe.Pointer) { any((*I)(p)).(vtab.Dropper).Drop() }
	}
	return s
}

func (s sliceShape[I]) sizeOf(meta uint64) int { return int(meta) * s.elemSize }
func (s sliceShape[I]) lift(p unsafe.Pointer, meta uint64) []I {
	return unsafe.Slice((*I)(p), int(meta))
}
func (s sliceShape[I]) drop(p unsafe.Pointer, meta uint64) {
	if s.elemDrop == nil {
		return
	}
	for i := 0; i < int(meta); i++ {
		s.elemDrop(unsafe.Add(p, uintptr(i)*uintptr(s.elemSize)))
	}
}

// strShape frames hold raw character bytes; the descriptor is the byte
// length. Strings never carry a drop hook.
type strShape struct{}

func (strShape) sizeOf(meta uint64) int { return int(meta) }
func (strShape) lift(p unsafe.Pointer, meta uint64) string {
	if meta == 0 {
		return ""
	}
	return unsafe.String((*byte)(p), int(meta))
}
func (strShape) drop(unsafe.Pointer, uint64) {}

// metaWords is the word count of one descriptor for the given word size.
func metaWords(wordSize int) int { return word.MetaBytes / wordSize }

func putMeta(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func getMeta(b []byte) uint64    { return binary.LittleEndian.Uint64(b) }

// copyIn moves n raw bytes from src into dst. The source value must not be
// used (or dropped) by the caller afterwards: ownership moves to the buffer.
func copyIn(dst []byte, src unsafe.Pointer, n int) {
	if n > 0 {
		copy(dst, unsafe.Slice((*byte)(src), n))
	}
}

func alignOf[I any]() int {
	var z I
	return int(unsafe.Alignof(z))
}

func sizeOfElem[I any]() int {
	var z I
	return int(unsafe.Sizeof(z))
}
