// Package vtab implements the wide-reference codec behind the inline
// containers. Go has no reconstructible multi-word pointer, so the descriptor
// stored next to a frame's bytes is an index into an explicit dispatch table:
// each entry records the concrete type's size and alignment, how to rebuild
// the element-interface view over stored bytes, and how to destroy a stored
// value.
package vtab

import (
	"fmt"
	"unsafe"
)

// Dropper is implemented by element types that need cleanup when their frame
// is popped, replaced, filtered out or torn down with its container. The
// containers call Drop exactly once per stored value.
type Dropper interface {
	Drop()
}

// Desc is one descriptor word. For dispatch-table frames it holds the table
// index of the stored value's concrete type; sequence frames reuse the same
// word for their length instead.
type Desc = uint64

// Entry describes one concrete type admitted into a Table.
type Entry[T any] struct {
	typ   unsafe.Pointer // runtime type of *U, identity key
	size  int
	align int
	lift  func(unsafe.Pointer) T
	drop  func(unsafe.Pointer)
}

func (e *Entry[T]) Size() int  { return e.size }
func (e *Entry[T]) Align() int { return e.align }

// Lift rebuilds the element-interface view over the stored bytes at p.
func (e *Entry[T]) Lift(p unsafe.Pointer) T { return e.lift(p) }

// Drop destroys the stored value at p, if its type has a Drop hook.
func (e *Entry[T]) Drop(p unsafe.Pointer) {
	if e.drop != nil {
		e.drop(p)
	}
}

// Table is a per-container dispatch table. Entries are deduplicated by
// concrete type; the first narrowing function registered for a type is the
// one used to lift every frame of that type.
type Table[T any] struct {
	entries []Entry[T]
}

// Register adds (or finds) the entry for concrete type U and returns its
// descriptor. The type must be plain data and the narrowing function must
// produce a view backed by exactly the value it is given; both are checked
// here, and violations panic.
func Register[T, U any](tb *Table[T], narrow func(*U) T) Desc {
	t := typeOf[U]()
	for i := range tb.entries {
		if tb.entries[i].typ == t {
			return Desc(i)
		}
	}
	CheckPlainData[U]()
	var z U
	e := Entry[T]{
		typ:   t,
		size:  int(unsafe.Sizeof(z)),
		align: int(unsafe.Alignof(z)),
		lift:  func(p unsafe.Pointer) T { return narrow((*U)(p)) },
	}
	if _, ok := any((*U)(nil)).(Dropper); ok {
		e.drop = func(p unsafe.Pointer) { any((*U)(p)).(Dropper).Drop() }
	}
	tb.entries = append(tb.entries, e)
	return Desc(len(tb.entries) - 1)
}

// Lookup resolves a descriptor back to its entry. An out-of-range descriptor
// means the frame words were corrupted; that is unrecoverable.
func (tb *Table[T]) Lookup(d Desc) *Entry[T] {
	if d >= Desc(len(tb.entries)) {
		panic(fmt.Sprintf("vtab: descriptor %d out of range (table has %d entries)", d, len(tb.entries)))
	}
	return &tb.entries[d]
}

// Len reports the number of registered concrete types.
func (tb *Table[T]) Len() int { return len(tb.entries) }
