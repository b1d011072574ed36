package inline

import (
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// Value is a single-slot holder for one dispatch-table value of element
// interface T. The value's bytes sit at the buffer base (where alignment is
// strongest) and the descriptor word at the buffer's tail.
type Value[T any] struct {
	tab  vtab.Table[T]
	buf  word.Buf
	live bool
}

// NewEmptyValue creates a holder with no live value.
func NewEmptyValue[T any](buf word.Buf) *Value[T] {
	return &Value[T]{buf: buf}
}

// NewValue creates a holder over buf directly holding v, viewed as T through
// narrow. On a capacity failure the error is returned and v stays with the
// caller; on success ownership of v moves into the buffer and the caller
// must not use or drop its copy again.
func NewValue[T, U any](buf word.Buf, v U, narrow func(*U) T) (*Value[T], error) {
	val := NewEmptyValue[T](buf)
	if err := Replace(val, v, narrow); err != nil {
		return nil, err
	}
	return val, nil
}

// NewValueOr is NewValue with a growable fallback: when v does not fit buf,
// the holder is built over a fresh Heap buffer of the same word size instead.
func NewValueOr[T, U any](buf word.Buf, v U, narrow func(*U) T) *Value[T] {
	val, err := NewValue(buf, v, narrow)
	if err == nil {
		return val
	}
	val, err = NewValue(word.NewHeap(buf.WordSize()), v, narrow)
	if err != nil {
		panic("inline: growable buffer refused extend: " + err.Error())
	}
	return val
}

// Replace swaps the held value for v without discarding the buffer. Size is
// verified before the old value is destroyed: growth happens first, and on a
// capacity failure the old value stays live and v stays with the caller.
func Replace[T, U any](val *Value[T], v U, narrow func(*U) T) error {
	d := vtab.Register(&val.tab, narrow)
	e := val.tab.Lookup(d)
	vtab.CheckAlign(e.Align(), val.buf.WordSize())
	src := vtab.CheckRef(e, &v, narrow)

	ws := val.buf.WordSize()
	req := metaWords(ws) + word.Round(e.Size(), ws)

	// Growth moves the descriptor slot, so read the old descriptor out
	// before extending.
	var old vtab.Desc
	if val.live {
		b := val.buf.Bytes()
		old = getMeta(b[len(b)-word.MetaBytes:])
	}
	if err := val.buf.Extend(req); err != nil {
		return err
	}
	b := val.buf.Bytes()
	if val.live {
		val.tab.Lookup(old).Drop(unsafe.Pointer(&b[0]))
	}
	putMeta(b[len(b)-word.MetaBytes:], d)
	copyIn(b, src, e.Size())
	val.live = true
	return nil
}

// Get returns the element-interface view of the held value, or false when
// the holder is empty. The view is invalidated by the next mutating call.
func (val *Value[T]) Get() (T, bool) {
	if !val.live {
		var zero T
		return zero, false
	}
	b := val.buf.Bytes()
	d := getMeta(b[len(b)-word.MetaBytes:])
	return val.tab.Lookup(d).Lift(unsafe.Pointer(&b[0])), true
}

// Empty reports whether the holder has no live value.
func (val *Value[T]) Empty() bool { return !val.live }

// Drop destroys the held value, if present. The buffer is kept.
func (val *Value[T]) Drop() {
	if val.live {
		val.dropHeld()
		val.live = false
	}
}

func (val *Value[T]) dropHeld() {
	b := val.buf.Bytes()
	d := getMeta(b[len(b)-word.MetaBytes:])
	val.tab.Lookup(d).Drop(unsafe.Pointer(&b[0]))
}
