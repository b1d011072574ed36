package inline

import (
	"iter"
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// StrValue is the character-sequence holder: bytes at the buffer base, byte
// length in the descriptor word at the tail.
type StrValue struct {
	buf word.Buf
}

// EmptyStr creates an empty string holder (fails only when the descriptor
// itself does not fit).
func EmptyStr(buf word.Buf) (*StrValue, error) {
	return NewStr(buf, "")
}

// NewStr creates a string holder containing s.
func NewStr(buf word.Buf, s string) (*StrValue, error) {
	v := &StrValue{buf: buf}
	ws := buf.WordSize()
	req := metaWords(ws) + word.Round(len(s), ws)
	if err := buf.Extend(req); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	copy(b, s)
	putMeta(b[len(b)-word.MetaBytes:], uint64(len(s)))
	return v, nil
}

// Str returns the current contents. The view borrows the buffer and is
// invalidated by the next mutating call.
func (v *StrValue) Str() string {
	b := v.buf.Bytes()
	n := int(getMeta(b[len(b)-word.MetaBytes:]))
	if n == 0 {
		return ""
	}
	return unsafe.String(&b[0], n)
}

// Len returns the byte length.
func (v *StrValue) Len() int {
	b := v.buf.Bytes()
	return int(getMeta(b[len(b)-word.MetaBytes:]))
}

// AppendStr adds s at the end. The bytes are written before the length word
// is committed, so a capacity failure never exposes a partial append.
func (v *StrValue) AppendStr(s string) error {
	ws := v.buf.WordSize()
	ofs := v.Len()
	req := metaWords(ws) + word.Round(ofs+len(s), ws)
	if err := v.buf.Extend(req); err != nil {
		return err
	}
	b := v.buf.Bytes()
	copy(b[ofs:], s)
	putMeta(b[len(b)-word.MetaBytes:], uint64(ofs+len(s)))
	return nil
}

// Truncate discards trailing bytes, shrinking only the length word. Growing
// is not possible this way; n at or beyond the current length is a no-op.
func (v *StrValue) Truncate(n int) {
	if n < 0 {
		panic("inline: negative truncate length")
	}
	if n < v.Len() {
		b := v.buf.Bytes()
		putMeta(b[len(b)-word.MetaBytes:], uint64(n))
	}
}

// SliceValue is the homogeneous-sequence holder: elements of I packed from
// the buffer base, element count in the descriptor word at the tail.
type SliceValue[I any] struct {
	sh  sliceShape[I]
	buf word.Buf
}

// EmptySlice creates an empty slice holder (fails only when the descriptor
// itself does not fit). The element type must be plain data and must not
// require stricter alignment than the buffer's words.
func EmptySlice[I any](buf word.Buf) (*SliceValue[I], error) {
	vtab.CheckPlainData[I]()
	vtab.CheckAlign(alignOf[I](), buf.WordSize())
	v := &SliceValue[I]{sh: newSliceShape[I](), buf: buf}
	if err := buf.Extend(metaWords(buf.WordSize())); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	putMeta(b[len(b)-word.MetaBytes:], 0)
	return v, nil
}

// NewSlice creates a slice holder containing a copy of src. Ownership of the
// copied elements moves into the buffer.
func NewSlice[I any](buf word.Buf, src []I) (*SliceValue[I], error) {
	v, err := EmptySlice[I](buf)
	if err != nil {
		return nil, err
	}
	ws := buf.WordSize()
	req := metaWords(ws) + word.Round(len(src)*v.sh.elemSize, ws)
	if err := buf.Extend(req); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if len(src) > 0 {
		copyIn(b, unsafe.Pointer(&src[0]), len(src)*v.sh.elemSize)
	}
	putMeta(b[len(b)-word.MetaBytes:], uint64(len(src)))
	return v, nil
}

// Len returns the element count.
func (v *SliceValue[I]) Len() int {
	b := v.buf.Bytes()
	return int(getMeta(b[len(b)-word.MetaBytes:]))
}

// Slice returns the current contents. The view borrows the buffer and is
// invalidated by the next mutating call.
func (v *SliceValue[I]) Slice() []I {
	n := v.Len()
	if n == 0 {
		return nil
	}
	b := v.buf.Bytes()
	return unsafe.Slice((*I)(unsafe.Pointer(&b[0])), n)
}

// Append adds one element at the end. The element is written before the
// count word is committed; on a capacity failure item stays with the caller.
func (v *SliceValue[I]) Append(item I) error {
	ws := v.buf.WordSize()
	ofs := v.Len()
	req := metaWords(ws) + word.Round((ofs+1)*v.sh.elemSize, ws)
	if err := v.buf.Extend(req); err != nil {
		return err
	}
	b := v.buf.Bytes()
	*(*I)(unsafe.Add(unsafe.Pointer(&b[0]), uintptr(ofs)*uintptr(v.sh.elemSize))) = item
	putMeta(b[len(b)-word.MetaBytes:], uint64(ofs+1))
	return nil
}

// Extend appends elements drawn from seq until it ends or space runs out.
// Returns the number appended; a non-nil error means the sequence was cut
// short by capacity (the element that did not fit is lost to the caller only
// if seq cannot be replayed).
func (v *SliceValue[I]) Extend(seq iter.Seq[I]) (int, error) {
	n := 0
	for item := range seq {
		if err := v.Append(item); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Pop removes and returns the last element. Ownership moves to the caller.
func (v *SliceValue[I]) Pop() (I, bool) {
	n := v.Len()
	if n == 0 {
		var zero I
		return zero, false
	}
	b := v.buf.Bytes()
	putMeta(b[len(b)-word.MetaBytes:], uint64(n-1))
	item := *(*I)(unsafe.Add(unsafe.Pointer(&b[0]), uintptr(n-1)*uintptr(v.sh.elemSize)))
	return item, true
}

// Truncate discards trailing elements. Discarded elements are dropped in
// forward order so teardown never sees them again.
func (v *SliceValue[I]) Truncate(n int) {
	if n < 0 {
		panic("inline: negative truncate length")
	}
	cur := v.Len()
	if n >= cur {
		return
	}
	b := v.buf.Bytes()
	putMeta(b[len(b)-word.MetaBytes:], uint64(n))
	if v.sh.elemDrop != nil {
		base := unsafe.Pointer(&b[0])
		for i := n; i < cur; i++ {
			v.sh.elemDrop(unsafe.Add(base, uintptr(i)*uintptr(v.sh.elemSize)))
		}
	}
}

// Drop destroys all elements and empties the holder.
func (v *SliceValue[I]) Drop() {
	v.Truncate(0)
}
