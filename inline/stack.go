package inline

import (
	"fmt"
	"iter"
	"strings"
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// stackCore packs frames from the buffer's high end toward the low end.
// next is the offset, in words, from the high end to the first free word;
// the top (most recently pushed) frame starts at Words()-next.
type stackCore[V any] struct {
	sh   shape[V]
	buf  word.Buf
	next int
}

func (c *stackCore[V]) empty() bool { return c.next == 0 }

// reserve makes room for one frame of size data bytes, growing the buffer if
// needed, advances the cursor and writes the descriptor word. Returns the
// frame's meta and data byte regions plus the pre-advance cursor value (the
// rollback point for guarded pushes). Growth preserves low-end offsets, so
// the live region is shifted up to the new high end afterwards.
func (c *stackCore[V]) reserve(meta uint64, size int) (metaB, dataB []byte, prev int, err error) {
	ws := c.buf.WordSize()
	words := metaWords(ws) + word.Round(size, ws)
	if c.next+words > c.buf.Words() {
		liveB := c.next * ws
		oldLen := c.buf.Words() * ws
		if err := c.buf.Extend(c.next + words); err != nil {
			return nil, nil, 0, err
		}
		b := c.buf.Bytes()
		if len(b) != oldLen && liveB > 0 {
			copy(b[len(b)-liveB:], b[oldLen-liveB:oldLen])
		}
	}
	prev = c.next
	c.next += words
	b := c.buf.Bytes()
	slot := b[len(b)-c.next*ws:][:words*ws]
	putMeta(slot, meta)
	return slot[:word.MetaBytes], slot[word.MetaBytes:], prev, nil
}

// frameAt returns the frame starting at word offset ofs from the high end.
func (c *stackCore[V]) frameAt(ofs int) (meta uint64, data unsafe.Pointer, words int) {
	ws := c.buf.WordSize()
	b := c.buf.Bytes()
	slot := b[len(b)-ofs*ws:]
	meta = getMeta(slot)
	// The data region may be empty, so derive its address rather than index.
	data = unsafe.Add(unsafe.Pointer(unsafe.SliceData(slot)), word.MetaBytes)
	words = metaWords(ws) + word.Round(c.sh.sizeOf(meta), ws)
	return
}

func (c *stackCore[V]) top() (V, bool) {
	if c.empty() {
		var zero V
		return zero, false
	}
	meta, data, _ := c.frameAt(c.next)
	return c.sh.lift(data, meta), true
}

func (c *stackCore[V]) pop() {
	if c.empty() {
		return
	}
	meta, data, words := c.frameAt(c.next)
	c.sh.drop(data, meta)
	c.next -= words
}

// iterate yields frames from the top (most recently pushed) down, in pop
// order. The container must not be mutated while ranging.
func (c *stackCore[V]) iterate() iter.Seq[V] {
	return func(yield func(V) bool) {
		for rem := c.next; rem > 0; {
			meta, data, words := c.frameAt(rem)
			if !yield(c.sh.lift(data, meta)) {
				return
			}
			rem -= words
		}
	}
}

func (c *stackCore[V]) drain() {
	for !c.empty() {
		c.pop()
	}
}

// length counts frames by walking them; frames are variable-sized, so no
// running count is kept.
func (c *stackCore[V]) length() int {
	n := 0
	for rem := c.next; rem > 0; {
		_, _, words := c.frameAt(rem)
		rem -= words
		n++
	}
	return n
}

func formatFrames[V any](seq iter.Seq[V]) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for v := range seq {
		fmt.Fprintf(&sb, "%v,", v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// Stack is a LIFO of dispatch-table values with element interface T.
type Stack[T any] struct {
	tab  vtab.Table[T]
	core stackCore[T]
}

// NewStack creates an empty stack over buf.
func NewStack[T any](buf word.Buf) *Stack[T] {
	s := &Stack[T]{}
	s.core = stackCore[T]{sh: tableShape[T]{&s.tab}, buf: buf}
	return s
}

// Push places v on top of the stack, viewed as T through narrow. On a
// capacity failure the error is returned and v stays with the caller; on
// success ownership of v moves into the buffer.
func Push[T, U any](s *Stack[T], v U, narrow func(*U) T) error {
	d := vtab.Register(&s.tab, narrow)
	e := s.tab.Lookup(d)
	vtab.CheckAlign(e.Align(), s.core.buf.WordSize())
	src := vtab.CheckRef(e, &v, narrow)
	_, data, _, err := s.core.reserve(d, e.Size())
	if err != nil {
		return err
	}
	copyIn(data, src, e.Size())
	return nil
}

// Top returns the most recently pushed value, or false when empty.
func (s *Stack[T]) Top() (T, bool) { return s.core.top() }

// Pop destroys the top value. No-op when empty.
func (s *Stack[T]) Pop() { s.core.pop() }

// Empty reports whether the stack holds no frames.
func (s *Stack[T]) Empty() bool { return s.core.empty() }

// Len counts the stored frames.
func (s *Stack[T]) Len() int { return s.core.length() }

// Iter yields values from the top down, in pop order.
func (s *Stack[T]) Iter() iter.Seq[T] { return s.core.iterate() }

// Drop pops every frame, destroying each value exactly once.
func (s *Stack[T]) Drop() { s.core.drain() }

func (s *Stack[T]) String() string { return formatFrames(s.Iter()) }
