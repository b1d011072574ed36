package inline

import (
	"iter"
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// fifoCore packs frames front-to-back between two word cursors. Frames
// occupy [read, write) in push order; the space before read is dead until
// compaction slides the live region back to offset zero.
type fifoCore[V any] struct {
	sh    shape[V]
	buf   word.Buf
	read  int
	write int
}

func (c *fifoCore[V]) empty() bool { return c.read == c.write }

func (c *fifoCore[V]) space() int { return c.buf.Words() - c.write }

// compact slides the live region down so read becomes zero. Logical order
// and content are unchanged.
func (c *fifoCore[V]) compact() {
	if c.read == 0 {
		return
	}
	ws := c.buf.WordSize()
	b := c.buf.Bytes()
	copy(b, b[c.read*ws:c.write*ws])
	c.write -= c.read
	c.read = 0
}

// reserve makes room for one frame of size data bytes: compaction first when
// that alone would suffice, growth otherwise. Advances the write cursor and
// writes the descriptor word. prev is the pre-advance cursor value, captured
// after any compaction, so guarded pushes roll back to a valid state.
func (c *fifoCore[V]) reserve(meta uint64, size int) (metaB, dataB []byte, prev int, err error) {
	ws := c.buf.WordSize()
	words := metaWords(ws) + word.Round(size, ws)
	if c.space() < words {
		if c.space()+c.read >= words {
			c.compact()
		}
		if c.space() < words {
			if err := c.buf.Extend(c.write + words); err != nil {
				return nil, nil, 0, err
			}
		}
	}
	slot := c.buf.Bytes()[c.write*ws:][:words*ws]
	prev = c.write
	c.write += words
	putMeta(slot, meta)
	return slot[:word.MetaBytes], slot[word.MetaBytes:], prev, nil
}

// frameAt returns the frame starting at word offset ofs from the low end.
func (c *fifoCore[V]) frameAt(ofs int) (meta uint64, data unsafe.Pointer, words int) {
	ws := c.buf.WordSize()
	slot := c.buf.Bytes()[ofs*ws:]
	meta = getMeta(slot)
	// The data region may be empty, so derive its address rather than index.
	data = unsafe.Add(unsafe.Pointer(unsafe.SliceData(slot)), word.MetaBytes)
	words = metaWords(ws) + word.Round(c.sh.sizeOf(meta), ws)
	return
}

func (c *fifoCore[V]) front() (V, bool) {
	if c.empty() {
		var zero V
		return zero, false
	}
	meta, data, _ := c.frameAt(c.read)
	return c.sh.lift(data, meta), true
}

// popFront destroys the front value and advances the read cursor past it.
func (c *fifoCore[V]) popFront() {
	if c.empty() {
		return
	}
	meta, data, words := c.frameAt(c.read)
	c.sh.drop(data, meta)
	c.read += words
}

// retain keeps only frames the predicate accepts, in one forward pass.
// Rejected frames are destroyed in place, in pass order; accepted frames are
// slid down to the writeback position, which always trails the read side of
// the pass, so a move never overwrites a frame that has not been visited.
func (c *fifoCore[V]) retain(pred func(V) bool) {
	ws := c.buf.WordSize()
	end := c.write
	ofs := c.read
	wb := ofs
	for ofs < end {
		meta, data, words := c.frameAt(ofs)
		if pred(c.sh.lift(data, meta)) {
			if wb != ofs {
				b := c.buf.Bytes()
				copy(b[wb*ws:], b[ofs*ws:(ofs+words)*ws])
			}
			wb += words
		} else {
			c.sh.drop(data, meta)
		}
		ofs += words
	}
	c.write = wb
}

// iterate yields frames from the read cursor to the write cursor, oldest
// first. The container must not be mutated while ranging.
func (c *fifoCore[V]) iterate() iter.Seq[V] {
	return func(yield func(V) bool) {
		for ofs := c.read; ofs < c.write; {
			meta, data, words := c.frameAt(ofs)
			if !yield(c.sh.lift(data, meta)) {
				return
			}
			ofs += words
		}
	}
}

func (c *fifoCore[V]) drain() {
	for !c.empty() {
		c.popFront()
	}
}

// length counts frames by walking them; frames are variable-sized, so no
// running count is kept.
func (c *fifoCore[V]) length() int {
	n := 0
	for ofs := c.read; ofs < c.write; {
		_, _, words := c.frameAt(ofs)
		ofs += words
		n++
	}
	return n
}

// PopHandle is the scoped front-of-queue read returned by PopFront: the
// value stays valid for inspection until Release, which destroys it and
// advances the queue past it.
type PopHandle[V any] struct {
	core *fifoCore[V]
	done bool
}

// Value returns the front value. Must not be called after Release.
func (h *PopHandle[V]) Value() V {
	if h.done {
		panic("inline: PopHandle used after Release")
	}
	v, _ := h.core.front()
	return v
}

// Release destroys the front value and commits the pop. Idempotent.
func (h *PopHandle[V]) Release() {
	if h.done {
		return
	}
	h.done = true
	h.core.popFront()
}

// Fifo is a FIFO queue of dispatch-table values with element interface T.
type Fifo[T any] struct {
	tab  vtab.Table[T]
	core fifoCore[T]
}

// NewFifo creates an empty queue over buf.
func NewFifo[T any](buf word.Buf) *Fifo[T] {
	f := &Fifo[T]{}
	f.core = fifoCore[T]{sh: tableShape[T]{&f.tab}, buf: buf}
	return f
}

// PushBack appends v, viewed as T through narrow. When trailing space is
// short the queue compacts first if that alone would make room, and grows
// otherwise. On total failure the error is returned and v stays with the
// caller; on success ownership of v moves into the buffer.
func PushBack[T, U any](f *Fifo[T], v U, narrow func(*U) T) error {
	d := vtab.Register(&f.tab, narrow)
	e := f.tab.Lookup(d)
	vtab.CheckAlign(e.Align(), f.core.buf.WordSize())
	src := vtab.CheckRef(e, &v, narrow)
	_, data, _, err := f.core.reserve(d, e.Size())
	if err != nil {
		return err
	}
	copyIn(data, src, e.Size())
	return nil
}

// Front returns the oldest value, or false when empty.
func (f *Fifo[T]) Front() (T, bool) { return f.core.front() }

// PopFront hands out the front frame for a peek-then-commit read, or false
// when empty.
func (f *Fifo[T]) PopFront() (*PopHandle[T], bool) {
	if f.core.empty() {
		return nil, false
	}
	return &PopHandle[T]{core: &f.core}, true
}

// Retain destroys every value the predicate rejects and keeps the rest in
// order. Each rejected value is destroyed exactly once, during the call.
func (f *Fifo[T]) Retain(pred func(T) bool) { f.core.retain(pred) }

// Compact slides the live region to the start of the buffer.
func (f *Fifo[T]) Compact() { f.core.compact() }

// Empty reports whether the queue holds no frames.
func (f *Fifo[T]) Empty() bool { return f.core.empty() }

// Len counts the stored frames.
func (f *Fifo[T]) Len() int { return f.core.length() }

// Iter yields values oldest first.
func (f *Fifo[T]) Iter() iter.Seq[T] { return f.core.iterate() }

// Drop pops every frame, destroying each value exactly once.
func (f *Fifo[T]) Drop() { f.core.drain() }

func (f *Fifo[T]) String() string { return formatFrames(f.Iter()) }
