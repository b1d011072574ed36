package inline

import (
	"iter"
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// StrFifo is a FIFO queue of character sequences.
type StrFifo struct {
	core fifoCore[string]
}

// NewStrFifo creates an empty string queue over buf.
func NewStrFifo(buf word.Buf) *StrFifo {
	return &StrFifo{core: fifoCore[string]{sh: strShape{}, buf: buf}}
}

// PushStr copies the contents of s into the queue as one frame.
func (f *StrFifo) PushStr(v string) error {
	_, data, _, err := f.core.reserve(uint64(len(v)), len(v))
	if err != nil {
		return err
	}
	copy(data, v)
	return nil
}

func (f *StrFifo) Front() (string, bool) { return f.core.front() }

func (f *StrFifo) PopFront() (*PopHandle[string], bool) {
	if f.core.empty() {
		return nil, false
	}
	return &PopHandle[string]{core: &f.core}, true
}

func (f *StrFifo) Retain(pred func(string) bool) { f.core.retain(pred) }
func (f *StrFifo) Compact()                      { f.core.compact() }
func (f *StrFifo) Empty() bool                   { return f.core.empty() }
func (f *StrFifo) Len() int                      { return f.core.length() }
func (f *StrFifo) Iter() iter.Seq[string]        { return f.core.iterate() }
func (f *StrFifo) Drop()                         { f.core.drain() }
func (f *StrFifo) String() string                { return formatFrames(f.Iter()) }

// SliceFifo is a FIFO queue whose frames are packed runs of I.
type SliceFifo[I any] struct {
	core fifoCore[[]I]
}

// NewSliceFifo creates an empty slice queue over buf. The element type must
// be plain data and must not require stricter alignment than the buffer's
// words; both are checked here and violations panic.
func NewSliceFifo[I any](buf word.Buf) *SliceFifo[I] {
	vtab.CheckPlainData[I]()
	vtab.CheckAlign(alignOf[I](), buf.WordSize())
	return &SliceFifo[I]{core: fifoCore[[]I]{sh: newSliceShape[I](), buf: buf}}
}

// PushCopied appends a raw copy of src as one frame.
func (f *SliceFifo[I]) PushCopied(src []I) error {
	sh := f.core.sh.(sliceShape[I])
	_, data, _, err := f.core.reserve(uint64(len(src)), len(src)*sh.elemSize)
	if err != nil {
		return err
	}
	if len(src) > 0 {
		copyIn(data, unsafe.Pointer(&src[0]), len(src)*sh.elemSize)
	}
	return nil
}

// PushCloned appends clone(src[i]) for each element as one frame. A panic
// out of clone rolls the push back: elements already written are dropped and
// the queue reports its pre-push state before the panic resumes.
func (f *SliceFifo[I]) PushCloned(src []I, clone func(I) I) error {
	return f.pushGen(len(src), func(i int) I { return clone(src[i]) })
}

// PushSeq appends n elements drawn from seq as one frame. The sequence
// ending before n elements is a contract violation; the resulting panic
// rolls the push back like PushCloned.
func (f *SliceFifo[I]) PushSeq(n int, seq iter.Seq[I]) error {
	next, stop := iter.Pull(seq)
	defer stop()
	return f.pushGen(n, func(int) I {
		v, ok := next()
		if !ok {
			panic("inline: sequence ended before the declared element count")
		}
		return v
	})
}

func (f *SliceFifo[I]) pushGen(n int, gen func(int) I) error {
	sh := f.core.sh.(sliceShape[I])
	meta, data, prev, err := f.core.reserve(0, n*sh.elemSize)
	if err != nil {
		return err
	}
	fillFrame(meta, unsafe.Pointer(unsafe.SliceData(data)), n, gen, sh.elemDrop, &f.core.write, prev)
	return nil
}

func (f *SliceFifo[I]) Front() ([]I, bool) { return f.core.front() }

func (f *SliceFifo[I]) PopFront() (*PopHandle[[]I], bool) {
	if f.core.empty() {
		return nil, false
	}
	return &PopHandle[[]I]{core: &f.core}, true
}

func (f *SliceFifo[I]) Retain(pred func([]I) bool) { f.core.retain(pred) }
func (f *SliceFifo[I]) Compact()                   { f.core.compact() }
func (f *SliceFifo[I]) Empty() bool                { return f.core.empty() }
func (f *SliceFifo[I]) Len() int                   { return f.core.length() }
func (f *SliceFifo[I]) Iter() iter.Seq[[]I]        { return f.core.iterate() }
func (f *SliceFifo[I]) Drop()                      { f.core.drain() }
func (f *SliceFifo[I]) String() string             { return formatFrames(f.Iter()) }
