package inline

import (
	"iter"
	"unsafe"

	"github.com/quickwritereader/inlay/vtab"
	"github.com/quickwritereader/inlay/word"
)

// StrStack is a LIFO of character sequences.
type StrStack struct {
	core stackCore[string]
}

// NewStrStack creates an empty string stack over buf.
func NewStrStack(buf word.Buf) *StrStack {
	return &StrStack{core: stackCore[string]{sh: strShape{}, buf: buf}}
}

// PushStr copies the contents of s onto the stack as one frame.
func (s *StrStack) PushStr(v string) error {
	_, data, _, err := s.core.reserve(uint64(len(v)), len(v))
	if err != nil {
		return err
	}
	copy(data, v)
	return nil
}

func (s *StrStack) Top() (string, bool)    { return s.core.top() }
func (s *StrStack) Pop()                   { s.core.pop() }
func (s *StrStack) Empty() bool            { return s.core.empty() }
func (s *StrStack) Len() int               { return s.core.length() }
func (s *StrStack) Iter() iter.Seq[string] { return s.core.iterate() }
func (s *StrStack) Drop()                  { s.core.drain() }
func (s *StrStack) String() string         { return formatFrames(s.Iter()) }

// SliceStack is a LIFO whose frames are packed runs of I.
type SliceStack[I any] struct {
	core stackCore[[]I]
}

// NewSliceStack creates an empty slice stack over buf. The element type must
// be plain data and must not require stricter alignment than the buffer's
// words; both are checked here and violations panic.
func NewSliceStack[I any](buf word.Buf) *SliceStack[I] {
	vtab.CheckPlainData[I]()
	vtab.CheckAlign(alignOf[I](), buf.WordSize())
	return &SliceStack[I]{core: stackCore[[]I]{sh: newSliceShape[I](), buf: buf}}
}

// PushCopied pushes a raw copy of src as one frame.
func (s *SliceStack[I]) PushCopied(src []I) error {
	sh := s.core.sh.(sliceShape[I])
	_, data, _, err := s.core.reserve(uint64(len(src)), len(src)*sh.elemSize)
	if err != nil {
		return err
	}
	if len(src) > 0 {
		copyIn(data, unsafe.Pointer(&src[0]), len(src)*sh.elemSize)
	}
	return nil
}

// PushCloned pushes clone(src[i]) for each element as one frame. A panic out
// of clone rolls the push back: elements already written are dropped and the
// stack reports its pre-push state before the panic resumes.
func (s *SliceStack[I]) PushCloned(src []I, clone func(I) I) error {
	return s.pushGen(len(src), func(i int) I { return clone(src[i]) })
}

// PushSeq pushes n elements drawn from seq as one frame. The sequence ending
// before n elements is a contract violation; the resulting panic rolls the
// push back like PushCloned.
func (s *SliceStack[I]) PushSeq(n int, seq iter.Seq[I]) error {
	next, stop := iter.Pull(seq)
	defer stop()
	return s.pushGen(n, func(int) I {
		v, ok := next()
		if !ok {
			panic("inline: sequence ended before the declared element count")
		}
		return v
	})
}

func (s *SliceStack[I]) pushGen(n int, gen func(int) I) error {
	sh := s.core.sh.(sliceShape[I])
	meta, data, prev, err := s.core.reserve(0, n*sh.elemSize)
	if err != nil {
		return err
	}
	fillFrame(meta, unsafe.Pointer(unsafe.SliceData(data)), n, gen, sh.elemDrop, &s.core.next, prev)
	return nil
}

func (s *SliceStack[I]) Top() ([]I, bool)    { return s.core.top() }
func (s *SliceStack[I]) Pop()                { s.core.pop() }
func (s *SliceStack[I]) Empty() bool         { return s.core.empty() }
func (s *SliceStack[I]) Len() int            { return s.core.length() }
func (s *SliceStack[I]) Iter() iter.Seq[[]I] { return s.core.iterate() }
func (s *SliceStack[I]) Drop()               { s.core.drain() }
func (s *SliceStack[I]) String() string      { return formatFrames(s.Iter()) }
