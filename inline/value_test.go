package inline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickwritereader/inlay/word"
)

func TestValue_RoundTrip(t *testing.T) {
	n := num(123456)
	val, err := NewValue(word.NewFixed(2, word.U64), n, func(n *num) fmt.Stringer { return n })
	require.NoError(t, err)

	got, ok := val.Get()
	require.True(t, ok)
	assert.Equal(t, "123456", got.String())
}

func TestValue_EmptyThenReplace(t *testing.T) {
	val := NewEmptyValue[fmt.Stringer](fixed8())
	assert.True(t, val.Empty())
	_, ok := val.Get()
	assert.False(t, ok)

	n := num(7)
	require.NoError(t, Replace(val, n, func(n *num) fmt.Stringer { return n }))
	got, ok := val.Get()
	require.True(t, ok)
	assert.Equal(t, "7", got.String())
}

func TestValue_Replace(t *testing.T) {
	n := num(1234)
	val, err := NewValue(fixed8(), n, func(n *num) fmt.Stringer { return n })
	require.NoError(t, err)

	m := num(5678)
	require.NoError(t, Replace(val, m, func(n *num) fmt.Stringer { return n }))
	got, ok := val.Get()
	require.True(t, ok)
	assert.Equal(t, "5678", got.String())
}

// Replace verifies size before destroying: a capacity failure leaves the old
// value live and untouched.
func TestValue_ReplaceKeepsOldOnCapacityFailure(t *testing.T) {
	resetDrops(4)
	val, err := NewValue(word.NewFixed(2, word.U64), tracked{id: 1}, asTagged)
	require.NoError(t, err)

	big := words8{1, 2, 3}
	err = Replace(val, big, func(b *words8) tagged { return b })
	assert.ErrorIs(t, err, word.ErrCapacity)

	got, ok := val.Get()
	require.True(t, ok)
	assert.Equal(t, 1, got.Tag(), "old value must survive the failed replace")
	assert.Equal(t, 0, dropLog[1], "old value must not be destroyed by the failed replace")

	val.Drop()
	assert.Equal(t, 1, dropLog[1])
}

// Holder sized so the first frame fills it to the word: the exact fit is
// accepted, one more word is not and the rejected value comes back unchanged.
func TestValue_CapacityBoundary(t *testing.T) {
	exact := words7{1, 2, 3, 4, 5, 6, 7} // 7 data words + 1 descriptor word
	val, err := NewValue(fixed8(), exact, func(b *words7) tagged { return b })
	require.NoError(t, err)
	got, ok := val.Get()
	require.True(t, ok)
	assert.Equal(t, 28, got.Tag())

	over := words8{1, 2, 3}
	_, err = NewValue(fixed8(), over, func(b *words8) tagged { return b })
	assert.ErrorIs(t, err, word.ErrCapacity)
	assert.Equal(t, words8{1, 2, 3}, over, "rejected value must be unchanged")
}

func TestValue_DropOnce(t *testing.T) {
	resetDrops(4)
	val, err := NewValue(fixed8(), tracked{id: 2}, asTagged)
	require.NoError(t, err)

	val.Drop()
	val.Drop() // second drop is a no-op
	assert.Equal(t, 1, dropLog[2])
}

func TestValueOr_FallsBackToHeap(t *testing.T) {
	big := words16{42}
	val := NewValueOr(word.NewFixed(2, word.U64), big, func(b *words16) tagged { return b })
	got, ok := val.Get()
	require.True(t, ok)
	assert.Equal(t, 42, got.Tag())
}

func TestStrValue_RoundTripAppendTruncate(t *testing.T) {
	v, err := NewStr(word.NewFixed(32, word.U8), "Hello, World")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World", v.Str())

	v.Truncate(5)
	assert.Equal(t, "Hello", v.Str())

	require.NoError(t, v.AppendStr("!!"))
	assert.Equal(t, "Hello!!", v.Str())

	// Truncate never grows.
	v.Truncate(100)
	assert.Equal(t, "Hello!!", v.Str())
}

func TestStrValue_AppendPastCapacity(t *testing.T) {
	v, err := NewStr(word.NewFixed(16, word.U8), "FooBar")
	require.NoError(t, err)

	err = v.AppendStr("0123456789")
	assert.ErrorIs(t, err, word.ErrCapacity)
	assert.Equal(t, "FooBar", v.Str(), "failed append must not be visible")
}

func TestStrValue_GrowableAppend(t *testing.T) {
	v, err := NewStr(word.NewHeap(word.U8), "Foo")
	require.NoError(t, err)
	require.NoError(t, v.AppendStr("Bar"))
	assert.Equal(t, "FooBar", v.Str())
}

func TestSliceValue_AppendPopExtend(t *testing.T) {
	v, err := EmptySlice[int32](word.NewHeap(word.U32))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())

	require.NoError(t, v.Append(10))
	require.NoError(t, v.Append(20))
	n, err := v.Extend(func(yield func(int32) bool) {
		for i := int32(30); i <= 50; i += 10 {
			if !yield(i) {
				return
			}
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int32{10, 20, 30, 40, 50}, v.Slice())

	item, ok := v.Pop()
	require.True(t, ok)
	assert.Equal(t, int32(50), item)
	assert.Equal(t, 4, v.Len())
}

func TestSliceValue_TruncateDropsTail(t *testing.T) {
	resetDrops(8)
	v, err := NewSlice(word.NewHeap(word.U64), []tracked{{id: 0}, {id: 1}, {id: 2}, {id: 3}})
	require.NoError(t, err)

	v.Truncate(2)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []int{0, 0, 1, 1, 0, 0, 0, 0}, dropLog)

	v.Drop()
	assert.Equal(t, []int{1, 1, 1, 1, 0, 0, 0, 0}, dropLog)
}

func TestSliceValue_PopTransfersOwnership(t *testing.T) {
	resetDrops(4)
	v, err := NewSlice(word.NewHeap(word.U64), []tracked{{id: 0}, {id: 1}})
	require.NoError(t, err)

	item, ok := v.Pop()
	require.True(t, ok)
	assert.Equal(t, int32(1), item.id)

	v.Drop()
	// The popped element moved to the caller; the holder never dropped it.
	assert.Equal(t, []int{1, 0, 0, 0}, dropLog)
}
