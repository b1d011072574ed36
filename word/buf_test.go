package word

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 0, Round(0, U64))
	assert.Equal(t, 1, Round(1, U64))
	assert.Equal(t, 1, Round(8, U64))
	assert.Equal(t, 2, Round(9, U64))
	assert.Equal(t, 3, Round(3, U8))
	assert.Equal(t, 2, Round(3, U16))
	assert.Equal(t, 1, Round(3, U32))
}

func TestFixed_ExtendBounds(t *testing.T) {
	b := NewFixed(8, U64)
	assert.Equal(t, 8, b.Words())
	assert.Equal(t, U64, b.WordSize())
	assert.Len(t, b.Bytes(), 64)

	require.NoError(t, b.Extend(0))
	require.NoError(t, b.Extend(8))
	assert.ErrorIs(t, b.Extend(9), ErrCapacity)
	// A failed extend changes nothing.
	assert.Equal(t, 8, b.Words())
}

func TestFixed_ByteWords(t *testing.T) {
	b := NewFixed(10, U8)
	assert.Len(t, b.Bytes(), 10)
	assert.Equal(t, 1, b.WordSize())
	assert.ErrorIs(t, b.Extend(11), ErrCapacity)
}

func TestFixed_BadWordSize(t *testing.T) {
	assert.Panics(t, func() { NewFixed(4, 3) })
	assert.Panics(t, func() { NewFixed(-1, U64) })
}

func TestHeap_GrowPreservesPrefix(t *testing.T) {
	b := NewHeap(U64)
	assert.Equal(t, 0, b.Words())
	assert.Nil(t, b.Bytes())

	require.NoError(t, b.Extend(4))
	require.GreaterOrEqual(t, b.Words(), 4)

	bs := b.Bytes()
	for i := range bs {
		bs[i] = byte(i)
	}
	written := len(bs)

	require.NoError(t, b.Extend(b.Words() * 3))
	require.GreaterOrEqual(t, b.Words()*b.WordSize(), written*3)

	bs = b.Bytes()
	for i := 0; i < written; i++ {
		assert.Equalf(t, byte(i), bs[i], "byte %d not preserved across growth", i)
	}
}

func TestHeap_ExtendNoopWhenLargeEnough(t *testing.T) {
	b := NewHeap(U32)
	require.NoError(t, b.Extend(16))
	w := b.Words()
	require.NoError(t, b.Extend(2))
	assert.Equal(t, w, b.Words())
}

func TestSlabClassIndex(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 0}, {8, 0}, {9, 1}, {16, 1}, {17, 2},
		{4096, 9}, {32768, 12}, {32769, -1},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, classIndex(c.n), "classIndex(%d)", c.n)
	}
}
