package mem

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocReset(t *testing.T) {
	var a Arena[float32]
	x := a.Alloc(20)
	require.Len(t, x, 20)
	for i := range x {
		x[i] = float32(i)
	}
	y := a.Alloc(20)
	assert.Equal(t, make([]float32, 20), y, "fresh allocations are zeroed")
	assert.Equal(t, 40, a.InUse())

	a.Reset()
	assert.Equal(t, 0, a.InUse())
	z := a.Alloc(20)
	assert.Equal(t, make([]float32, 20), z, "reused memory is zeroed")
}

func TestArenaOversized(t *testing.T) {
	var a Arena[uint16]
	big := a.Alloc(slabSize + 1)
	assert.Len(t, big, slabSize+1)
	small := a.Alloc(3)
	assert.Len(t, small, 3)
	a.Reset()
	assert.Equal(t, 0, a.InUse())
}

func TestArenaAppend(t *testing.T) {
	var a Arena[float32]
	var s []float32
	for i := range 100 {
		s = a.Append(s, float32(i), float32(-i))
	}
	require.Len(t, s, 200)
	assert.Equal(t, float32(99), s[198])
	assert.Equal(t, float32(-99), s[199])
}

func TestSortedMap(t *testing.T) {
	var m SortedMap[uint64, string]
	m.Insert(3, "c")
	m.Insert(1, "a")
	m.Insert(2, "b")
	m.Insert(2, "B")

	v, ok := m.Get(2)
	require.True(t, ok)
	assert.Equal(t, "B", v)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"a", "B", "c"}, slices.Collect(m.Values()))

	assert.True(t, m.Delete(1))
	assert.False(t, m.Delete(1))
	_, ok = m.Get(1)
	assert.False(t, ok)

	m.Clear()
	assert.Equal(t, 0, m.Len())
}
