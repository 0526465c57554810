package samples

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/runes/encoding"
)

func TestAllScenesFlatten(t *testing.T) {
	names := Names()
	assert.True(t, slices.IsSorted(names))
	for _, name := range names {
		r, err := Get(name)
		require.NoError(t, err, name)
		batches := encoding.Flatten(r)
		assert.Greater(t, len(batches), 1, name)
	}
}

func TestList(t *testing.T) {
	all, err := List("")
	require.NoError(t, err)
	assert.Len(t, all, len(Names()))

	some, err := List("heart, cross")
	require.NoError(t, err)
	assert.Len(t, some, 2)

	_, err = List("heart,nope")
	assert.ErrorContains(t, err, "nope")
}
