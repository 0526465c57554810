package main

import (
	"bytes"
	"image/gif"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/runes"
	"honnef.co/go/runes/engine/cpu_engine"
	"honnef.co/go/runes/scene"
)

func TestGIFDelay(t *testing.T) {
	assert.Equal(t, 10, gifDelay(100*time.Millisecond))
	assert.Equal(t, 1, gifDelay(time.Millisecond))
}

func TestEncodeGIFPlaybackOrder(t *testing.T) {
	cfg := runes.DefaultConfig
	cfg.ViewportSize = 8
	cfg.Antialias = 1
	r, err := runes.New(cpu_engine.New(nil), cfg, nil)
	require.NoError(t, err)
	defer r.Close()

	h, err := r.RenderAnimated(scene.Heart, 5, nil)
	require.NoError(t, err)
	g, err := encodeGIF(h, false)
	require.NoError(t, err)
	require.Len(t, g.Image, 8)
	assert.Same(t, g.Image[1], g.Image[7])
	assert.Same(t, g.Image[3], g.Image[5])
	assert.Equal(t, []int{10, 10, 10, 10, 10, 10, 10, 10}, g.Delay)

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	back, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, back.Image, 8)
}
