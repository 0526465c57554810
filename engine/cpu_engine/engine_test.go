package cpu_engine

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/runes/encoding"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/gfx"
	"honnef.co/go/runes/jmath"
	"honnef.co/go/runes/mem"
	"honnef.co/go/runes/profiler"
	"honnef.co/go/runes/renderer"
	"honnef.co/go/runes/scene"
)

func newSession(t *testing.T, size, aa int) (*renderer.Session, *Engine) {
	t.Helper()
	eng := New(nil)
	s, err := renderer.NewSession(eng, geometry.Default().Registry, renderer.Config{ViewportSize: size, Antialias: aa}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, eng
}

func assertColor(t *testing.T, want gfx.RGBA, got color.RGBA, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, quantize(want[0]), got.R, 1, msgAndArgs...)
	assert.InDelta(t, quantize(want[1]), got.G, 1, msgAndArgs...)
	assert.InDelta(t, quantize(want[2]), got.B, 1, msgAndArgs...)
	assert.Equal(t, uint8(255), got.A, msgAndArgs...)
}

var white = gfx.RGBA{1, 1, 1, 1}

func faded(c gfx.RGBA, depth float32) gfx.RGBA {
	for i := range 3 {
		c[i] += depth * (1 - c[i])
	}
	c[3] = 1
	return c
}

func TestPlainSquare(t *testing.T) {
	s, eng := newSession(t, 16, 1)
	img, err := s.DrawPlain(encoding.Flatten(scene.Scale(0.5, scene.Square)))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	assertColor(t, gfx.DefaultColor, img.RGBAAt(8, 8), "centre")
	assertColor(t, gfx.DefaultColor, img.RGBAAt(4, 4), "inner corner")
	assertColor(t, white, img.RGBAAt(0, 0), "outer corner")
	assertColor(t, white, img.RGBAAt(15, 15), "outer corner")
	assertColor(t, white, img.RGBAAt(3, 8), "left of square")

	// only the static pools survive a draw
	assert.Len(t, eng.buffers, 2)
	assert.Equal(t, renderer.StateIdle, s.State())
}

func TestPlainColor(t *testing.T) {
	s, _ := newSession(t, 8, 1)
	img, err := s.DrawPlain(encoding.Flatten(scene.Red(scene.Square)))
	require.NoError(t, err)
	for y := range 8 {
		for x := range 8 {
			assertColor(t, gfx.Red, img.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestTranslateUsesScreenY(t *testing.T) {
	s, _ := newSession(t, 16, 1)
	// positive y moves down
	r := scene.Translate(0, 0.5, scene.Scale(0.5, scene.Square))
	img, err := s.DrawPlain(encoding.Flatten(r))
	require.NoError(t, err)
	assertColor(t, gfx.DefaultColor, img.RGBAAt(8, 12))
	assertColor(t, white, img.RGBAAt(8, 2))
}

func TestOverlayFrontWins(t *testing.T) {
	s, _ := newSession(t, 16, 1)
	front := scene.Red(scene.Scale(0.5, scene.Square))
	back := scene.Blue(scene.Square)

	img, err := s.DrawPlain(encoding.Flatten(scene.Overlay(front, back)))
	require.NoError(t, err)
	assertColor(t, gfx.Red, img.RGBAAt(8, 8))
	// the back layer sits at depth 0.5
	assertColor(t, faded(gfx.Blue, 0.5), img.RGBAAt(1, 1))

	img, err = s.DrawPlain(encoding.Flatten(scene.Overlay(back, front)))
	require.NoError(t, err)
	assertColor(t, gfx.Blue, img.RGBAAt(8, 8))
	assertColor(t, gfx.Blue, img.RGBAAt(1, 1))
}

func TestPlainDepthFade(t *testing.T) {
	s, _ := newSession(t, 16, 1)
	img, err := s.DrawPlain(encoding.Flatten(scene.Overlay(scene.Scale(0.5, scene.Square), scene.Square)))
	require.NoError(t, err)
	assertColor(t, gfx.DefaultColor, img.RGBAAt(8, 8))
	got := img.RGBAAt(1, 1)
	assert.InDelta(t, 128, got.R, 2)
	assert.Equal(t, got.R, got.G)
	assert.Equal(t, got.R, got.B)
	assert.Equal(t, uint8(255), got.A)
}

func TestPlainVertexFade(t *testing.T) {
	var arena mem.Arena[float32]
	instances := encoding.EncodeInstances(&arena, encoding.Batch{Instances: []encoding.Instance{{
		Transform: jmath.Translate(0, 0, -0.25),
		Color:     gfx.RGBA{0.2, 0.4, 1, 0.5},
	}}})
	d := &drawInputs{
		vertices:  []float32{0, 0, 0, 1},
		instances: instances,
	}
	v := plainVertex(d, 0, 0)
	assert.InDelta(t, 0.25, v.pos.Z(), 1e-6)
	assert.InDelta(t, 0.4, v.color[0], 1e-6)
	assert.InDelta(t, 0.55, v.color[1], 1e-6)
	assert.InDelta(t, 1, v.color[2], 1e-6)
	assert.Equal(t, float32(1), v.color[3])
}

func TestSupersampledOutputSize(t *testing.T) {
	s, _ := newSession(t, 8, 3)
	img, err := s.DrawPlain(encoding.Flatten(scene.Heart))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestStereoBlackSquare(t *testing.T) {
	s, _ := newSession(t, 32, 1)
	left, right := renderer.CameraPair(0.03, -0.4)
	img, err := s.DrawStereo(encoding.Flatten(scene.Scale(0.5, scene.Square)), left, right)
	require.NoError(t, err)

	assertColor(t, gfx.RGBA{0, 0, 0, 1}, img.RGBAAt(16, 16))
	assertColor(t, white, img.RGBAAt(0, 0))
	assertColor(t, white, img.RGBAAt(31, 31))
}

func TestStereoSwapSymmetry(t *testing.T) {
	s, _ := newSession(t, 32, 2)
	left, right := renderer.CameraPair(0.03, -0.4)
	r := scene.Overlay(
		scene.Red(scene.Scale(0.6, scene.Heart)),
		scene.Beside(scene.Green(scene.Ribbon), scene.Pentagram),
	)
	batches := encoding.Flatten(r)

	a, err := s.DrawStereo(batches, left, right)
	require.NoError(t, err)
	b, err := s.DrawStereo(batches, right, left)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestSequence(t *testing.T) {
	s, _ := newSession(t, 16, 1)
	cams := renderer.SweepCameras(5, 0.03, -0.4)
	frames, err := s.DrawSequence(encoding.Flatten(scene.Scale(0.5, scene.Circle)), cams)
	require.NoError(t, err)
	require.Len(t, frames, 5)
	for _, f := range frames {
		assert.Equal(t, image.Rect(0, 0, 16, 16), f.Bounds())
		assertColor(t, gfx.DefaultColor, f.RGBAAt(8, 8))
	}
}

func TestDepthFadesTowardWhite(t *testing.T) {
	s, _ := newSession(t, 16, 1)
	// the back half of an overlay sits at depth 0.5, so black fades to grey
	r := scene.Overlay(scene.Blank, scene.Square)
	cams := renderer.SweepCameras(2, 0, -0.4)
	frames, err := s.DrawSequence(encoding.Flatten(r), cams[:1])
	require.NoError(t, err)
	got := frames[0].RGBAAt(8, 8)
	assert.InDelta(t, 128, got.R, 2)
	assert.Equal(t, got.R, got.G)
	assert.Equal(t, got.R, got.B)
}

func TestUnknownProgram(t *testing.T) {
	eng := New(nil)
	err := eng.Compile(renderer.Program(99))
	var serr *renderer.ShaderCompilationError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, renderer.Program(99), serr.Program)
}

func TestFramebufferError(t *testing.T) {
	eng := New(nil)
	var rec renderer.Recording
	rec.BeginPass(renderer.NewImageProxy(0, 4), true, white)
	_, err := eng.RunRecording(&rec, profiler.Nop{})
	var ferr *renderer.FramebufferError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, uint32(4), ferr.Height)
}

func TestCombineSizeMismatch(t *testing.T) {
	eng := New(nil)
	require.NoError(t, eng.Compile(renderer.ProgramCombine))
	var rec renderer.Recording
	rec.Combine(renderer.NewImageProxy(4, 4), renderer.NewImageProxy(4, 4), renderer.NewImageProxy(8, 8))
	_, err := eng.RunRecording(&rec, profiler.Nop{})
	var ferr *renderer.FramebufferError
	assert.True(t, errors.As(err, &ferr))
}

func TestCombinePixels(t *testing.T) {
	dst := make([]uint8, 8)
	combinePixels(dst, []uint8{0, 255, 255, 255, 200, 10, 128, 0}, []uint8{255, 0, 0, 255, 100, 10, 128, 0})
	assert.Equal(t, []uint8{0, 0, 0, 255, 45, 0, 1, 255}, dst)
}

func TestReleasedEngine(t *testing.T) {
	s, _ := newSession(t, 8, 1)
	s.Close()
	_, err := s.DrawPlain(encoding.Flatten(scene.Square))
	assert.ErrorIs(t, err, renderer.ErrRenderContextUnavailable)

	eng := New(nil)
	eng.Release()
	assert.ErrorIs(t, eng.Compile(renderer.ProgramPlain), renderer.ErrRenderContextUnavailable)
	_, err = eng.RunRecording(&renderer.Recording{}, profiler.Nop{})
	assert.ErrorIs(t, err, renderer.ErrRenderContextUnavailable)
}

func TestResetRecreatesTargets(t *testing.T) {
	s, eng := newSession(t, 8, 1)
	_, err := s.DrawPlain(encoding.Flatten(scene.Square))
	require.NoError(t, err)
	require.NoError(t, s.Reset())
	assert.Empty(t, eng.buffers)
	assert.Empty(t, eng.targets)

	img, err := s.DrawPlain(encoding.Flatten(scene.Square))
	require.NoError(t, err)
	assertColor(t, gfx.DefaultColor, img.RGBAAt(4, 4))
}
