package wgpu_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/runes/encoding"
	"honnef.co/go/runes/engine/wgpu_engine/shaders"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/profiler"
	"honnef.co/go/runes/renderer"
	"honnef.co/go/runes/scene"
)

func newSession(t *testing.T) *renderer.Session {
	t.Helper()
	eng, err := NewHeadless(nil)
	if err != nil {
		t.Skipf("no GPU available: %s", err)
	}
	s, err := renderer.NewSession(eng, geometry.Default().Registry, renderer.Config{ViewportSize: 32, Antialias: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestCompileEveryProgram(t *testing.T) {
	eng, err := NewHeadless(nil)
	if err != nil {
		t.Skipf("no GPU available: %s", err)
	}
	defer eng.Release()
	for _, p := range renderer.Programs {
		assert.NoError(t, eng.Compile(p), "%s", p)
	}
}

func TestNewHeadless(t *testing.T) {
	eng, err := NewHeadless(nil)
	if err != nil {
		assert.ErrorIs(t, err, renderer.ErrRenderContextUnavailable)
		t.Skipf("no GPU available: %s", err)
	}
	defer eng.Release()
	assert.True(t, eng.ownsDevice)
	assert.NotNil(t, eng.queue)
}

func TestPlainOnGPU(t *testing.T) {
	s := newSession(t)
	img, err := s.DrawPlain(encoding.Flatten(scene.Scale(0.5, scene.Square)))
	require.NoError(t, err)
	c := img.RGBAAt(16, 16)
	assert.Equal(t, uint8(0), c.R)
	c = img.RGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
}

func TestStereoSwapSymmetryOnGPU(t *testing.T) {
	s := newSession(t)
	left, right := renderer.CameraPair(0.03, -0.4)
	batches := encoding.Flatten(scene.Overlay(scene.Red(scene.Heart), scene.Blue(scene.Circle)))
	a, err := s.DrawStereo(batches, left, right)
	require.NoError(t, err)
	b, err := s.DrawStereo(batches, right, left)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestFailedRecordingFreesBuffers(t *testing.T) {
	eng, err := NewHeadless(nil)
	if err != nil {
		t.Skipf("no GPU available: %s", err)
	}
	defer eng.Release()

	var rec renderer.Recording
	verts := rec.Upload("vertices", renderer.UsageVertex, renderer.HintStatic, make([]byte, 64))
	insts := rec.Upload("instances", renderer.UsageInstance, renderer.HintStream, make([]byte, 64))
	// nothing has been compiled, so the draw fails
	rec.DrawInstanced(renderer.DrawInstanced{
		Program:   renderer.ProgramPlain,
		Target:    renderer.NewImageProxy(8, 8),
		Vertices:  verts,
		Instances: insts,
	})
	rec.FreeBuffer(verts)
	rec.FreeBuffer(insts)

	_, err = eng.RunRecording(&rec, profiler.Nop{})
	require.Error(t, err)
	assert.Zero(t, eng.buffers.Len())
}

func TestShaderCollection(t *testing.T) {
	for _, p := range renderer.Programs {
		s, ok := shaderFor(p)
		require.True(t, ok, "%s", p)
		assert.NotEmpty(t, s.WGSL.Code)
		assert.Contains(t, string(s.WGSL.Code), "fn vs_main")
		assert.Contains(t, string(s.WGSL.Code), "fn fs_main")
	}
	_, ok := shaderFor(renderer.Program(0))
	assert.False(t, ok)
	assert.Equal(t, []shaders.BindType{shaders.Uniform}, shaders.Collection.Eye.Bindings)
}

func TestPoolSizeClass(t *testing.T) {
	assert.Equal(t, uint64(2), poolSizeClass(1, 1))
	assert.Equal(t, uint64(2), poolSizeClass(2, 1))
	assert.Equal(t, uint64(4), poolSizeClass(3, 1))
	assert.Equal(t, uint64(6), poolSizeClass(5, 1))
	assert.Equal(t, uint64(8), poolSizeClass(7, 1))
	assert.Equal(t, uint64(12), poolSizeClass(9, 1))
}
