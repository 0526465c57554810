package renderer

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/runes/encoding"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/jmath"
	"honnef.co/go/runes/profiler"
	"honnef.co/go/runes/scene"
)

// fakeEngine records what it is asked to do and returns blank images for
// downloads.
type fakeEngine struct {
	compiled   []Program
	recordings []*Recording
	compileErr error
	runErr     error
	released   bool
}

func (e *fakeEngine) Compile(p Program) error {
	if e.compileErr != nil {
		return e.compileErr
	}
	e.compiled = append(e.compiled, p)
	return nil
}

func (e *fakeEngine) RunRecording(rec *Recording, pgroup profiler.ProfilerGroup) ([]*image.RGBA, error) {
	if e.runErr != nil {
		return nil, e.runErr
	}
	e.recordings = append(e.recordings, rec)
	var out []*image.RGBA
	for _, cmd := range rec.Commands {
		if d, ok := cmd.(*Download); ok {
			out = append(out, image.NewRGBA(image.Rect(0, 0, int(d.Image.Width), int(d.Image.Height))))
		}
	}
	return out, nil
}

func (e *fakeEngine) Release() { e.released = true }

func newTestSession(t *testing.T, eng Engine) *Session {
	t.Helper()
	s, err := NewSession(eng, geometry.Default().Registry, Config{ViewportSize: 4, Antialias: 2}, nil)
	require.NoError(t, err)
	return s
}

func TestPrepareUploadsPoolsOnce(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)
	require.NoError(t, s.Prepare(ProgramPlain))
	require.NoError(t, s.Prepare(ProgramEye))
	require.NoError(t, s.Prepare(ProgramPlain))

	assert.Equal(t, []Program{ProgramPlain, ProgramEye}, eng.compiled)
	require.Len(t, eng.recordings, 1)
	cmds := eng.recordings[0].Commands
	require.Len(t, cmds, 2)
	for _, cmd := range cmds {
		up := cmd.(*Upload)
		assert.Equal(t, HintStatic, up.Hint)
	}
	assert.Equal(t, StatePrepared, s.State())
}

func TestDrawPlainFreshBufferPerBatch(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)

	r := scene.Beside(scene.Heart, scene.Stack(scene.Circle, scene.Heart))
	batches := encoding.Flatten(r)
	require.Len(t, batches, 3)

	img, err := s.DrawPlain(batches)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	rec := eng.recordings[len(eng.recordings)-1]
	seen := make(map[ResourceID]bool)
	var draws int
	for i, cmd := range rec.Commands {
		switch cmd := cmd.(type) {
		case *Upload:
			assert.Equal(t, HintStream, cmd.Hint)
			assert.False(t, seen[cmd.Buffer.ID], "buffer reused")
			seen[cmd.Buffer.ID] = true
			next := rec.Commands[i+1].(*DrawInstanced)
			assert.Equal(t, cmd.Buffer, next.Instances)
			free := rec.Commands[i+2].(*FreeBuffer)
			assert.Equal(t, cmd.Buffer, free.Buffer)
			assert.Len(t, cmd.Data, int(next.InstanceCount)*encoding.BytesPerInstance)
		case *DrawInstanced:
			draws++
			assert.Equal(t, ProgramPlain, cmd.Program)
		}
	}
	assert.Equal(t, 3, draws)

	// a second frame never reuses the first frame's buffers
	_, err = s.DrawPlain(batches)
	require.NoError(t, err)
	for _, cmd := range eng.recordings[len(eng.recordings)-1].Commands {
		if up, ok := cmd.(*Upload); ok {
			assert.False(t, seen[up.Buffer.ID])
		}
	}
}

func TestDrawStereoRecording(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)
	left, right := CameraPair(0.03, -0.4)

	_, err := s.DrawStereo(encoding.Flatten(scene.Circle), left, right)
	require.NoError(t, err)

	cmds := eng.recordings[len(eng.recordings)-1].Commands
	clears := 0
	var targets []ResourceID
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case *BeginPass:
			assert.True(t, cmd.Clear)
			clears++
		case *DrawInstanced:
			assert.Equal(t, ProgramEye, cmd.Program)
			targets = append(targets, cmd.Target.ID)
			if cmd.Target == s.comp.Left() {
				assert.Equal(t, LeftFilter, cmd.Uniforms.Filter)
			} else {
				assert.Equal(t, RightFilter, cmd.Uniforms.Filter)
			}
		}
	}
	assert.Equal(t, 2, clears)
	// background and circle, once per eye
	assert.Equal(t, []ResourceID{s.comp.Left().ID, s.comp.Left().ID, s.comp.Right().ID, s.comp.Right().ID}, targets)

	combine := cmds[len(cmds)-2].(*Combine)
	assert.Equal(t, s.comp.Screen(), combine.Dst)
	assert.Equal(t, &Download{s.comp.Screen()}, cmds[len(cmds)-1])
}

func TestDrawSequenceOneDownloadPerCamera(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)
	cams := SweepCameras(4, 0.03, -0.4)
	frames, err := s.DrawSequence(encoding.Flatten(scene.Square), cams)
	require.NoError(t, err)
	assert.Len(t, frames, 4)

	var cams2 []mgl32.Mat4
	for _, cmd := range eng.recordings[len(eng.recordings)-1].Commands {
		if d, ok := cmd.(*DrawInstanced); ok && d.InstanceCount == 1 && d.Uniforms.Filter == NeutralFilter {
			cams2 = append(cams2, d.Uniforms.Camera)
		}
	}
	// background and square batches per frame
	assert.Len(t, cams2, 8)
}

func TestCompileFailureIsSticky(t *testing.T) {
	cerr := &ShaderCompilationError{Program: ProgramEye, Log: "syntax error"}
	eng := &fakeEngine{compileErr: cerr}
	s := newTestSession(t, eng)

	_, err := s.DrawPlain(nil)
	var got *ShaderCompilationError
	require.True(t, errors.As(err, &got))
	assert.Same(t, cerr, got)

	eng.compileErr = nil
	_, err = s.DrawPlain(nil)
	assert.ErrorAs(t, err, &got, "device errors are not retried")

	require.NoError(t, s.Reset())
	_, err = s.DrawPlain(nil)
	assert.NoError(t, err)
}

func TestFramebufferFailure(t *testing.T) {
	ferr := &FramebufferError{Reason: "incomplete"}
	eng := &fakeEngine{}
	s := newTestSession(t, eng)
	require.NoError(t, s.Prepare(ProgramPlain))
	eng.runErr = ferr

	_, err := s.DrawPlain(encoding.Flatten(scene.Square))
	assert.ErrorIs(t, err, ferr)
	assert.Equal(t, StateIdle, s.State())
}

func TestNoEngine(t *testing.T) {
	s := newTestSession(t, nil)
	assert.ErrorIs(t, s.Prepare(ProgramPlain), ErrRenderContextUnavailable)
	_, err := s.DrawStereo(nil, Eye{}, Eye{})
	assert.ErrorIs(t, err, ErrRenderContextUnavailable)
}

func TestCloseReleasesEngine(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)
	s.Close()
	assert.True(t, eng.released)
	_, err := s.DrawSequence(nil, nil)
	assert.ErrorIs(t, err, ErrRenderContextUnavailable)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())
	assert.Error(t, Config{ViewportSize: 0, Antialias: 1}.Validate())
	assert.Error(t, Config{ViewportSize: 10, Antialias: 0}.Validate())
	assert.EqualError(t, Config{ViewportSize: 8192, Antialias: 4}.Validate(),
		"viewport size 8192 with antialias factor 4 gives target size 32768, exceeding 16384")
	assert.NoError(t, Config{ViewportSize: 4096, Antialias: 4}.Validate())
	_, err := NewSession(nil, nil, Config{}, nil)
	assert.Error(t, err)
}

func TestCameras(t *testing.T) {
	left, right := CameraPair(0.03, -0.4)
	assert.Equal(t, LookAt(-0.03, -0.4), left.Camera)
	assert.Equal(t, LookAt(0.03, -0.4), right.Camera)

	cams := SweepCameras(5, 0.03, -0.4)
	require.Len(t, cams, 5)
	assert.True(t, jmath.ApproxEqual(left.Camera, cams[0], 1e-6))
	assert.True(t, jmath.ApproxEqual(right.Camera, cams[4], 1e-6))
	assert.True(t, jmath.ApproxEqual(LookAt(0, -0.4), cams[2], 1e-6))

	// the centre camera looks straight down -z
	assert.True(t, jmath.ApproxEqual(jmath.Identity, LookAt(0, -0.4), 1e-6))
}

func TestResolve(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	dst := Resolve(src, 2)
	assert.Equal(t, image.Rect(0, 0, 2, 2), dst.Bounds())
	assert.InDelta(t, 200, dst.Pix[0], 1)
	assert.Same(t, src, Resolve(src, 8))
}
