package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/gfx"
	"honnef.co/go/runes/jmath"
)

// Eye filters. The combine program's arithmetic assumes the red/cyan pair.
var (
	LeftFilter    = gfx.RGBA{1, 0, 0, 1}
	RightFilter   = gfx.RGBA{0, 1, 1, 1}
	NeutralFilter = gfx.RGBA{1, 1, 1, 1}
)

// Eye is one viewpoint of a stereo or hollusion render.
type Eye struct {
	Camera mgl32.Mat4
	Filter gfx.RGBA
}

func (e Eye) uniforms() EyeUniforms {
	return EyeUniforms(e)
}

// LookAt is the view from (x, 0, 0) toward (0, 0, depth).
func LookAt(x, depth float32) mgl32.Mat4 {
	return mgl32.LookAtV(
		mgl32.Vec3{x, 0, 0},
		mgl32.Vec3{0, 0, depth},
		mgl32.Vec3{0, 1, 0},
	)
}

// CameraPair returns the left and right eyes, halfEye either side of the
// origin.
func CameraPair(halfEye, depth float32) (left, right Eye) {
	left = Eye{LookAt(-halfEye, depth), LeftFilter}
	right = Eye{LookAt(halfEye, depth), RightFilter}
	return left, right
}

// SweepCameras returns n cameras spaced evenly from -halfEye to halfEye.
// n must be at least 2.
func SweepCameras(n int, halfEye, depth float32) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, n)
	for j := range out {
		t := float32(j) / float32(n-1)
		out[j] = LookAt(jmath.Lerp(-halfEye, halfEye, t), depth)
	}
	return out
}
