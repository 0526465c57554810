package cpu_engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/encoding"
	"honnef.co/go/runes/renderer"
	"honnef.co/go/safeish"
)

const floatsPerVertex = 4

type drawInputs struct {
	vertices  []float32
	indices   []uint16
	instances []float32
	uniforms  renderer.EyeUniforms
}

func (d *drawInputs) vertex(i int) mgl32.Vec4 {
	var v mgl32.Vec4
	copy(v[:], d.vertices[i*floatsPerVertex:(i+1)*floatsPerVertex])
	return v
}

// varyings is a vertex stage's output: clip-space position and colour.
type varyings struct {
	pos   mgl32.Vec4
	color mgl32.Vec4
}

type vertexProgram func(d *drawInputs, instance, vertex int) varyings

var vertexPrograms = map[renderer.Program]vertexProgram{
	renderer.ProgramPlain: plainVertex,
	renderer.ProgramEye:   eyeVertex,
}

// fade moves c toward white in proportion to depth and makes it opaque.
func fade(c mgl32.Vec4, depth float32) mgl32.Vec4 {
	one := mgl32.Vec4{1, 1, 1, 1}
	c = c.Add(one.Sub(c).Mul(depth))
	c[3] = 1
	return c
}

func plainVertex(d *drawInputs, instance, vertex int) varyings {
	inst := encoding.DecodeInstance(d.instances, instance)
	pos := inst.Transform.Mul4x1(d.vertex(vertex))
	pos[2] = -pos[2]
	return varyings{pos, fade(mgl32.Vec4(inst.Color), pos.Z())}
}

func eyeVertex(d *drawInputs, instance, vertex int) varyings {
	inst := encoding.DecodeInstance(d.instances, instance)
	world := inst.Transform.Mul4x1(d.vertex(vertex))
	pos := d.uniforms.Camera.Mul4x1(world)
	pos[2] = -pos[2]

	c := fade(mgl32.Vec4(inst.Color), -world.Z())
	filter := mgl32.Vec4(d.uniforms.Filter)
	for i := range c {
		c[i] = filter[i]*c[i] + 1 - filter[i]
	}
	c[3] = 1
	return varyings{pos, c}
}

// combinePixels is the combine program: dst = left + right - 1 per colour
// channel, with alpha forced to 1.
func combinePixels(dst, left, right []uint8) {
	for i := 0; i+3 < len(dst); i += 4 {
		for k := range 3 {
			v := int(left[i+k]) + int(right[i+k]) - 255
			dst[i+k] = uint8(min(max(v, 0), 255))
		}
		dst[i+3] = 255
	}
}

func decodeFloats(b []byte) []float32 {
	return safeish.SliceCast[[]float32](b)
}

func decodeIndices(b []byte) []uint16 {
	return safeish.SliceCast[[]uint16](b)
}
