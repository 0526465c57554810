package cpu_engine

import (
	"github.com/chewxy/math32"
	"honnef.co/go/runes/gfx"
	"honnef.co/go/runes/jmath"
)

func (t *target) clear(c gfx.RGBA) {
	r, g, b, a := quantize(c[0]), quantize(c[1]), quantize(c[2]), quantize(c[3])
	pix := t.color.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = a
	}
	for i := range t.depth {
		t.depth[i] = 1
	}
}

func quantize(v float32) uint8 {
	return uint8(jmath.Clamp(v, 0, 1)*255 + 0.5)
}

// windowVertex is a vertex after the perspective divide and viewport
// transform. z is the window depth in [0, 1].
type windowVertex struct {
	x, y, z float32
}

func (t *target) toWindow(v varyings) windowVertex {
	w := v.pos.W()
	x, y, z := v.pos.X()/w, v.pos.Y()/w, v.pos.Z()/w
	width, height := float32(t.proxy.Width), float32(t.proxy.Height)
	return windowVertex{
		x: (x + 1) / 2 * width,
		y: (1 - y) / 2 * height,
		z: (z + 1) / 2,
	}
}

func edge(a, b windowVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// rasterize fills the pixels whose centres lie inside the triangle or on
// its edges. Both windings are drawn. Colour and depth are interpolated
// linearly; fragments outside the depth range are clipped and the rest are
// tested with less-or-equal against the depth buffer.
func (t *target) rasterize(tri [3]varyings) {
	v0, v1, v2 := t.toWindow(tri[0]), t.toWindow(tri[1]), t.toWindow(tri[2])
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return
	}

	width, height := int(t.proxy.Width), int(t.proxy.Height)
	minX := max(int(math32.Floor(math32.Min(v0.x, math32.Min(v1.x, v2.x)))), 0)
	maxX := min(int(math32.Ceil(math32.Max(v0.x, math32.Max(v1.x, v2.x)))), width-1)
	minY := max(int(math32.Floor(math32.Min(v0.y, math32.Min(v1.y, v2.y)))), 0)
	maxY := min(int(math32.Ceil(math32.Max(v0.y, math32.Max(v1.y, v2.y)))), height-1)

	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			b0 := edge(v1, v2, px, py) * inv
			b1 := edge(v2, v0, px, py) * inv
			b2 := edge(v0, v1, px, py) * inv
			if b0 < -jmath.Epsilon || b1 < -jmath.Epsilon || b2 < -jmath.Epsilon {
				continue
			}
			z := b0*v0.z + b1*v1.z + b2*v2.z
			if z < -jmath.Epsilon || z > 1+jmath.Epsilon {
				continue
			}
			z = jmath.Clamp(z, 0, 1)
			di := y*width + x
			if z > t.depth[di] {
				continue
			}
			t.depth[di] = z

			o := t.color.PixOffset(x, y)
			for k := range 4 {
				c := b0*tri[0].color[k] + b1*tri[1].color[k] + b2*tri[2].color[k]
				t.color.Pix[o+k] = quantize(c)
			}
		}
	}
}
