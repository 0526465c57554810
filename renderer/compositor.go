package renderer

import "honnef.co/go/runes/gfx"

// ClearColor is the colour targets are cleared to.
var ClearColor = gfx.RGBA{1, 1, 1, 1}

// Compositor owns the session's render targets: one per eye and the
// visible target that plain draws and the combine pass write to.
type Compositor struct {
	size   uint32
	left   ImageProxy
	right  ImageProxy
	screen ImageProxy
}

func NewCompositor(size uint32) *Compositor {
	c := &Compositor{size: size}
	c.allocate()
	return c
}

func (c *Compositor) allocate() {
	c.left = NewImageProxy(c.size, c.size)
	c.right = NewImageProxy(c.size, c.size)
	c.screen = NewImageProxy(c.size, c.size)
}

func (c *Compositor) Left() ImageProxy   { return c.left }
func (c *Compositor) Right() ImageProxy  { return c.right }
func (c *Compositor) Screen() ImageProxy { return c.screen }

// Clear records clears of both eye targets.
func (c *Compositor) Clear(rec *Recording) {
	rec.BeginPass(c.left, true, ClearColor)
	rec.BeginPass(c.right, true, ClearColor)
}

// Combine records the full-screen pass that merges the eye targets into
// the visible target.
func (c *Compositor) Combine(rec *Recording) {
	rec.Combine(c.left, c.right, c.screen)
}

// Reset records the release of all targets and replaces them with fresh
// ones. Engines create targets on first use.
func (c *Compositor) Reset(rec *Recording) {
	c.Release(rec)
	c.allocate()
}

func (c *Compositor) Release(rec *Recording) {
	rec.FreeImage(c.left)
	rec.FreeImage(c.right)
	rec.FreeImage(c.screen)
}
