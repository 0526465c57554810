package renderer

import (
	"image"

	"golang.org/x/image/draw"
)

// Resolve downsamples a supersampled target to size×size. Images that are
// already the right size are returned as is.
func Resolve(src *image.RGBA, size int) *image.RGBA {
	if src.Bounds().Dx() == size && src.Bounds().Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
