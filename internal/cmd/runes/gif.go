package main

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/image/draw"
	"honnef.co/go/runes"
)

// gifDelay converts d to the hundredths of a second GIF frames are timed
// in.
func gifDelay(d time.Duration) int {
	return max(int(d/(10*time.Millisecond)), 1)
}

func encodeGIF(h *runes.AnimatedHandle, progress bool) (*gif.GIF, error) {
	frames := h.Frames()
	order := h.Order()
	if len(order) == 0 {
		return nil, fmt.Errorf("animation has no frames")
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(frames)), "quantizing frames")
		defer bar.Close()
	}
	paletted := make([]*image.Paletted, len(frames))
	for i, f := range frames {
		p := image.NewPaletted(f.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Bounds(), f.RGBA, image.Point{})
		paletted[i] = p
		if bar != nil {
			bar.Add(1)
		}
	}

	out := &gif.GIF{LoopCount: 0}
	delay := gifDelay(h.Delay())
	for _, idx := range order {
		out.Image = append(out.Image, paletted[idx])
		out.Delay = append(out.Delay, delay)
	}
	return out, nil
}

func saveGIF(path string, h *runes.AnimatedHandle, progress bool) error {
	g, err := encodeGIF(h, progress)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
