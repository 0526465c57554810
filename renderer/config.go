// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"fmt"
	"structs"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/gfx"
)

// Config is the part of the renderer configuration a session needs.
type Config struct {
	// Edge length of the square output image, in pixels.
	ViewportSize int
	// Supersampling factor. Targets are drawn at ViewportSize*Antialias and
	// downsampled.
	Antialias int
}

var DefaultConfig = Config{
	ViewportSize: 512,
	Antialias:    4,
}

// MaxTargetSize bounds the edge length of render targets.
const MaxTargetSize = 16384

func (cfg Config) TargetSize() uint32 {
	return uint32(cfg.ViewportSize * cfg.Antialias)
}

func (cfg Config) Validate() error {
	if cfg.ViewportSize < 1 {
		return fmt.Errorf("viewport size must be positive, got %d", cfg.ViewportSize)
	}
	if cfg.Antialias < 1 {
		return fmt.Errorf("antialias factor must be positive, got %d", cfg.Antialias)
	}
	if cfg.ViewportSize*cfg.Antialias > MaxTargetSize {
		return fmt.Errorf("viewport size %d with antialias factor %d gives target size %d, exceeding %d",
			cfg.ViewportSize, cfg.Antialias, cfg.ViewportSize*cfg.Antialias, MaxTargetSize)
	}
	return nil
}

// EyeUniform is the layout of EyeUniforms as the GPU programs see it.
//
// This data structure must be kept in sync with the definition in
// the eye program's WGSL source.
type EyeUniform struct {
	_ structs.HostLayout

	Camera mgl32.Mat4
	Filter gfx.RGBA
}

func (u EyeUniforms) Pack() EyeUniform {
	return EyeUniform{Camera: u.Camera, Filter: u.Filter}
}
