// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"fmt"
	"strconv"
	"strings"

	"honnef.co/go/color"
)

// RGBA is a straight (non-premultiplied) sRGB colour with components in
// [0, 1]. It is the layout instances carry to the GPU.
type RGBA [4]float32

func (c RGBA) R() float32 { return c[0] }
func (c RGBA) G() float32 { return c[1] }
func (c RGBA) B() float32 { return c[2] }
func (c RGBA) A() float32 { return c[3] }

// Straight32 returns c's sRGB components without premultiplying by alpha.
// Rune colours are never blended, so the shaders want them as authored.
func Straight32(c color.Color) RGBA {
	cc := c.Convert(color.SRGB)
	return RGBA{
		float32(cc.Values[0]),
		float32(cc.Values[1]),
		float32(cc.Values[2]),
		float32(cc.Values[3]),
	}
}

// ParseHex parses "#RRGGBB" (the leading '#' is optional) into an opaque
// sRGB colour.
func ParseHex(hex string) (color.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return color.Color{}, fmt.Errorf("invalid hex colour %q: want 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Color{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	r := float64((v>>16)&0xFF) / 255
	g := float64((v>>8)&0xFF) / 255
	b := float64(v&0xFF) / 255
	return color.Make(color.SRGB, r, g, b, 1), nil
}

// HexToRGBA is ParseHex followed by Straight32.
func HexToRGBA(hex string) (RGBA, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return RGBA{}, err
	}
	return Straight32(c), nil
}

func mustHex(hex string) RGBA {
	c, err := HexToRGBA(hex)
	if err != nil {
		panic(err)
	}
	return c
}
