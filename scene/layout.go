// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package scene

import (
	"math"

	"honnef.co/go/runes/jmath"
)

// StackFrac puts a on top of b, giving a the top frac of the height. frac
// should lie in (0, 1); values at or beyond the ends produce a zero-height
// or mirrored child rather than an error.
func StackFrac(frac float32, a, b Rune) Rune {
	upper := Translate(0, -(1 - frac), ScaleIndependent(1, frac, a))
	lower := Translate(0, frac, ScaleIndependent(1, 1-frac, b))
	return Group(upper, lower)
}

func Stack(a, b Rune) Rune {
	return StackFrac(1.0/2, a, b)
}

// StackN stacks n copies of r in equal rows. n < 1 yields Blank.
func StackN(n int, r Rune) Rune {
	switch {
	case n < 1:
		return Blank
	case n == 1:
		return r
	default:
		return StackFrac(1/float32(n), r, StackN(n-1, r))
	}
}

// BesideFrac puts a left of b, giving a the left frac of the width.
func BesideFrac(frac float32, a, b Rune) Rune {
	left := Translate(-(1 - frac), 0, ScaleIndependent(frac, 1, a))
	right := Translate(frac, 0, ScaleIndependent(1-frac, 1, b))
	return Group(left, right)
}

func Beside(a, b Rune) Rune {
	return BesideFrac(1.0/2, a, b)
}

// BesideN places n copies of r in equal columns. n < 1 yields Blank.
func BesideN(n int, r Rune) Rune {
	switch {
	case n < 1:
		return Blank
	case n == 1:
		return r
	default:
		return BesideFrac(1/float32(n), r, BesideN(n-1, r))
	}
}

// OverlayFrac places a in front of b along the depth axis. a takes the
// front frac of the depth and b the remainder. a is drawn first; depth
// testing keeps it in front.
func OverlayFrac(frac float32, a, b Rune) Rune {
	front := Wrap(jmath.ScaleZ(frac), a)
	back := Wrap(jmath.Translate(0, 0, -frac).Mul4(jmath.ScaleZ(1-frac)), b)
	return Group(front, back)
}

func Overlay(a, b Rune) Rune {
	return OverlayFrac(1.0/2, a, b)
}

// MakeCross arranges four turns of r in a two by two grid.
func MakeCross(r Rune) Rune {
	return Stack(
		Beside(QuarterTurnRight(r), Rotate(math.Pi, r)),
		Beside(r, Rotate(math.Pi/2, r)),
	)
}

// RepeatPattern applies pattern to initial n times. n <= 0 returns initial.
func RepeatPattern(n int, pattern func(Rune) Rune, initial Rune) Rune {
	r := initial
	for range max(n, 0) {
		r = pattern(r)
	}
	return r
}
