// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package scene

import (
	"math"

	"honnef.co/go/runes/jmath"
)

// ScaleIndependent scales r by sx horizontally and sy vertically.
func ScaleIndependent(sx, sy float32, r Rune) Rune {
	return Wrap(jmath.ScaleXY(sx, sy), r)
}

func Scale(ratio float32, r Rune) Rune {
	return ScaleIndependent(ratio, ratio, r)
}

// Translate moves r by x to the right and y downwards. The unit square
// spans two units in each direction.
func Translate(x, y float32, r Rune) Rune {
	return Wrap(jmath.Translate(x, -y, 0), r)
}

// Rotate turns r anticlockwise by rad radians.
func Rotate(rad float32, r Rune) Rune {
	return Wrap(jmath.RotateZ(rad), r)
}

func FlipVert(r Rune) Rune {
	return ScaleIndependent(1, -1, r)
}

func FlipHoriz(r Rune) Rune {
	return ScaleIndependent(-1, 1, r)
}

func QuarterTurnRight(r Rune) Rune {
	return Rotate(-math.Pi/2, r)
}

func QuarterTurnLeft(r Rune) Rune {
	return Rotate(math.Pi/2, r)
}

func TurnUpsideDown(r Rune) Rune {
	return Rotate(math.Pi, r)
}
