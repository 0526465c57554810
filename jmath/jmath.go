// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package jmath contains the small amount of numeric glue that sits between
// mgl32 and the rest of the renderer.
package jmath

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

const Epsilon = 1e-5

func Abs[T constraints.Float | constraints.Signed](f T) T {
	if f < 0 {
		return -f
	}
	return f
}

func Clamp[T constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Transform is the 4x4 column-major matrix used throughout the scene graph.
type Transform = mgl32.Mat4

var Identity = mgl32.Ident4()

// ScaleXY scales x and y, leaving depth untouched.
func ScaleXY(sx, sy float32) Transform {
	return mgl32.Scale3D(sx, sy, 1)
}

// ScaleZ scales depth only.
func ScaleZ(sz float32) Transform {
	return mgl32.Scale3D(1, 1, sz)
}

func Translate(x, y, z float32) Transform {
	return mgl32.Translate3D(x, y, z)
}

// RotateZ rotates anticlockwise about the viewing axis.
func RotateZ(rad float32) Transform {
	return mgl32.HomogRotate3DZ(rad)
}

// ApproxEqual compares two transforms element-wise with an absolute
// tolerance.
func ApproxEqual(a, b Transform, eps float32) bool {
	for i := range a {
		if Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func AlignUp(len int, alignment int) int {
	return (len + alignment - 1) & -alignment
}

// TODO(dh): fold AlignUp32 into a generic AlignUp once callers settle on one integer type
func AlignUp32(len uint32, alignment uint32) uint32 {
	return (len + alignment - 1) & -alignment
}
