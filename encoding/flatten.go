// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/gfx"
	"honnef.co/go/runes/jmath"
	"honnef.co/go/runes/scene"
)

// Instance is one occurrence of a primitive in a flattened rune.
type Instance struct {
	Transform mgl32.Mat4
	Color     gfx.RGBA
}

// Batch holds every instance of one primitive. It is drawn with a single
// instanced draw call.
type Batch struct {
	Primitive *geometry.Primitive
	Instances []Instance
}

// Background is the instance every flattened rune starts with: a white
// square pushed to the back of the depth range.
var Background = Instance{
	Transform: mgl32.Translate3D(0, 0, -1),
	Color:     gfx.RGBA{1, 1, 1, 1},
}

// Flatten turns r into batches using the default geometry. See FlattenWith.
func Flatten(r scene.Rune) []Batch {
	return FlattenWith(geometry.Default().Square, r)
}

// FlattenWith turns r into batches. The first batch is always the
// background square. The remaining batches appear in the order their
// primitive is first reached by a depth-first walk of r; blank primitives
// produce nothing.
func FlattenWith(background *geometry.Primitive, r scene.Rune) []Batch {
	f := flattener{
		byPrim: make(map[*geometry.Primitive]int),
		stack:  matrixStack{current: jmath.Identity},
	}
	f.batches = append(f.batches, Batch{
		Primitive: background,
		Instances: []Instance{Background},
	})
	f.visit(r, scene.Option[gfx.RGBA]{})
	if len(f.stack.saved) != 0 {
		panic(fmt.Sprintf("unbalanced matrix stack: %d entries left after traversal", len(f.stack.saved)))
	}
	return f.batches
}

type flattener struct {
	stack   matrixStack
	batches []Batch
	byPrim  map[*geometry.Primitive]int
}

func (f *flattener) visit(r scene.Rune, color scene.Option[gfx.RGBA]) {
	switch r := r.(type) {
	case *scene.Primitive:
		if r.Shape.IsBlank() {
			return
		}
		idx, ok := f.byPrim[r.Shape]
		if !ok {
			idx = len(f.batches)
			f.byPrim[r.Shape] = idx
			f.batches = append(f.batches, Batch{Primitive: r.Shape})
		}
		f.batches[idx].Instances = append(f.batches[idx].Instances, Instance{
			Transform: f.stack.current,
			Color:     color.UnwrapOr(gfx.DefaultColor),
		})
	case *scene.Composite:
		if r.Color.IsSet() {
			color = r.Color
		}
		f.stack.push(r.Transform)
		for _, child := range r.Children {
			f.visit(child, color)
		}
		f.stack.pop()
	default:
		panic(fmt.Sprintf("unhandled type %T", r))
	}
}

// matrixStack tracks the accumulated transform during traversal. Every push
// must be matched by exactly one pop.
type matrixStack struct {
	current mgl32.Mat4
	saved   []mgl32.Mat4
}

func (s *matrixStack) push(m mgl32.Mat4) {
	s.saved = append(s.saved, s.current)
	s.current = s.current.Mul4(m)
}

func (s *matrixStack) pop() {
	if len(s.saved) == 0 {
		panic("invalid pop of empty matrix stack")
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

// Count returns the total number of instances across batches.
func Count(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Instances)
	}
	return n
}
