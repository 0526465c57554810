// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package scene defines runes, the composable picture values, and the
// combinators that build them.
//
// Runes are immutable. Combinators never copy their arguments; the same
// rune may appear any number of times in a tree, or in many trees.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/gfx"
	"honnef.co/go/runes/jmath"
)

// Rune is either a *Primitive or a *Composite.
type Rune interface {
	isRune()
}

// Primitive draws one shape from the geometry registry.
type Primitive struct {
	Shape *geometry.Primitive
}

// Composite draws its children, in order, under Transform. If Color is set
// it replaces whatever colour the children would otherwise inherit.
type Composite struct {
	Transform mgl32.Mat4
	Children  []Rune
	Color     Option[gfx.RGBA]
}

func (*Primitive) isRune() {}
func (*Composite) isRune() {}

func (p *Primitive) String() string { return "primitive " + p.Shape.Name }

func (c *Composite) String() string {
	if c.Color.IsSet() {
		return fmt.Sprintf("composite(%d children, colour %v)", len(c.Children), c.Color.Unwrap())
	}
	return fmt.Sprintf("composite(%d children)", len(c.Children))
}

// Leaf wraps a registry primitive.
func Leaf(p *geometry.Primitive) *Primitive {
	return &Primitive{Shape: p}
}

// Wrap builds a composite with the given transform and children.
func Wrap(transform mgl32.Mat4, children ...Rune) *Composite {
	return &Composite{
		Transform: transform,
		Children:  children,
	}
}

// Group builds a composite with the identity transform.
func Group(children ...Rune) *Composite {
	return Wrap(jmath.Identity, children...)
}

// Colored wraps r so that it, and everything below it without a colour of
// its own, is drawn in c.
func Colored(c gfx.RGBA, r Rune) *Composite {
	return &Composite{
		Transform: jmath.Identity,
		Children:  []Rune{r},
		Color:     Some(c),
	}
}

// The built-in primitives.
var (
	Square    = Leaf(geometry.Default().Square)
	Blank     = Leaf(geometry.Default().Blank)
	RCross    = Leaf(geometry.Default().RCross)
	Sail      = Leaf(geometry.Default().Sail)
	Corner    = Leaf(geometry.Default().Corner)
	Nova      = Leaf(geometry.Default().Nova)
	Circle    = Leaf(geometry.Default().Circle)
	Heart     = Leaf(geometry.Default().Heart)
	Pentagram = Leaf(geometry.Default().Pentagram)
	Ribbon    = Leaf(geometry.Default().Ribbon)
)

// Walk calls fn for r and every rune below it, depth first, parents before
// children. Shared subtrees are visited once per occurrence.
func Walk(r Rune, fn func(Rune)) {
	fn(r)
	switch r := r.(type) {
	case *Primitive:
	case *Composite:
		for _, child := range r.Children {
			Walk(child, fn)
		}
	default:
		panic(fmt.Sprintf("unhandled type %T", r))
	}
}
