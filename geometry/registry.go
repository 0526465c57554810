// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package geometry owns the shared vertex and index pools that every rune
// primitive draws from.
//
// Pools are assembled once with a [Builder] and frozen into a [Registry].
// A frozen registry is read-only and may be shared between goroutines
// without synchronization.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxVertices is the number of vertices addressable by 16-bit indices.
const MaxVertices = math.MaxUint16 + 1

var ErrPoolFull = errors.New("vertex pool exceeds 16-bit index range")

// Primitive references a range of the index pool. Primitives are compared by
// pointer: two primitives with identical ranges are still distinct shapes
// as far as batching is concerned.
type Primitive struct {
	Name       string
	FirstIndex uint32
	IndexCount uint32
}

// IsBlank reports whether the primitive draws nothing.
func (p *Primitive) IsBlank() bool { return p.IndexCount == 0 }

func (p *Primitive) String() string {
	return fmt.Sprintf("%s[%d:+%d]", p.Name, p.FirstIndex, p.IndexCount)
}

type Builder struct {
	vertices []mgl32.Vec4
	indices  []uint16
	prims    []*Primitive
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) NumVertices() int { return len(b.vertices) }

// AddVertices appends vertices to the pool and returns the index of the
// first one.
func (b *Builder) AddVertices(vs ...mgl32.Vec4) (int, error) {
	first := len(b.vertices)
	if first+len(vs) > MaxVertices {
		return 0, fmt.Errorf("adding %d vertices to %d: %w", len(vs), first, ErrPoolFull)
	}
	b.vertices = append(b.vertices, vs...)
	return first, nil
}

// AddPrimitive appends triangles whose indices are absolute positions in the
// vertex pool.
func (b *Builder) AddPrimitive(name string, indices ...int) (*Primitive, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("primitive %q: %d indices do not form whole triangles", name, len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(b.vertices) {
			return nil, fmt.Errorf("primitive %q: index %d out of range [0, %d)", name, idx, len(b.vertices))
		}
	}
	p := &Primitive{
		Name:       name,
		FirstIndex: uint32(len(b.indices)),
		IndexCount: uint32(len(indices)),
	}
	for _, idx := range indices {
		b.indices = append(b.indices, uint16(idx))
	}
	b.prims = append(b.prims, p)
	return p, nil
}

// Register appends vertices and the triangles over them. Indices are
// relative to the first appended vertex.
func (b *Builder) Register(name string, vertices []mgl32.Vec4, indices []int) (*Primitive, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("primitive %q: relative index %d out of range [0, %d)", name, idx, len(vertices))
		}
	}
	first, err := b.AddVertices(vertices...)
	if err != nil {
		return nil, fmt.Errorf("primitive %q: %w", name, err)
	}
	abs := make([]int, len(indices))
	for i, idx := range indices {
		abs[i] = first + idx
	}
	return b.AddPrimitive(name, abs...)
}

// Build freezes the pools. The builder may keep being used; later additions
// do not affect the returned registry.
func (b *Builder) Build() *Registry {
	reg := &Registry{
		vertices: slices.Clone(b.vertices),
		indices:  slices.Clone(b.indices),
		prims:    slices.Clone(b.prims),
		byName:   make(map[string]*Primitive, len(b.prims)),
	}
	for _, p := range reg.prims {
		reg.byName[p.Name] = p
	}
	return reg
}

// Registry is a frozen pair of pools plus the primitives that index them.
type Registry struct {
	vertices []mgl32.Vec4
	indices  []uint16
	prims    []*Primitive
	byName   map[string]*Primitive
}

// Vertices returns the vertex pool. Callers must not modify it.
func (reg *Registry) Vertices() []mgl32.Vec4 { return reg.vertices }

// Indices returns the index pool. Callers must not modify it.
func (reg *Registry) Indices() []uint16 { return reg.indices }

// Primitives returns all primitives in registration order.
func (reg *Registry) Primitives() []*Primitive { return reg.prims }

func (reg *Registry) Lookup(name string) (*Primitive, bool) {
	p, ok := reg.byName[name]
	return p, ok
}

// Triangles returns the index triples of p.
func (reg *Registry) Triangles(p *Primitive) [][3]uint16 {
	idx := reg.indices[p.FirstIndex : p.FirstIndex+p.IndexCount]
	out := make([][3]uint16, 0, len(idx)/3)
	for i := 0; i+2 < len(idx); i += 3 {
		out = append(out, [3]uint16{idx[i], idx[i+1], idx[i+2]})
	}
	return out
}
