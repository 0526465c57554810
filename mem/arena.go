// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package mem provides allocation helpers for per-frame data.
package mem

import (
	"golang.org/x/exp/constraints"
)

type Scalar interface {
	constraints.Integer | constraints.Float
}

const slabSize = 64 * 1024

// Arena hands out slices of E carved from large slabs. Everything handed
// out becomes invalid on Reset, which makes the slabs available again.
//
// An Arena is not safe for concurrent use.
type Arena[E Scalar] struct {
	slabs [][]E
	// index of the slab currently being filled
	cur int
}

// Alloc returns a zeroed slice of length n.
func (a *Arena[E]) Alloc(n int) []E {
	if n == 0 {
		return nil
	}
	if n > slabSize {
		// Oversized requests get their own slab so that they too are reused
		// after Reset.
		s := make([]E, n)
		a.slabs = append(a.slabs, s[:n:n])
		return s
	}
	for ; a.cur < len(a.slabs); a.cur++ {
		sl := a.slabs[a.cur]
		if cap(sl)-len(sl) >= n {
			out := sl[len(sl) : len(sl)+n : len(sl)+n]
			clear(out)
			a.slabs[a.cur] = sl[:len(sl)+n]
			return out
		}
	}
	sl := make([]E, n, slabSize)
	a.slabs = append(a.slabs, sl)
	a.cur = len(a.slabs) - 1
	return sl[:n:n]
}

// Append appends data to s, moving s into the arena if it has to grow.
func (a *Arena[E]) Append(s []E, data ...E) []E {
	if cap(s)-len(s) < len(data) {
		newCap := max(2*cap(s), len(s)+len(data))
		s2 := a.Alloc(newCap)[:len(s)]
		copy(s2, s)
		s = s2
	}
	return append(s, data...)
}

// Reset makes all slabs available again.
func (a *Arena[E]) Reset() {
	for i := range a.slabs {
		a.slabs[i] = a.slabs[i][:0]
	}
	a.cur = 0
}

// InUse returns the number of elements currently handed out.
func (a *Arena[E]) InUse() int {
	n := 0
	for _, sl := range a.slabs {
		n += len(sl)
	}
	return n
}
