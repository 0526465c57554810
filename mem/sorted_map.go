// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package mem

import (
	"cmp"
	"iter"
	"slices"

	"golang.org/x/exp/constraints"
)

// SortedMap is a map kept as a sorted slice. Iteration is in key order,
// which keeps resource teardown deterministic.
type SortedMap[K constraints.Ordered, V any] struct {
	entries []SortedMapEntry[K, V]
}

type SortedMapEntry[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}

func (m *SortedMap[K, V]) find(key K) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(e SortedMapEntry[K, V], k K) int {
		return cmp.Compare(e.Key, k)
	})
}

func (m *SortedMap[K, V]) Insert(key K, value V) {
	idx, ok := m.find(key)
	if ok {
		m.entries[idx].Value = value
		return
	}
	m.entries = slices.Insert(m.entries, idx, SortedMapEntry[K, V]{key, value})
}

func (m *SortedMap[K, V]) Get(key K) (V, bool) {
	idx, ok := m.find(key)
	if !ok {
		return *new(V), false
	}
	return m.entries[idx].Value, true
}

func (m *SortedMap[K, V]) Delete(key K) bool {
	idx, ok := m.find(key)
	if !ok {
		return false
	}
	m.entries = slices.Delete(m.entries, idx, idx+1)
	return true
}

func (m *SortedMap[K, V]) Len() int { return len(m.entries) }

func (m *SortedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (m *SortedMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, e := range m.entries {
			if !yield(e.Value) {
				return
			}
		}
	}
}

func (m *SortedMap[K, V]) Clear() {
	clear(m.entries)
	m.entries = m.entries[:0]
}
