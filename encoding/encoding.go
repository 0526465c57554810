// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package encoding flattens runes into instance batches and lays those
// batches out the way the draw programs consume them.
package encoding

import (
	"honnef.co/go/runes/mem"
	"honnef.co/go/safeish"
)

// FloatsPerInstance is the stride of an instance stream: a column-major
// 4x4 transform followed by an RGBA colour.
const FloatsPerInstance = 20

const BytesPerInstance = FloatsPerInstance * 4

// EncodeInstances writes the batch's instances into a stream allocated from
// arena.
func EncodeInstances(arena *mem.Arena[float32], b Batch) []float32 {
	out := arena.Alloc(len(b.Instances) * FloatsPerInstance)
	for i, inst := range b.Instances {
		o := out[i*FloatsPerInstance : (i+1)*FloatsPerInstance]
		copy(o[:16], inst.Transform[:])
		copy(o[16:], inst.Color[:])
	}
	return out
}

// DecodeInstance reads the i'th instance back out of a stream.
func DecodeInstance(stream []float32, i int) Instance {
	var inst Instance
	s := stream[i*FloatsPerInstance : (i+1)*FloatsPerInstance]
	copy(inst.Transform[:], s[:16])
	copy(inst.Color[:], s[16:])
	return inst
}

// Bytes views a float stream as bytes without copying.
func Bytes(stream []float32) []byte {
	return safeish.SliceCast[[]byte](stream)
}

// Floats views a byte stream as floats without copying. len(b) must be a
// multiple of four.
func Floats(b []byte) []float32 {
	return safeish.SliceCast[[]float32](b)
}
