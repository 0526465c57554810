// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/gfx"
)

var resourceID atomic.Uint64

func nextResourceID() ResourceID {
	return ResourceID(resourceID.Add(1))
}

type ResourceID uint64

// BufferUsage says what a buffer is bound as when drawing.
type BufferUsage int

const (
	UsageVertex BufferUsage = iota + 1
	UsageIndex
	UsageInstance
)

func (u BufferUsage) String() string {
	switch u {
	case UsageVertex:
		return "vertex"
	case UsageIndex:
		return "index"
	case UsageInstance:
		return "instance"
	default:
		return fmt.Sprintf("BufferUsage(%d)", int(u))
	}
}

// UploadHint mirrors the classic static/stream buffer hints. Stream
// buffers are written once, drawn from once and freed; engines may
// assume a stream buffer is never reused.
type UploadHint int

const (
	HintStatic UploadHint = iota + 1
	HintStream
)

type Recording struct {
	Commands []Command
}

func (rec *Recording) push(cmd Command) {
	rec.Commands = append(rec.Commands, cmd)
}

func (rec *Recording) Upload(name string, usage BufferUsage, hint UploadHint, data []byte) BufferProxy {
	buf := NewBufferProxy(uint64(len(data)), name, usage)
	rec.push(&Upload{buf, hint, data})
	return buf
}

// BeginPass starts drawing into target. If clear is set, colour is reset
// to clearColor and depth to 1.
func (rec *Recording) BeginPass(target ImageProxy, clear bool, clearColor gfx.RGBA) {
	rec.push(&BeginPass{target, clear, clearColor})
}

func (rec *Recording) DrawInstanced(draw DrawInstanced) {
	rec.push(&draw)
}

// Combine merges two eye targets into dst.
func (rec *Recording) Combine(left, right, dst ImageProxy) {
	rec.push(&Combine{left, right, dst})
}

func (rec *Recording) Download(image ImageProxy) {
	rec.push(&Download{image})
}

func (rec *Recording) FreeBuffer(buf BufferProxy) {
	rec.push(&FreeBuffer{buf})
}

func (rec *Recording) FreeImage(image ImageProxy) {
	rec.push(&FreeImage{image})
}

func NewBufferProxy(size uint64, name string, usage BufferUsage) BufferProxy {
	id := nextResourceID()
	return BufferProxy{size, id, name, usage}
}

func NewImageProxy(width, height uint32) ImageProxy {
	id := nextResourceID()
	return ImageProxy{
		Width:  width,
		Height: height,
		ID:     id,
	}
}

type BufferProxy struct {
	Size  uint64
	ID    ResourceID
	Name  string
	Usage BufferUsage
}

// ImageProxy is a render target: an RGBA8 colour image with an attached
// depth buffer of the same size.
type ImageProxy struct {
	Width  uint32
	Height uint32
	ID     ResourceID
}

type Command interface {
	isCommand()
}

func (*Upload) isCommand()        {}
func (*BeginPass) isCommand()     {}
func (*DrawInstanced) isCommand() {}
func (*Combine) isCommand()       {}
func (*Download) isCommand()      {}
func (*FreeBuffer) isCommand()    {}
func (*FreeImage) isCommand()     {}

type Upload struct {
	Buffer BufferProxy
	Hint   UploadHint
	Data   []byte
}

type BeginPass struct {
	Target     ImageProxy
	Clear      bool
	ClearColor gfx.RGBA
}

// EyeUniforms are the per-pass inputs of the eye program. The plain
// program ignores them.
type EyeUniforms struct {
	Camera mgl32.Mat4
	Filter gfx.RGBA
}

type DrawInstanced struct {
	Program   Program
	Target    ImageProxy
	Vertices  BufferProxy
	Indices   BufferProxy
	Instances BufferProxy

	FirstIndex    uint32
	IndexCount    uint32
	InstanceCount uint32

	Uniforms EyeUniforms
}

type Combine struct {
	Left  ImageProxy
	Right ImageProxy
	Dst   ImageProxy
}

type Download struct {
	Image ImageProxy
}

type FreeBuffer struct {
	Buffer BufferProxy
}

type FreeImage struct {
	Image ImageProxy
}
