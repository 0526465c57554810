// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package cpu_engine implements renderer.Engine in software. Programs are Go
// functions and triangles are rasterised with a depth-tested scanner.
package cpu_engine

import (
	"fmt"
	"image"
	"log/slog"
	"slices"

	"honnef.co/go/runes/profiler"
	"honnef.co/go/runes/renderer"
)

type buffer struct {
	proxy renderer.BufferProxy
	hint  renderer.UploadHint
	data  []byte
}

// target is a colour image plus a depth buffer cleared to 1.
type target struct {
	proxy renderer.ImageProxy
	color *image.RGBA
	depth []float32
}

type Engine struct {
	logger   *slog.Logger
	buffers  map[renderer.ResourceID]*buffer
	targets  map[renderer.ResourceID]*target
	compiled map[renderer.Program]bool
	released bool
}

var _ renderer.Engine = (*Engine)(nil)

func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger,
		buffers:  make(map[renderer.ResourceID]*buffer),
		targets:  make(map[renderer.ResourceID]*target),
		compiled: make(map[renderer.Program]bool),
	}
}

func (e *Engine) Compile(p renderer.Program) error {
	if e.released {
		return renderer.ErrRenderContextUnavailable
	}
	switch p {
	case renderer.ProgramPlain, renderer.ProgramEye, renderer.ProgramCombine:
		e.compiled[p] = true
		return nil
	default:
		return &renderer.ShaderCompilationError{Program: p, Log: "no such program"}
	}
}

func (e *Engine) Release() {
	e.released = true
	clear(e.buffers)
	clear(e.targets)
	clear(e.compiled)
}

func (e *Engine) getTarget(proxy renderer.ImageProxy) (*target, error) {
	if t, ok := e.targets[proxy.ID]; ok {
		return t, nil
	}
	if proxy.Width == 0 || proxy.Height == 0 {
		return nil, &renderer.FramebufferError{Target: proxy.ID, Width: proxy.Width, Height: proxy.Height, Reason: "zero-sized attachment"}
	}
	if proxy.Width > renderer.MaxTargetSize || proxy.Height > renderer.MaxTargetSize {
		return nil, &renderer.FramebufferError{Target: proxy.ID, Width: proxy.Width, Height: proxy.Height, Reason: "attachment too large"}
	}
	t := &target{
		proxy: proxy,
		color: image.NewRGBA(image.Rect(0, 0, int(proxy.Width), int(proxy.Height))),
		depth: make([]float32, int(proxy.Width)*int(proxy.Height)),
	}
	t.clear(renderer.ClearColor)
	e.targets[proxy.ID] = t
	return t, nil
}

func (e *Engine) getBuffer(proxy renderer.BufferProxy) (*buffer, error) {
	buf, ok := e.buffers[proxy.ID]
	if !ok {
		return nil, fmt.Errorf("buffer %q (%d) used before upload or after free", proxy.Name, proxy.ID)
	}
	return buf, nil
}

func (e *Engine) RunRecording(rec *renderer.Recording, pgroup profiler.ProfilerGroup) ([]*image.RGBA, error) {
	pgroup = pgroup.Start("cpu.RunRecording")
	defer pgroup.End()

	if e.released {
		return nil, renderer.ErrRenderContextUnavailable
	}

	var out []*image.RGBA
	for _, cmd := range rec.Commands {
		switch cmd := cmd.(type) {
		case *renderer.Upload:
			if _, ok := e.buffers[cmd.Buffer.ID]; ok {
				panic(fmt.Sprintf("buffer %d uploaded twice", cmd.Buffer.ID))
			}
			e.buffers[cmd.Buffer.ID] = &buffer{
				proxy: cmd.Buffer,
				hint:  cmd.Hint,
				data:  slices.Clone(cmd.Data),
			}
		case *renderer.BeginPass:
			t, err := e.getTarget(cmd.Target)
			if err != nil {
				return nil, err
			}
			if cmd.Clear {
				t.clear(cmd.ClearColor)
			}
		case *renderer.DrawInstanced:
			if err := e.drawInstanced(cmd); err != nil {
				return nil, err
			}
		case *renderer.Combine:
			if err := e.combine(cmd); err != nil {
				return nil, err
			}
		case *renderer.Download:
			t, err := e.getTarget(cmd.Image)
			if err != nil {
				return nil, err
			}
			img := image.NewRGBA(t.color.Rect)
			copy(img.Pix, t.color.Pix)
			out = append(out, img)
		case *renderer.FreeBuffer:
			delete(e.buffers, cmd.Buffer.ID)
		case *renderer.FreeImage:
			delete(e.targets, cmd.Image.ID)
		default:
			panic(fmt.Sprintf("unhandled command %T", cmd))
		}
	}

	for id, buf := range e.buffers {
		if buf.hint == renderer.HintStream {
			e.logger.Warn("stream buffer outlived its recording", "buffer", buf.proxy.Name, "id", id)
			delete(e.buffers, id)
		}
	}
	return out, nil
}

func (e *Engine) drawInstanced(cmd *renderer.DrawInstanced) error {
	if !e.compiled[cmd.Program] {
		return fmt.Errorf("draw with program %s before it was compiled", cmd.Program)
	}
	shade, ok := vertexPrograms[cmd.Program]
	if !ok {
		return fmt.Errorf("program %s cannot draw instances", cmd.Program)
	}
	t, err := e.getTarget(cmd.Target)
	if err != nil {
		return err
	}
	vbuf, err := e.getBuffer(cmd.Vertices)
	if err != nil {
		return err
	}
	ibuf, err := e.getBuffer(cmd.Indices)
	if err != nil {
		return err
	}
	instbuf, err := e.getBuffer(cmd.Instances)
	if err != nil {
		return err
	}

	d := drawInputs{
		vertices:  decodeFloats(vbuf.data),
		indices:   decodeIndices(ibuf.data),
		instances: decodeFloats(instbuf.data),
		uniforms:  cmd.Uniforms,
	}
	if end := int(cmd.FirstIndex) + int(cmd.IndexCount); end > len(d.indices) {
		return fmt.Errorf("index range [%d, %d) exceeds index buffer of length %d", cmd.FirstIndex, end, len(d.indices))
	}
	idx := d.indices[cmd.FirstIndex : cmd.FirstIndex+cmd.IndexCount]
	for inst := range int(cmd.InstanceCount) {
		for i := 0; i+2 < len(idx); i += 3 {
			var tri [3]varyings
			for k := range 3 {
				tri[k] = shade(&d, inst, int(idx[i+k]))
			}
			t.rasterize(tri)
		}
	}
	return nil
}

func (e *Engine) combine(cmd *renderer.Combine) error {
	if !e.compiled[renderer.ProgramCombine] {
		return fmt.Errorf("combine before program %s was compiled", renderer.ProgramCombine)
	}
	left, err := e.getTarget(cmd.Left)
	if err != nil {
		return err
	}
	right, err := e.getTarget(cmd.Right)
	if err != nil {
		return err
	}
	dst, err := e.getTarget(cmd.Dst)
	if err != nil {
		return err
	}
	if left.color.Rect != right.color.Rect || left.color.Rect != dst.color.Rect {
		return &renderer.FramebufferError{
			Target: cmd.Dst.ID,
			Width:  cmd.Dst.Width,
			Height: cmd.Dst.Height,
			Reason: "combine inputs differ in size from destination",
		}
	}
	combinePixels(dst.color.Pix, left.color.Pix, right.color.Pix)
	return nil
}
