// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package wgpu_engine implements renderer.Engine on a WebGPU device.
package wgpu_engine

// OPT reuse bind groups

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/bits"

	"honnef.co/go/runes/jmath"
	"honnef.co/go/runes/mem"
	"honnef.co/go/runes/profiler"
	"honnef.co/go/runes/renderer"
	"honnef.co/go/safeish"
	"honnef.co/go/wgpu"
)

// Row pitch alignment required for texture to buffer copies.
const copyBytesPerRowAlignment = 256

// wholeSize binds from the offset to the end of the buffer.
const wholeSize = ^uint64(0)

type Engine struct {
	Device *wgpu.Device
	queue  *wgpu.Queue
	logger *slog.Logger

	programs map[renderer.Program]*renderProgram
	pool     resourcePool
	buffers  mem.SortedMap[renderer.ResourceID, boundBuffer]
	targets  mem.SortedMap[renderer.ResourceID, *targetTexture]
	released bool
	// set when the engine created Device itself
	ownsDevice bool
}

var _ renderer.Engine = (*Engine)(nil)

type boundBuffer struct {
	buf  *wgpu.Buffer
	hint renderer.UploadHint
}

type bufferProperties struct {
	size   uint64
	usages wgpu.BufferUsage
}

type resourcePool struct {
	bufs map[bufferProperties][]*wgpu.Buffer
}

func New(dev *wgpu.Device, queue *wgpu.Queue, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Device:   dev,
		queue:    queue,
		logger:   logger,
		programs: make(map[renderer.Program]*renderProgram),
		pool: resourcePool{
			bufs: make(map[bufferProperties][]*wgpu.Buffer),
		},
	}
}

func (eng *Engine) Compile(p renderer.Program) error {
	if eng.released {
		return renderer.ErrRenderContextUnavailable
	}
	if _, ok := eng.programs[p]; ok {
		return nil
	}
	s, ok := shaderFor(p)
	if !ok {
		return &renderer.ShaderCompilationError{Program: p, Log: "no such program"}
	}
	if len(s.WGSL.Code) == 0 {
		panic(fmt.Sprintf("shader %q has no code", s.Name))
	}
	prog, err := eng.createRenderPipeline(s)
	if err != nil {
		return &renderer.ShaderCompilationError{Program: p, Err: err}
	}
	eng.programs[p] = prog
	return nil
}

func (eng *Engine) Release() {
	if eng.released {
		return
	}
	eng.released = true
	for _, p := range eng.programs {
		p.release()
	}
	clear(eng.programs)
	for b := range eng.buffers.Values() {
		b.buf.Release()
	}
	eng.buffers.Clear()
	for t := range eng.targets.Values() {
		t.release()
	}
	eng.targets.Clear()
	for _, bufs := range eng.pool.bufs {
		for _, buf := range bufs {
			buf.Release()
		}
	}
	clear(eng.pool.bufs)
	if eng.ownsDevice {
		eng.Device.Release()
	}
}

func (eng *Engine) getTarget(proxy renderer.ImageProxy) (*targetTexture, error) {
	if t, ok := eng.targets.Get(proxy.ID); ok {
		return t, nil
	}
	t, err := newTargetTexture(eng.Device, proxy)
	if err != nil {
		return nil, err
	}
	eng.targets.Insert(proxy.ID, t)
	return t, nil
}

func (eng *Engine) getBuffer(proxy renderer.BufferProxy) (*wgpu.Buffer, error) {
	b, ok := eng.buffers.Get(proxy.ID)
	if !ok {
		return nil, fmt.Errorf("buffer %q (%d) used before upload or after free", proxy.Name, proxy.ID)
	}
	return b.buf, nil
}

func bufferUsage(u renderer.BufferUsage) wgpu.BufferUsage {
	switch u {
	case renderer.UsageVertex, renderer.UsageInstance:
		return wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
	case renderer.UsageIndex:
		return wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	default:
		panic(fmt.Sprintf("unhandled buffer usage %s", u))
	}
}

func (eng *Engine) RunRecording(rec *renderer.Recording, pgroup profiler.ProfilerGroup) ([]*image.RGBA, error) {
	pgroup = pgroup.Start("wgpu.RunRecording")
	defer pgroup.End()

	if eng.released {
		return nil, renderer.ErrRenderContextUnavailable
	}

	var (
		out      []*image.RGBA
		freeBufs []renderer.ResourceID
		// buffers handed out during this recording that go back to the pool
		// once the GPU is done with them
		scratch []*wgpu.Buffer
	)
	for _, cmd := range rec.Commands {
		if cmd, ok := cmd.(*renderer.FreeBuffer); ok {
			freeBufs = append(freeBufs, cmd.Buffer.ID)
		}
	}
	// Runs after the final submit, including on error paths.
	defer func() {
		for _, id := range freeBufs {
			if b, ok := eng.buffers.Get(id); ok {
				eng.buffers.Delete(id)
				if b.hint == renderer.HintStream {
					b.buf.Release()
				} else {
					eng.pool.put(b.buf)
				}
			}
		}
		for _, buf := range scratch {
			eng.pool.put(buf)
		}
	}()
	encoder := eng.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "runes"})
	submit := func() {
		cmd := encoder.Finish(nil)
		encoder.Release()
		eng.queue.Submit(cmd)
		cmd.Release()
	}

	for _, cmd := range rec.Commands {
		switch cmd := cmd.(type) {
		case *renderer.Upload:
			data := cmd.Data
			// writes must be a multiple of four bytes
			if n := jmath.AlignUp(len(data), 4); n != len(data) {
				padded := make([]byte, n)
				copy(padded, data)
				data = padded
			}
			var buf *wgpu.Buffer
			if cmd.Hint == renderer.HintStream {
				// stream buffers are never recycled
				buf = eng.Device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: cmd.Buffer.Name,
					Size:  uint64(len(data)),
					Usage: bufferUsage(cmd.Buffer.Usage),
				})
			} else {
				buf = eng.pool.getBuf(uint64(len(data)), cmd.Buffer.Name, bufferUsage(cmd.Buffer.Usage), eng.Device)
			}
			eng.queue.WriteBuffer(buf, 0, data)
			eng.buffers.Insert(cmd.Buffer.ID, boundBuffer{buf, cmd.Hint})

		case *renderer.BeginPass:
			t, err := eng.getTarget(cmd.Target)
			if err != nil {
				submit()
				return nil, err
			}
			if cmd.Clear {
				c := cmd.ClearColor
				pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
					ColorAttachments: []wgpu.RenderPassColorAttachment{
						{
							View:       t.colorView,
							LoadOp:     wgpu.LoadOpClear,
							StoreOp:    wgpu.StoreOpStore,
							ClearValue: wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])},
						},
					},
					DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
						View:            t.depthView,
						DepthLoadOp:     wgpu.LoadOpClear,
						DepthStoreOp:    wgpu.StoreOpStore,
						DepthClearValue: 1,
					},
				})
				pass.End()
				pass.Release()
			}

		case *renderer.DrawInstanced:
			uniforms, err := eng.drawInstanced(encoder, cmd)
			if uniforms != nil {
				scratch = append(scratch, uniforms)
			}
			if err != nil {
				submit()
				return nil, err
			}

		case *renderer.Combine:
			if err := eng.combine(encoder, cmd); err != nil {
				submit()
				return nil, err
			}

		case *renderer.Download:
			t, err := eng.getTarget(cmd.Image)
			if err != nil {
				submit()
				return nil, err
			}
			bytesPerRow := jmath.AlignUp32(t.Width*4, copyBytesPerRowAlignment)
			size := uint64(bytesPerRow) * uint64(t.Height)
			readback := eng.pool.getBuf(size, "download", wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst, eng.Device)
			encoder.CopyTextureToBuffer(
				&wgpu.ImageCopyTexture{
					Texture:  t.color,
					MipLevel: 0,
					Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
					Aspect:   wgpu.TextureAspectAll,
				},
				&wgpu.ImageCopyBuffer{
					Buffer: readback,
					Layout: wgpu.TextureDataLayout{
						Offset:       0,
						BytesPerRow:  bytesPerRow,
						RowsPerImage: t.Height,
					},
				},
				&wgpu.Extent3D{
					Width:              t.Width,
					Height:             t.Height,
					DepthOrArrayLayers: 1,
				},
			)
			// downloads are returned in order, so each one flushes the
			// commands recorded so far
			submit()
			img, err := eng.readback(readback, t, bytesPerRow, size)
			eng.pool.put(readback)
			if err != nil {
				return nil, err
			}
			out = append(out, img)
			encoder = eng.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "runes"})

		case *renderer.FreeBuffer:
			// collected up front and released once the recording is submitted

		case *renderer.FreeImage:
			if t, ok := eng.targets.Get(cmd.Image.ID); ok {
				eng.targets.Delete(cmd.Image.ID)
				// TODO(dh): pool targets once sessions start resizing them
				t.release()
			}

		default:
			panic(fmt.Sprintf("unhandled command %T", cmd))
		}
	}

	submit()
	return out, nil
}

func (eng *Engine) drawInstanced(encoder *wgpu.CommandEncoder, cmd *renderer.DrawInstanced) (*wgpu.Buffer, error) {
	prog, ok := eng.programs[cmd.Program]
	if !ok {
		return nil, fmt.Errorf("draw with program %s before it was compiled", cmd.Program)
	}
	t, err := eng.getTarget(cmd.Target)
	if err != nil {
		return nil, err
	}
	vbuf, err := eng.getBuffer(cmd.Vertices)
	if err != nil {
		return nil, err
	}
	ibuf, err := eng.getBuffer(cmd.Indices)
	if err != nil {
		return nil, err
	}
	instbuf, err := eng.getBuffer(cmd.Instances)
	if err != nil {
		return nil, err
	}

	var uniforms *wgpu.Buffer
	var bindGroup *wgpu.BindGroup
	if prog.bindGroupLayout != nil {
		packed := cmd.Uniforms.Pack()
		data := safeish.AsBytes(&packed)
		uniforms = eng.pool.getBuf(uint64(len(data)), "eye uniforms", wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, eng.Device)
		eng.queue.WriteBuffer(uniforms, 0, data)
		bindGroup = eng.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: prog.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  uniforms,
					Size:    ^uint64(0),
				},
			},
		})
		defer bindGroup.Release()
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    t.colorView,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:         t.depthView,
			DepthLoadOp:  wgpu.LoadOpLoad,
			DepthStoreOp: wgpu.StoreOpStore,
		},
	})
	defer pass.Release()

	pass.SetPipeline(prog.pipeline)
	if bindGroup != nil {
		pass.SetBindGroup(0, bindGroup, nil)
	}
	pass.SetVertexBuffer(0, vbuf, 0, wholeSize)
	pass.SetVertexBuffer(1, instbuf, 0, wholeSize)
	pass.SetIndexBuffer(ibuf, wgpu.IndexFormatUint16, 0, wholeSize)
	pass.DrawIndexed(cmd.IndexCount, cmd.InstanceCount, cmd.FirstIndex, 0, 0)
	pass.End()
	return uniforms, nil
}

func (eng *Engine) combine(encoder *wgpu.CommandEncoder, cmd *renderer.Combine) error {
	prog, ok := eng.programs[renderer.ProgramCombine]
	if !ok {
		return fmt.Errorf("combine before program %s was compiled", renderer.ProgramCombine)
	}
	left, err := eng.getTarget(cmd.Left)
	if err != nil {
		return err
	}
	right, err := eng.getTarget(cmd.Right)
	if err != nil {
		return err
	}
	dst, err := eng.getTarget(cmd.Dst)
	if err != nil {
		return err
	}
	if left.Width != dst.Width || left.Height != dst.Height || right.Width != dst.Width || right.Height != dst.Height {
		return &renderer.FramebufferError{
			Target: cmd.Dst.ID,
			Width:  dst.Width,
			Height: dst.Height,
			Reason: "combine inputs differ in size from destination",
		}
	}

	bindGroup := eng.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: prog.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: left.colorView,
				Size:        ^uint64(0),
			},
			{
				Binding:     1,
				TextureView: right.colorView,
				Size:        ^uint64(0),
			},
		},
	})
	defer bindGroup.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "combine",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       dst.colorView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 1, G: 1, B: 1, A: 1},
			},
		},
	})
	defer pass.Release()

	pass.SetPipeline(prog.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(6, 1, 0, 0)
	pass.End()
	return nil
}

func (eng *Engine) readback(buf *wgpu.Buffer, t *targetTexture, bytesPerRow uint32, size uint64) (*image.RGBA, error) {
	if err := <-buf.Map(eng.Device, wgpu.MapModeRead, 0, int(size)); err != nil {
		return nil, fmt.Errorf("mapping readback buffer: %w", err)
	}
	defer buf.Unmap()
	data := safeish.SliceCast[[]byte](buf.ReadOnlyMappedRange(0, int(size)))

	img := image.NewRGBA(image.Rect(0, 0, int(t.Width), int(t.Height)))
	rowBytes := int(t.Width) * 4
	for y := range int(t.Height) {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], data[y*int(bytesPerRow):])
	}
	return img, nil
}

func (pool *resourcePool) getBuf(
	size uint64,
	name string,
	usage wgpu.BufferUsage,
	dev *wgpu.Device,
) *wgpu.Buffer {
	const sizeClassBits = 1

	roundedSize := poolSizeClass(size, sizeClassBits)
	props := bufferProperties{
		size:   roundedSize,
		usages: usage,
	}
	if bufVec, ok := pool.bufs[props]; ok {
		if len(bufVec) > 0 {
			buf := bufVec[len(bufVec)-1]
			bufVec = bufVec[:len(bufVec)-1]
			pool.bufs[props] = bufVec
			return buf
		}
	}
	return dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  roundedSize,
		Usage: usage,
	})
}

func (pool *resourcePool) put(buf *wgpu.Buffer) {
	props := bufferProperties{
		size:   buf.Size(),
		usages: buf.Usage(),
	}
	pool.bufs[props] = append(pool.bufs[props], buf)
}

func poolSizeClass(x uint64, numBits uint32) uint64 {
	if x > 1<<numBits {
		a := bits.LeadingZeros64(x - 1)
		b := (x - 1) | (((math.MaxUint64 / 2) >> numBits) >> a)
		return b + 1
	} else {
		return 1 << numBits
	}
}
