package wgpu_engine

import (
	"fmt"

	"honnef.co/go/runes/engine/wgpu_engine/shaders"
	"honnef.co/go/runes/renderer"
	"honnef.co/go/wgpu"
)

const (
	colorFormat = wgpu.TextureFormatRGBA8Unorm
	depthFormat = wgpu.TextureFormatDepth32Float

	floatsPerVertex = 4
)

func shaderFor(p renderer.Program) (*shaders.RenderShader, bool) {
	switch p {
	case renderer.ProgramPlain:
		return &shaders.Collection.Plain, true
	case renderer.ProgramEye:
		return &shaders.Collection.Eye, true
	case renderer.ProgramCombine:
		return &shaders.Collection.Combine, true
	default:
		return nil, false
	}
}

// vertexLayouts describes the two vertex streams of the instanced
// programs: positions per vertex and transform plus colour per instance.
func vertexLayouts() []wgpu.VertexBufferLayout {
	instanceAttrs := make([]wgpu.VertexAttribute, 5)
	for i := range instanceAttrs {
		instanceAttrs[i] = wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(i + 1),
		}
	}
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: floatsPerVertex * 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: 20 * 4,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes:  instanceAttrs,
		},
	}
}

func bindGroupLayoutEntries(bindings []shaders.BindType) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, len(bindings))
	for i, typ := range bindings {
		switch typ {
		case shaders.Uniform:
			entries[i] = wgpu.BindGroupLayoutEntry{
				Binding:    uint32(i),
				Visibility: wgpu.ShaderStageVertex,
				Buffer: &wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   0,
				},
			}
		case shaders.ImageRead:
			entries[i] = wgpu.BindGroupLayoutEntry{
				Binding:    uint32(i),
				Visibility: wgpu.ShaderStageFragment,
				Texture: &wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			}
		default:
			panic(fmt.Sprintf("invalid bind type %d", typ))
		}
	}
	return entries
}

type renderProgram struct {
	label           string
	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
}

func (eng *Engine) createRenderPipeline(s *shaders.RenderShader) (prog *renderProgram, err error) {
	defer func() {
		// validation failures surface as panics from the device
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	module := eng.Device.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  s.Name,
		Source: wgpu.ShaderSourceWGSL(s.WGSL.Code),
	})
	defer module.Release()

	var layouts []*wgpu.BindGroupLayout
	var bindLayout *wgpu.BindGroupLayout
	if len(s.Bindings) > 0 {
		bindLayout = eng.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Entries: bindGroupLayoutEntries(s.Bindings),
		})
		layouts = append(layouts, bindLayout)
	}
	pipelineLayout := eng.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            s.Name + " pipeline layout",
		BindGroupLayouts: layouts,
	})
	defer pipelineLayout.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  s.Name + " pipeline",
		Layout: pipelineLayout,
		Vertex: &wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: &wgpu.PrimitiveState{
			Topology:         wgpu.PrimitiveTopologyTriangleList,
			StripIndexFormat: ^wgpu.IndexFormat(0),
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeBack,
		},
		Multisample: &wgpu.MultisampleState{
			Count:                  1,
			Mask:                   ^uint32(0),
			AlphaToCoverageEnabled: false,
		},
	}
	if s.Instanced {
		desc.Vertex.Buffers = vertexLayouts()
		// mirrored transforms flip winding, so both sides are drawn
		desc.Primitive.CullMode = wgpu.CullModeNone
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}
	pipeline := eng.Device.CreateRenderPipeline(desc)

	return &renderProgram{
		label:           s.Name,
		pipeline:        pipeline,
		bindGroupLayout: bindLayout,
	}, nil
}

func (p *renderProgram) release() {
	p.pipeline.Release()
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
	}
}

// targetTexture is a render target's colour and depth attachments.
type targetTexture struct {
	color     *wgpu.Texture
	colorView *wgpu.TextureView
	depth     *wgpu.Texture
	depthView *wgpu.TextureView
	Width     uint32
	Height    uint32
}

func newTargetTexture(dev *wgpu.Device, proxy renderer.ImageProxy) (*targetTexture, error) {
	if proxy.Width == 0 || proxy.Height == 0 {
		return nil, &renderer.FramebufferError{Target: proxy.ID, Width: proxy.Width, Height: proxy.Height, Reason: "zero-sized attachment"}
	}
	if proxy.Width > renderer.MaxTargetSize || proxy.Height > renderer.MaxTargetSize {
		return nil, &renderer.FramebufferError{Target: proxy.ID, Width: proxy.Width, Height: proxy.Height, Reason: "attachment too large"}
	}
	size := wgpu.Extent3D{
		Width:              proxy.Width,
		Height:             proxy.Height,
		DepthOrArrayLayers: 1,
	}
	color := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "target color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
		Format:        colorFormat,
	})
	depth := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "target depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Format:        depthFormat,
	})
	return &targetTexture{
		color:     color,
		colorView: color.CreateView(nil),
		depth:     depth,
		depthView: depth.CreateView(nil),
		Width:     proxy.Width,
		Height:    proxy.Height,
	}, nil
}

func (t *targetTexture) release() {
	t.colorView.Release()
	t.color.Release()
	t.depthView.Release()
	t.depth.Release()
}
