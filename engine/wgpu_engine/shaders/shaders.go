// Package shaders holds the WGSL source of the draw programs.
package shaders

import _ "embed"

type BindType int

const (
	Uniform BindType = iota + 1
	ImageRead
)

// RenderShader is a vertex/fragment program pair sharing one module.
type RenderShader struct {
	Name     string
	Bindings []BindType
	// Whether the program consumes the vertex and instance buffers. The
	// combine program generates its own full-screen quad.
	Instanced bool
	WGSL      WGSLSource
}

type WGSLSource struct {
	Code []byte
}

var (
	//go:embed plain.wgsl
	plainWGSL []byte
	//go:embed eye.wgsl
	eyeWGSL []byte
	//go:embed combine.wgsl
	combineWGSL []byte
)

var Collection = struct {
	Plain   RenderShader
	Eye     RenderShader
	Combine RenderShader
}{
	Plain: RenderShader{
		Name:      "plain",
		Instanced: true,
		WGSL:      WGSLSource{plainWGSL},
	},
	Eye: RenderShader{
		Name:      "eye",
		Bindings:  []BindType{Uniform},
		Instanced: true,
		WGSL:      WGSLSource{eyeWGSL},
	},
	Combine: RenderShader{
		Name:     "combine",
		Bindings: []BindType{ImageRead, ImageRead},
		WGSL:     WGSLSource{combineWGSL},
	},
}
