package shaders

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// WGSL's reserved words. The shader compiler rejects them as identifiers
// even though the language doesn't use them.
var reservedWords = strings.Fields(`
	NULL Self abstract active alignas alignof as asm asm_fragment async
	attribute auto await become binding_array cast catch class co_await
	co_return co_yield coherent column_major common compile
	compile_fragment concept const_cast consteval constexpr constinit crate
	debugger decltype delete demote demote_to_helper do dynamic_cast enum
	explicit export extends extern external fallthrough filter final
	finally friend from fxgroup get goto groupshared highp impl implements
	import inline instanceof interface layout lowp macro macro_rules match
	mediump meta mod module move mut mutable namespace new nil noexcept
	noinline nointerpolation noperspective null nullptr of operator package
	packoffset partition pass patch pixelfragment precise precision
	premerge priv protected pub public readonly ref regardless register
	reinterpret_cast require resource restrict self set shared sizeof
	smooth snorm static static_assert static_cast std subroutine super
	target template this thread_local throw trait try type typedef typeid
	typename typeof union unless unorm unsafe unsized use using varying
	virtual volatile wgsl where with writeonly yield
`)

var (
	lineComment = regexp.MustCompile(`//.*`)
	identifier  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

func TestNoReservedIdentifiers(t *testing.T) {
	reserved := make(map[string]bool, len(reservedWords))
	for _, w := range reservedWords {
		reserved[w] = true
	}
	for _, s := range []RenderShader{Collection.Plain, Collection.Eye, Collection.Combine} {
		code := lineComment.ReplaceAllString(string(s.WGSL.Code), "")
		for _, id := range identifier.FindAllString(code, -1) {
			assert.False(t, reserved[id], "%s uses reserved word %q", s.Name, id)
		}
	}
}

func TestEyeUniformMembers(t *testing.T) {
	// EyeUniform on the host is camera followed by the colour filter
	code := string(Collection.Eye.WGSL.Code)
	assert.Regexp(t, `(?s)struct Eye \{\s*camera: mat4x4<f32>,\s*color_filter: vec4<f32>,\s*\}`, code)
}
