package renderer

import (
	"fmt"
	"image"

	"honnef.co/go/runes/profiler"
)

// Program selects one of the fixed draw programs.
type Program int

const (
	// ProgramPlain draws instances with their resolved colour.
	ProgramPlain Program = iota + 1
	// ProgramEye draws instances seen from a camera, fading them toward
	// white with depth and masking them with a colour filter.
	ProgramEye
	// ProgramCombine merges two eye targets into an anaglyph.
	ProgramCombine
)

var Programs = []Program{ProgramPlain, ProgramEye, ProgramCombine}

func (p Program) String() string {
	switch p {
	case ProgramPlain:
		return "plain"
	case ProgramEye:
		return "stereo-eye"
	case ProgramCombine:
		return "stereo-combine"
	default:
		return fmt.Sprintf("Program(%d)", int(p))
	}
}

// Engine is the graphics device as seen by a session.
//
// Static buffers and render targets live until they are freed or the engine
// is released. An engine executes one recording at a time.
type Engine interface {
	// Compile builds the program. Failures are reported as
	// *ShaderCompilationError.
	Compile(p Program) error
	// RunRecording executes rec and returns one image per Download command,
	// in order.
	RunRecording(rec *Recording, pgroup profiler.ProfilerGroup) ([]*image.RGBA, error)
	Release()
}
