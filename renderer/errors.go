package renderer

import (
	"errors"
	"fmt"
)

// ErrRenderContextUnavailable is returned when a session has no engine,
// either because none was supplied or because it has been released.
var ErrRenderContextUnavailable = errors.New("render context unavailable")

type ShaderCompilationError struct {
	Program Program
	// Log is the compiler's diagnostic output, if any.
	Log string
	Err error
}

func (err *ShaderCompilationError) Error() string {
	msg := fmt.Sprintf("compiling %s program", err.Program)
	if err.Log != "" {
		msg += ": " + err.Log
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *ShaderCompilationError) Unwrap() error { return err.Err }

// FramebufferError reports a render target that could not be created or
// is incomplete.
type FramebufferError struct {
	Target ResourceID
	Width  uint32
	Height uint32
	Reason string
}

func (err *FramebufferError) Error() string {
	return fmt.Sprintf("framebuffer %d (%dx%d) incomplete: %s", err.Target, err.Width, err.Height, err.Reason)
}
