package gl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Returned when a GPU resource fails its completeness check.
type ResourceCreationError struct {
	// The kind of resource, e.g. "framebuffer".
	Target string

	// The status code reported by the driver.
	Status uint32
}

func (e *ResourceCreationError) Error() string {
	return fmt.Sprintf("couldn't create the %s (%s)", e.Target, framebufferStatusName(e.Status))
}

// Returned when a shader stage fails to compile.
type CompileError struct {
	Path  string
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return e.Path + ": " + e.Log
}

// Returned when a program fails to link.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return "link error: " + e.Log
}

func framebufferStatusName(status uint32) string {
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return "complete"
	case gl.FRAMEBUFFER_UNDEFINED:
		return "undefined"
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "incomplete attachment"
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return "missing attachment"
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return "incomplete draw buffer"
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return "incomplete read buffer"
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return "unsupported"
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return "incomplete multisample"
	default:
		return fmt.Sprintf("status 0x%x", status)
	}
}
