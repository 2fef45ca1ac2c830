package voxel

import (
	"errors"
	"fmt"
)

// Framebuffer logic operation applied to fragment outputs.
type LogicOp uint8

const (
	// Fragments overwrite the target (blending/logic ops disabled).
	LogicOpNone LogicOp = iota

	// Fragments are XOR-ed into the target.
	LogicOpXor
)

// Face culling mode.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
)

// The fixed function state a pass is rendered with.
type RenderState struct {
	LogicOp   LogicOp
	DepthTest bool
	CullFace  CullMode
}

var (
	// Slice map encoding: every fragment of every face must toggle the
	// target so depth testing and culling are both off.
	XorState = RenderState{LogicOp: LogicOpXor, DepthTest: false, CullFace: CullNone}

	// State used by all other passes.
	DefaultState = RenderState{LogicOp: LogicOpNone, DepthTest: true, CullFace: CullNone}

	ErrInvalidRenderState = errors.New("voxel: slice map encoding requires logic-op XOR with depth testing and culling disabled")
)

func (op LogicOp) String() string {
	switch op {
	case LogicOpNone:
		return "none"
	case LogicOpXor:
		return "xor"
	}
	return fmt.Sprintf("LogicOp(%d)", op)
}

func (s RenderState) String() string {
	cull := "none"
	if s.CullFace == CullBack {
		cull = "back"
	}
	return fmt.Sprintf("logic-op: %s, depth-test: %t, cull: %s", s.LogicOp, s.DepthTest, cull)
}
