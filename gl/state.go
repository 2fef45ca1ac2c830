package gl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/achilleasa/vao/voxel"
)

type capability struct {
	cap     uint32
	enabled bool
}

// Translate a render state into the list of capabilities to toggle and the
// logic op to select.
func stateCapabilities(state voxel.RenderState) ([]capability, uint32) {
	logicOp := uint32(gl.COPY)
	if state.LogicOp == voxel.LogicOpXor {
		logicOp = gl.XOR
	}

	return []capability{
		{gl.COLOR_LOGIC_OP, state.LogicOp != voxel.LogicOpNone},
		{gl.DEPTH_TEST, state.DepthTest},
		{gl.CULL_FACE, state.CullFace == voxel.CullBack},
	}, logicOp
}

// Apply a fixed-function render state.
func ApplyRenderState(state voxel.RenderState) {
	caps, logicOp := stateCapabilities(state)
	for _, c := range caps {
		if c.enabled {
			gl.Enable(c.cap)
		} else {
			gl.Disable(c.cap)
		}
	}
	gl.LogicOp(logicOp)
	if state.CullFace == voxel.CullBack {
		gl.CullFace(gl.BACK)
	}
}
