// Package deferred implements the deferred shading pipeline: a voxelization
// pass that encodes the object into a slice map, a geometry pass that fills
// the G-buffer and a lighting pass that shades every pixel using the
// G-buffer and the slice map based ambient occlusion estimate.
package deferred

import "github.com/achilleasa/vao/types"

// The per-frame state shared by all pipeline stages. The renderer owns it and
// updates it between frames; stages only read it.
type FrameContext struct {
	Width  int
	Height int

	View       types.Mat4
	Projection types.Mat4

	// Object and light model matrices.
	ObjectModel types.Mat4
	LightModel  types.Mat4

	// Skip the occlusion estimate; ambient light reaches every point.
	AmbientOnly bool

	// Output the ambient occlusion factor instead of the shaded color.
	ShowOcclusion bool
}

// Create a frame context with identity transforms.
func NewFrameContext(width, height int) *FrameContext {
	return &FrameContext{
		Width:       width,
		Height:      height,
		View:        types.Ident4(),
		Projection:  types.Ident4(),
		ObjectModel: types.Ident4(),
		LightModel:  types.Ident4(),
	}
}

// Get the object model-view matrix.
func (ctx *FrameContext) ModelView() types.Mat4 {
	return ctx.View.Mul4(ctx.ObjectModel)
}

// Get the object model-view-projection matrix.
func (ctx *FrameContext) MVP() types.Mat4 {
	return ctx.Projection.Mul4(ctx.ModelView())
}

// Get the frame aspect ratio.
func (ctx *FrameContext) Aspect() float32 {
	if ctx.Height == 0 {
		return 1
	}
	return float32(ctx.Width) / float32(ctx.Height)
}

// Maps G-buffer view space samples back to world space, where the occlusion
// radius and bias are measured.
type viewToWorld struct {
	point  types.Mat4
	normal types.Mat4
}

func newViewToWorld(view types.Mat4) viewToWorld {
	inv := view.Inv()
	return viewToWorld{point: inv, normal: inv.NormalMatrix()}
}

func (m viewToWorld) apply(p, n types.Vec3) (types.Vec3, types.Vec3) {
	return m.point.TransformPoint(p), m.normal.TransformDir(n).Normalize()
}
