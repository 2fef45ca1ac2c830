// Package scene holds the state of the displayed scene: the model and its
// transforms, the camera and arcball manipulator, the lighting setup and the
// voxelization volume.
package scene

import (
	"errors"
	"time"

	"github.com/chewxy/math32"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/deferred"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

var (
	ErrEmptyModel = errors.New("scene: model contains no triangles")
)

// Default object and light rotation speed in degrees per second.
const DefaultRotationSpeed float32 = 100

// Padding applied to the volume enclosing the object.
const volumePadding float32 = 1.05

type Scene struct {
	Model       *mesh.Model
	Camera      *Camera
	Manipulator *Manipulator

	// Object model matrix. The initial value fits the model into a unit
	// sphere centered at the origin.
	ObjectModel types.Mat4
	LightModel  types.Mat4

	// Rotation toggles and speed in degrees per second.
	RotateObject  bool
	RotateLight   bool
	RotationSpeed float32

	// Lighting pass toggles.
	AmbientOnly   bool
	ShowOcclusion bool

	Materials []deferred.Material
	Lighting  deferred.Lighting

	// The volume voxelized by the occlusion pass. It encloses the object
	// under any rotation about the Y axis.
	Volume *voxel.Volume
}

// Create a scene for a model. The volume is discretized into a slice map
// with the given resolution and bucket count.
func New(model *mesh.Model, resolution, buckets int) (*Scene, error) {
	if model == nil || model.TriangleCount() == 0 {
		return nil, ErrEmptyModel
	}

	center, radius := model.BoundingSphere()
	fit := types.Ident4()
	if radius > 0 {
		fit = types.Scale4(types.XYZ(1/radius, 1/radius, 1/radius)).Mul4(types.Translate4(center.Mul(-1)))
	}

	vol, err := VolumeFor(model, fit, resolution, buckets)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Model:         model,
		Camera:        NewCamera(),
		Manipulator:   NewManipulator(1, 1),
		ObjectModel:   fit,
		LightModel:    types.Ident4(),
		RotationSpeed: DefaultRotationSpeed,
		Materials:     deferred.DefaultMaterials(),
		Lighting:      deferred.DefaultLighting(),
		Volume:        vol,
	}, nil
}

// Build a volume enclosing the model transformed by transform under any
// rotation about the world Y axis. Such rotations keep the height range and
// sweep a disc around the Y axis.
func VolumeFor(model *mesh.Model, transform types.Mat4, resolution, buckets int) (*voxel.Volume, error) {
	minY, maxY := math32.Inf(1), math32.Inf(-1)
	var radiusXZ float32
	for _, m := range model.Meshes {
		for _, p := range m.Positions {
			p = transform.TransformPoint(p)
			minY = math32.Min(minY, p[1])
			maxY = math32.Max(maxY, p[1])
			radiusXZ = math32.Max(radiusXZ, math32.Hypot(p[0], p[2]))
		}
	}

	radius := math32.Max(radiusXZ, (maxY-minY)*0.5) * volumePadding
	if radius == 0 {
		radius = 1
	}
	return voxel.NewVolumeAroundSphere(types.XYZ(0, (minY+maxY)*0.5, 0), radius, resolution, buckets)
}

// Advance the object and light rotations by dt.
func (sc *Scene) Idle(dt time.Duration) {
	angle := types.DegToRad(sc.RotationSpeed * float32(dt.Seconds()))
	if angle == 0 {
		return
	}

	rot := types.Rotate4(angle, types.XYZ(0, 1, 0))
	if sc.RotateObject {
		sc.ObjectModel = rot.Mul4(sc.ObjectModel)
	}
	if sc.RotateLight {
		sc.LightModel = rot.Mul4(sc.LightModel)
	}
}

// Get the view matrix including the manipulator transformation.
func (sc *Scene) View() types.Mat4 {
	return sc.Camera.View().Mul4(sc.Manipulator.MatrixFor(sc.Camera.LookDir()))
}

// Build a frame context for a frame of the given size.
func (sc *Scene) FrameContext(width, height int) *deferred.FrameContext {
	ctx := deferred.NewFrameContext(width, height)
	sc.UpdateFrameContext(ctx)
	return ctx
}

// Copy the current scene state into an existing frame context.
func (sc *Scene) UpdateFrameContext(ctx *deferred.FrameContext) {
	ctx.View = sc.View()
	ctx.Projection = sc.Camera.Projection(ctx.Aspect())
	ctx.ObjectModel = sc.ObjectModel
	ctx.LightModel = sc.LightModel
	ctx.AmbientOnly = sc.AmbientOnly
	ctx.ShowOcclusion = sc.ShowOcclusion
}
