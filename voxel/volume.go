package voxel

import (
	"fmt"

	"github.com/achilleasa/vao/types"
)

// A Volume describes the box that gets voxelized and the top-down
// orthographic viewpoint used for encoding it. Slice space coordinates
// (u, v, d) are normalized to [0, 1]: u and v select the slice map texel and
// d the depth bucket, with d = 0 at the top of the box.
type Volume struct {
	Min types.Vec3
	Max types.Vec3

	// Slice map resolution (texels per side).
	Resolution int

	// Number of depth buckets along the encoding axis.
	Buckets int

	view       types.Mat4
	projection types.Mat4
	mapping    types.Mat4
}

// Create a volume for the given box. The box is viewed from above (+Y)
// looking down -Y.
func NewVolume(min, max types.Vec3, resolution, buckets int) (*Volume, error) {
	size := max.Sub(min)
	if size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return nil, fmt.Errorf("voxel: invalid volume bounds %v - %v", min, max)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("voxel: invalid slice map resolution %d", resolution)
	}
	if buckets <= 0 {
		return nil, ErrInvalidBucketCount
	}

	center := min.Add(max).Mul(0.5)
	halfX, halfZ := size[0]*0.5, size[2]*0.5

	eye := types.XYZ(center[0], max[1], center[2])
	target := types.XYZ(center[0], min[1], center[2])
	vol := &Volume{
		Min:        min,
		Max:        max,
		Resolution: resolution,
		Buckets:    buckets,
		view:       types.LookAtV(eye, target, types.XYZ(0, 0, -1)),
		projection: types.Ortho4(-halfX, halfX, -halfZ, halfZ, 0, size[1]),
	}

	// Remap clip space [-1, 1] to [0, 1] and flip v so that row 0 is
	// the top row of the slice map.
	remap := types.Mat4{
		0.5, 0, 0, 0,
		0, -0.5, 0, 0,
		0, 0, 0.5, 0,
		0.5, 0.5, 0.5, 1,
	}
	vol.mapping = remap.Mul4(vol.projection).Mul4(vol.view)

	return vol, nil
}

// Create a cube shaped volume that encloses a sphere. Any rotation of an
// object bounded by the sphere stays inside the volume.
func NewVolumeAroundSphere(center types.Vec3, radius float32, resolution, buckets int) (*Volume, error) {
	ext := types.XYZ(radius, radius, radius)
	return NewVolume(center.Sub(ext), center.Add(ext), resolution, buckets)
}

// Get the encoding view matrix.
func (vol *Volume) View() types.Mat4 {
	return vol.view
}

// Get the encoding orthographic projection matrix.
func (vol *Volume) Projection() types.Mat4 {
	return vol.projection
}

// Get the matrix that maps world space points to slice space.
func (vol *Volume) Mapping() types.Mat4 {
	return vol.mapping
}

// Map a world space point to slice space.
func (vol *Volume) ToSlice(p types.Vec3) types.Vec3 {
	return vol.mapping.TransformPoint(p)
}

// Get the world space height covered by a single depth bucket.
func (vol *Volume) BucketHeight() float32 {
	return (vol.Max[1] - vol.Min[1]) / float32(vol.Buckets)
}

// Get the matrix that maps world space points to the clip space of the
// slice map render target. Window row y of the target then matches slice
// map row y.
func (vol *Volume) ClipMapping() types.Mat4 {
	toClip := types.Mat4{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		-1, -1, -1, 1,
	}
	return toClip.Mul4(vol.mapping)
}
