// Package occlusion estimates ambient occlusion by marching a fixed set of
// rays through a slice map.
package occlusion

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// Evaluator settings.
type Config struct {
	// When false Estimate reports every point as unoccluded.
	Enabled bool

	// Maximum ray length in world units.
	Radius float32

	// Number of samples per ray; capped to the slice map bucket count.
	Steps int

	// Offset in world units along the surface normal applied to ray origins
	// to avoid self-occlusion.
	Bias float32

	// Weight each ray by the cosine between the ray and the normal.
	CosineWeighted bool
}

// Default evaluator settings.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Radius:         0.5,
		Steps:          32,
		Bias:           0.05,
		CosineWeighted: true,
	}
}

// An Evaluator tests ray sets against a slice map. It only reads its
// inputs so a single instance can be shared by concurrent workers as long
// as the slice map is not being written to.
type Evaluator struct {
	cfg      Config
	sliceMap *voxel.SliceMap
	rays     sampler.RaySet

	// Maps input points to slice space.
	mapping types.Mat4
}

// Create a new evaluator. Estimate expects world space points; the mapping
// matrix transforms them into slice space and is normally the volume
// mapping.
func NewEvaluator(cfg Config, sm *voxel.SliceMap, rays sampler.RaySet, mapping types.Mat4) *Evaluator {
	return &Evaluator{
		cfg:      cfg,
		sliceMap: sm,
		rays:     rays,
		mapping:  mapping,
	}
}

// Get the evaluator settings.
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Replace the point to slice space mapping.
func (e *Evaluator) SetMapping(mapping types.Mat4) {
	e.mapping = mapping
}

// Replace the slice map.
func (e *Evaluator) SetSliceMap(sm *voxel.SliceMap) {
	e.sliceMap = sm
}

// Estimate the ambient visibility of a surface point with normal n; 1 means
// fully unoccluded and 0 fully occluded. With occlusion disabled this
// always returns 1.
func (e *Evaluator) Estimate(p, n types.Vec3) float32 {
	if !e.cfg.Enabled {
		return 1
	}
	return 1 - e.Occlusion(p, n)
}

// Get the (optionally cosine weighted) fraction of rays from p that hit
// occupied voxels. Rays are flipped into the hemisphere around n. Rays
// that leave the slice map volume count as misses.
func (e *Evaluator) Occlusion(p, n types.Vec3) float32 {
	if e.sliceMap == nil || e.rays.Len() == 0 {
		return 0
	}

	n = n.Normalize()
	steps := e.cfg.Steps
	if steps > e.sliceMap.Buckets {
		steps = e.sliceMap.Buckets
	}
	if steps < 1 {
		steps = 1
	}

	origin := p.Add(n.Mul(e.cfg.Bias))
	start := e.mapping.TransformPoint(origin)

	var hits, total float32
	for i := 0; i < e.rays.Len(); i++ {
		dir := e.rays.At(i)
		cos := dir.Dot(n)
		if cos < 0 {
			dir = dir.Mul(-1)
			cos = -cos
		}

		weight := float32(1)
		if e.cfg.CosineWeighted {
			weight = cos
		}
		total += weight

		end := e.mapping.TransformPoint(origin.Add(dir.Mul(e.cfg.Radius)))
		if e.march(start, end, steps) {
			hits += weight
		}
	}

	if total == 0 {
		return 0
	}
	return hits / total
}

// March from start to end (both in slice space) and report whether any of
// the samples lands in an occupied voxel. The march stops as a miss as soon
// as it leaves the volume.
func (e *Evaluator) march(start, end types.Vec3, steps int) bool {
	delta := end.Sub(start).Mul(1 / float32(steps))
	for k := 1; k <= steps; k++ {
		s := start.Add(delta.Mul(float32(k)))
		if !inVolume(s) {
			return false
		}
		if e.Occluded(s) {
			return true
		}
	}
	return false
}

// Test a single slice space sample. Points outside the volume are never
// occluded.
func (e *Evaluator) Occluded(s types.Vec3) bool {
	if e.sliceMap == nil || !inVolume(s) {
		return false
	}

	res := float32(e.sliceMap.Resolution)
	x := int(math32.Floor(s[0] * res))
	y := int(math32.Floor(s[1] * res))
	bucket := voxel.BucketFor(s[2], e.sliceMap.Buckets)
	return e.sliceMap.Occupied(x, y, bucket)
}

func inVolume(s types.Vec3) bool {
	return s[0] >= 0 && s[0] < 1 &&
		s[1] >= 0 && s[1] < 1 &&
		s[2] >= 0 && s[2] <= 1
}
