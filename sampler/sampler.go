// Package sampler generates the fixed set of ray directions used for Monte
// Carlo occlusion estimation.
package sampler

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/achilleasa/vao/types"
)

// The distribution used for generating directions.
type Method uint8

const (
	// Draw x, y, z uniformly in [-1, 1] and normalize. This is cheap but
	// biased towards the cube corners.
	MethodCube Method = iota

	// Reject draws outside the unit ball before normalizing. This yields
	// a uniform distribution on the sphere.
	MethodSphere
)

func (m Method) String() string {
	switch m {
	case MethodCube:
		return "cube"
	case MethodSphere:
		return "sphere"
	}
	return fmt.Sprintf("Method(%d)", m)
}

// Parse a method name.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "cube", "":
		return MethodCube, nil
	case "sphere":
		return MethodSphere, nil
	}
	return MethodCube, fmt.Errorf("sampler: unknown sampling method %q", name)
}

// Draws shorter than this are discarded to avoid normalizing a null vector.
const minDrawLen = 1e-4

// An immutable ordered set of unit directions.
type RaySet struct {
	dirs []types.Vec3
}

// Get the number of directions.
func (rs RaySet) Len() int {
	return len(rs.dirs)
}

// Get direction i.
func (rs RaySet) At(i int) types.Vec3 {
	return rs.dirs[i]
}

// Get a copy of the directions.
func (rs RaySet) Directions() []types.Vec3 {
	return append([]types.Vec3(nil), rs.dirs...)
}

// Generate count unit directions by normalizing cube-uniform draws. A zero
// seed selects a time based seed.
func Generate(count int, seed int64) RaySet {
	return GenerateWith(count, seed, MethodCube)
}

// Generate count unit directions using the given method. Output is fully
// determined by a non-zero seed. A negative count yields an empty set.
func GenerateWith(count int, seed int64, method Method) RaySet {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if count < 0 {
		count = 0
	}
	rng := rand.New(rand.NewSource(seed))

	rs := RaySet{dirs: make([]types.Vec3, 0, count)}
	for len(rs.dirs) < count {
		v := types.XYZ(
			rng.Float32()*2-1,
			rng.Float32()*2-1,
			rng.Float32()*2-1,
		)

		l := v.Len()
		if l < minDrawLen {
			continue
		}
		if method == MethodSphere && l > 1 {
			continue
		}

		rs.dirs = append(rs.dirs, v.Mul(1/l))
	}

	return rs
}
