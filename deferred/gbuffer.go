package deferred

import (
	"math"

	"github.com/achilleasa/vao/types"
)

// Material id written to pixels not covered by any geometry.
const NoMaterial uint8 = 255

// Per-pixel surface attributes written by the geometry pass. Positions and
// normals are stored in view space. All slices are row-major with row 0 at
// the top of the frame.
type GBuffer struct {
	Width  int
	Height int

	Position []types.Vec3
	Normal   []types.Vec3
	Material []uint8

	// Window space depth used for depth testing.
	Depth []float32
}

// Allocate a cleared G-buffer.
func NewGBuffer(width, height int) *GBuffer {
	gb := &GBuffer{}
	gb.Resize(width, height)
	return gb
}

// Resize the G-buffer. Contents are cleared.
func (gb *GBuffer) Resize(width, height int) {
	count := width * height
	gb.Width, gb.Height = width, height
	if cap(gb.Position) < count {
		gb.Position = make([]types.Vec3, count)
		gb.Normal = make([]types.Vec3, count)
		gb.Material = make([]uint8, count)
		gb.Depth = make([]float32, count)
	} else {
		gb.Position = gb.Position[:count]
		gb.Normal = gb.Normal[:count]
		gb.Material = gb.Material[:count]
		gb.Depth = gb.Depth[:count]
	}
	gb.Clear()
}

// Reset all pixels to the background state.
func (gb *GBuffer) Clear() {
	far := float32(math.Inf(1))
	for i := range gb.Material {
		gb.Position[i] = types.Vec3{}
		gb.Normal[i] = types.Vec3{}
		gb.Material[i] = NoMaterial
		gb.Depth[i] = far
	}
}

// Get the index of pixel (x, y).
func (gb *GBuffer) Index(x, y int) int {
	return y*gb.Width + x
}

// Count pixels covered by geometry.
func (gb *GBuffer) Coverage() int {
	count := 0
	for _, id := range gb.Material {
		if id != NoMaterial {
			count++
		}
	}
	return count
}
