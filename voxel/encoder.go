package voxel

import (
	"fmt"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/raster"
	"github.com/achilleasa/vao/types"
)

// An Encoder voxelizes meshes into slice maps on the CPU. For every fragment
// it looks up the depth mask for the fragment's bucket and XORs it into the
// target texel, so each surface crossing toggles all shallower buckets.
// Closed meshes therefore leave exactly the buckets between an entry and an
// exit crossing set. Open or self-intersecting meshes produce garbage.
type Encoder struct {
	Table  *DepthMaskTable
	Volume *Volume

	// Must be XorState for encoding to proceed.
	State RenderState
}

// Create an encoder for the given table and volume.
func NewEncoder(table *DepthMaskTable, vol *Volume) (*Encoder, error) {
	if table.Buckets() != vol.Buckets {
		return nil, fmt.Errorf("voxel: depth mask table has %d buckets; volume expects %d", table.Buckets(), vol.Buckets)
	}
	return &Encoder{
		Table:  table,
		Volume: vol,
		State:  XorState,
	}, nil
}

// Allocate a slice map that matches the encoder layout.
func (e *Encoder) NewSliceMap() *SliceMap {
	return NewSliceMap(e.Volume.Resolution, e.Table.Buckets(), e.Table.ChannelWidth())
}

// Clear a slice map and encode the model into it. If sm is nil a new
// slice map is allocated.
func (e *Encoder) Render(sm *SliceMap, model *mesh.Model, transform types.Mat4) (*SliceMap, error) {
	if sm == nil {
		sm = e.NewSliceMap()
	} else {
		sm.Clear()
	}
	if err := e.Encode(sm, model, transform); err != nil {
		return nil, err
	}
	return sm, nil
}

// XOR the model into an existing slice map without clearing it.
func (e *Encoder) Encode(sm *SliceMap, model *mesh.Model, transform types.Mat4) error {
	if e.State != XorState {
		return ErrInvalidRenderState
	}
	if sm.Resolution != e.Volume.Resolution || sm.Buckets != e.Table.Buckets() || sm.ChannelWidth != e.Table.ChannelWidth() {
		return fmt.Errorf(
			"voxel: slice map layout %dx%d/%d buckets/%d bits does not match encoder layout %dx%d/%d buckets/%d bits",
			sm.Resolution, sm.Resolution, sm.Buckets, sm.ChannelWidth,
			e.Volume.Resolution, e.Volume.Resolution, e.Table.Buckets(), e.Table.ChannelWidth(),
		)
	}

	mapping := e.Volume.Mapping().Mul4(transform)
	res := float64(sm.Resolution)
	vp := raster.Viewport{Width: sm.Resolution, Height: sm.Resolution}

	emit := func(f raster.Fragment) {
		// Crossings above the volume toggle nothing; the matching crossing
		// inside the volume fills the column from the top.
		if f.Depth < 0 {
			return
		}
		sm.Toggle(f.X, f.Y, e.Table.entry(e.Table.CrossingEntry(float32(f.Depth))))
	}

	var tri [3]raster.Vertex
	for _, m := range model.Meshes {
		// Transform each vertex once.
		slicePos := make([]raster.Vertex, len(m.Positions))
		for i, p := range m.Positions {
			s := mapping.TransformPoint(p)
			slicePos[i] = raster.Vertex{
				X:    float64(s[0]) * res,
				Y:    float64(s[1]) * res,
				Z:    float64(s[2]),
				InvW: 1,
			}
		}

		for i := 0; i < m.TriangleCount(); i++ {
			i0, i1, i2 := m.Triangle(i)
			tri[0], tri[1], tri[2] = slicePos[i0], slicePos[i1], slicePos[i2]
			vp.Triangle(tri[0], tri[1], tri[2], emit)
		}
	}

	return nil
}
