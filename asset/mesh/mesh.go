// Package mesh provides indexed triangle meshes and readers for them.
package mesh

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/vao/types"
)

// An indexed triangle mesh. Positions and Normals are parallel arrays.
type Mesh struct {
	Name      string
	Positions []types.Vec3
	Normals   []types.Vec3
	Indices   []uint32
}

// Get the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Get the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (uint32, uint32, uint32) {
	return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
}

// A Model groups the meshes loaded from a single source.
type Model struct {
	Name   string
	Meshes []*Mesh
}

// Get the total number of triangles across all meshes.
func (m *Model) TriangleCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += mesh.TriangleCount()
	}
	return count
}

// Get the axis aligned bounding box of the model.
func (m *Model) BBox() [2]types.Vec3 {
	inf := math32.Inf(1)
	bbox := [2]types.Vec3{
		types.XYZ(inf, inf, inf),
		types.XYZ(-inf, -inf, -inf),
	}
	empty := true
	for _, mesh := range m.Meshes {
		for _, p := range mesh.Positions {
			bbox[0] = types.MinVec3(bbox[0], p)
			bbox[1] = types.MaxVec3(bbox[1], p)
			empty = false
		}
	}
	if empty {
		return [2]types.Vec3{}
	}
	return bbox
}

// Get a sphere that encloses the model, centered at its bbox center.
func (m *Model) BoundingSphere() (types.Vec3, float32) {
	bbox := m.BBox()
	center := bbox[0].Add(bbox[1]).Mul(0.5)

	var radius float32
	for _, mesh := range m.Meshes {
		for _, p := range mesh.Positions {
			radius = math32.Max(radius, p.Sub(center).Len())
		}
	}
	return center, radius
}

// Create an axis aligned cube with the given edge length, centered at the
// origin. Each face gets its own vertices so that normals stay flat.
func Cube(size float32) *Model {
	h := size * 0.5
	faces := []struct {
		normal  types.Vec3
		corners [4]types.Vec3
	}{
		{types.XYZ(0, 1, 0), [4]types.Vec3{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{types.XYZ(0, -1, 0), [4]types.Vec3{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
		{types.XYZ(1, 0, 0), [4]types.Vec3{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{types.XYZ(-1, 0, 0), [4]types.Vec3{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{types.XYZ(0, 0, 1), [4]types.Vec3{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{types.XYZ(0, 0, -1), [4]types.Vec3{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
	}

	mesh := &Mesh{Name: "cube"}
	for _, face := range faces {
		base := uint32(len(mesh.Positions))
		for _, c := range face.corners {
			mesh.Positions = append(mesh.Positions, c)
			mesh.Normals = append(mesh.Normals, face.normal)
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	return &Model{Name: "cube", Meshes: []*Mesh{mesh}}
}
