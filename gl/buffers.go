package gl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// A uniform buffer holding std140 packed data.
type UniformBuffer struct {
	handle uint32
	size   int
}

// Allocate a uniform buffer.
func NewUniformBuffer() *UniformBuffer {
	ub := &UniformBuffer{}
	gl.GenBuffers(1, &ub.handle)
	return ub
}

// Replace the buffer contents.
func (ub *UniformBuffer) Upload(data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.handle)
	if len(data) == ub.size {
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	} else {
		gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
		ub.size = len(data)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Free the buffer.
func (ub *UniformBuffer) Release() {
	if ub.handle != 0 {
		gl.DeleteBuffers(1, &ub.handle)
		ub.handle = 0
	}
}

// A 1D lookup texture with nearest filtering and clamped addressing.
type Texture1D struct {
	handle uint32
	width  int32
}

// Number of RGBA32UI texels used by each depth mask table entry.
func TexelsPerEntry(channels int) int {
	return (channels + 3) / 4
}

// Upload a depth mask table as an RGBA32UI lookup texture. Entry i
// occupies TexelsPerEntry texels starting at i*TexelsPerEntry; the full
// entry sits right after the last bucket.
func NewMaskTexture(table *voxel.DepthMaskTable) *Texture1D {
	texels := TexelsPerEntry(table.Channels())
	entries := table.FullEntry() + 1
	data := make([]uint32, entries*texels*4)
	for i := 0; i < entries; i++ {
		copy(data[i*texels*4:], table.Entry(i))
	}

	tex := &Texture1D{width: int32(entries * texels)}
	gl.GenTextures(1, &tex.handle)
	gl.BindTexture(gl.TEXTURE_1D, tex.handle)
	gl.TexImage1D(gl.TEXTURE_1D, 0, gl.RGBA32UI, tex.width, 0, gl.RGBA_INTEGER, gl.UNSIGNED_INT, gl.Ptr(data))
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_1D, 0)
	return tex
}

// Free the texture.
func (t *Texture1D) Release() {
	if t.handle != 0 {
		gl.DeleteTextures(1, &t.handle)
		t.handle = 0
	}
}

// Vertex attribute locations shared by the mesh shaders.
const (
	positionLocation = 0
	normalLocation   = 1
)

// A vertex array object with its attribute and index buffers.
type VertexArray struct {
	vao     uint32
	buffers []uint32
	count   int32
	indexed bool
}

// Upload a mesh: positions at location 0, normals at location 1 and a
// uint32 index buffer.
func NewMeshVertexArray(m *mesh.Mesh) *VertexArray {
	va := &VertexArray{count: int32(len(m.Indices)), indexed: true}
	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)

	va.addArray(positionLocation, flatten(m.Positions))
	if len(m.Normals) == len(m.Positions) {
		va.addArray(normalLocation, flatten(m.Normals))
	}

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(m.Indices), gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}
	va.buffers = append(va.buffers, ebo)

	gl.BindVertexArray(0)
	return va
}

// Create an attribute-less vertex array that draws a triangle covering the
// whole viewport. The vertex shader derives positions from gl_VertexID.
func NewFullscreenTriangle() *VertexArray {
	va := &VertexArray{count: 3}
	gl.GenVertexArrays(1, &va.vao)
	return va
}

func (va *VertexArray) addArray(location uint32, data []float32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, 3, gl.FLOAT, false, 0, nil)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	va.buffers = append(va.buffers, vbo)
}

// Draw the vertex array as triangles.
func (va *VertexArray) Draw() {
	if va.count == 0 {
		return
	}
	gl.BindVertexArray(va.vao)
	if va.indexed {
		gl.DrawElements(gl.TRIANGLES, va.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, va.count)
	}
	gl.BindVertexArray(0)
}

// Free the vertex array and its buffers.
func (va *VertexArray) Release() {
	if len(va.buffers) != 0 {
		gl.DeleteBuffers(int32(len(va.buffers)), &va.buffers[0])
		va.buffers = nil
	}
	if va.vao != 0 {
		gl.DeleteVertexArrays(1, &va.vao)
		va.vao = 0
	}
}

func flatten(v []types.Vec3) []float32 {
	out := make([]float32, 0, 3*len(v))
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}
