// Package std140 packs scalars, vectors and matrices into byte buffers that
// follow the std140 uniform block layout.
package std140

import (
	"encoding/binary"
	"math"

	"github.com/achilleasa/vao/types"
)

const (
	// Size of a std140 chunk; vec4 aligned members start on a chunk boundary.
	ChunkSize = 16

	// Scalars narrower than this occupy a full word.
	wordSize = 4
)

// A Buffer accumulates values in std140 layout. An add that would overflow
// the current 16 byte chunk completes the chunk first. Arrays and structs
// should be terminated with FinishChunk.
type Buffer struct {
	data []byte

	// Bytes used in the current chunk.
	offset int
}

// Create a new buffer with an optional capacity hint in bytes.
func New(capacity int) *Buffer {
	return &Buffer{
		data: make([]byte, 0, capacity),
	}
}

// Append a float.
func (b *Buffer) AddFloat(v float32) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], math.Float32bits(v))
	b.add(raw[:])
}

// Append a signed int.
func (b *Buffer) AddInt(v int32) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], uint32(v))
	b.add(raw[:])
}

// Append an unsigned int.
func (b *Buffer) AddUint(v uint32) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	b.add(raw[:])
}

// Append a bool. It is stored as a single byte padded to a word.
func (b *Buffer) AddBool(v bool) {
	var raw [1]byte
	if v {
		raw[0] = 1
	}
	b.add(raw[:])
}

// Append a vec3.
func (b *Buffer) AddVec3(v types.Vec3) {
	b.AddFloats(v[:]...)
}

// Append a vec4.
func (b *Buffer) AddVec4(v types.Vec4) {
	b.AddFloats(v[:]...)
}

// Append a column-major mat4.
func (b *Buffer) AddMat4(m types.Mat4) {
	b.AddFloats(m[:]...)
}

// Append a tightly packed run of floats as a single value.
func (b *Buffer) AddFloats(v ...float32) {
	raw := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(f))
	}
	b.add(raw)
}

// Append a tightly packed run of unsigned ints as a single value.
func (b *Buffer) AddUints(v ...uint32) {
	raw := make([]byte, 4*len(v))
	for i, u := range v {
		binary.LittleEndian.PutUint32(raw[4*i:], u)
	}
	b.add(raw)
}

// Pad the current chunk to 16 bytes. Does nothing on a chunk boundary.
func (b *Buffer) FinishChunk() {
	if b.offset == 0 {
		return
	}
	for i := b.offset; i < ChunkSize; i++ {
		b.data = append(b.data, 0)
	}
	b.offset = 0
}

// Get the packed bytes.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Get the number of packed bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Discard the buffer contents.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.offset = 0
}

func (b *Buffer) add(raw []byte) {
	size := len(raw)
	glslSize := size
	if glslSize < wordSize {
		glslSize = wordSize
	}

	if b.offset+size > ChunkSize {
		b.FinishChunk()
	}

	b.data = append(b.data, raw...)
	for i := size; i < glslSize; i++ {
		b.data = append(b.data, 0)
	}

	b.offset = (b.offset + glslSize) % ChunkSize
}
