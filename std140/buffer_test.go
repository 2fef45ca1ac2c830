package std140

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/achilleasa/vao/types"
)

func TestPackingOffsets(t *testing.T) {
	type spec struct {
		fill   func(b *Buffer)
		expLen int
	}
	specs := []spec{
		// vec3 + float share a chunk
		{func(b *Buffer) { b.AddVec3(types.XYZ(1, 2, 3)); b.AddFloat(4) }, 16},
		// vec3 + vec3 forces a new chunk
		{func(b *Buffer) { b.AddVec3(types.XYZ(1, 2, 3)); b.AddVec3(types.XYZ(1, 2, 3)) }, 28},
		// bool occupies a full word
		{func(b *Buffer) { b.AddBool(true) }, 4},
		{func(b *Buffer) { b.AddBool(true); b.FinishChunk() }, 16},
		// FinishChunk on a boundary is a no-op
		{func(b *Buffer) { b.AddVec4(types.XYZW(1, 2, 3, 4)); b.FinishChunk() }, 16},
		{func(b *Buffer) { b.FinishChunk() }, 0},
		// mat4 after a partial chunk starts on the next boundary
		{func(b *Buffer) { b.AddFloat(1); b.AddMat4(types.Ident4()) }, 80},
		// material block entry: 3 x vec3 + float
		{func(b *Buffer) {
			b.AddVec3(types.XYZ(.8, .8, .8))
			b.AddVec3(types.XYZ(.5, .5, .5))
			b.AddVec3(types.XYZ(.5, .5, .5))
			b.AddFloat(16)
			b.FinishChunk()
		}, 48},
	}

	for index, s := range specs {
		b := New(0)
		s.fill(b)
		if b.Len() != s.expLen {
			t.Fatalf("[spec %d] expected buffer len %d; got %d", index, s.expLen, b.Len())
		}
	}
}

func TestLightBlockLayout(t *testing.T) {
	b := New(0)
	b.AddVec3(types.XYZ(.2, .2, .2))
	b.AddInt(1)
	b.FinishChunk()

	b.AddVec4(types.XYZW(10, 1, 0, .1))
	b.AddVec3(types.XYZ(.7, .7, .7))
	b.AddVec3(types.XYZ(.5, .5, .5))
	b.AddBool(true)
	b.AddVec3(types.XYZ(0, -1, 0))
	b.AddFloat(.785)
	b.AddFloat(16)
	b.FinishChunk()

	if b.Len() != 96 {
		t.Fatalf("expected light block to be 96 bytes; got %d", b.Len())
	}

	data := b.Bytes()
	if got := int32(binary.LittleEndian.Uint32(data[12:])); got != 1 {
		t.Fatalf("expected light count at offset 12 to be 1; got %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[60:]); got != 1 {
		t.Fatalf("expected is_spot flag at offset 60; got %d", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[80:])); got != 16 {
		t.Fatalf("expected spot exponent at offset 80 to be 16; got %f", got)
	}
}

func TestReset(t *testing.T) {
	b := New(64)
	b.AddFloat(1)
	b.Reset()
	b.AddVec3(types.XYZ(1, 1, 1))
	b.AddVec3(types.XYZ(1, 1, 1))
	if b.Len() != 28 {
		t.Fatalf("expected reset buffer to restart chunk tracking; got len %d", b.Len())
	}
}
