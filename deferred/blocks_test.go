package deferred

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/achilleasa/vao/occlusion"
	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

func TestBlockSizes(t *testing.T) {
	vol, err := voxel.NewVolume(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1), 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewFrameContext(4, 4)
	rays := sampler.Generate(10, 1)

	type spec struct {
		name string
		data []byte
		exp  int
	}
	specs := []spec{
		{"materials", EncodeMaterials(DefaultMaterials()), MaxMaterials * 48},
		{"lights", EncodeLights(ctx, DefaultLighting()), 96},
		{"matrices", EncodeMatrices(ctx), 192},
		{"voxel", EncodeVoxel(ctx, vol, 16), 80},
		{"rays", EncodeRays(rays), MaxRays * 16},
		{"rays overflow", EncodeRays(sampler.Generate(MaxRays+5, 1)), MaxRays * 16},
		{"occlusion", EncodeOcclusion(ctx, occlusion.DefaultConfig(), vol, 16, rays.Len()), 176},
	}

	for index, s := range specs {
		if len(s.data) != s.exp {
			t.Fatalf("[spec %d] expected %s block to be %d bytes; got %d", index, s.name, s.exp, len(s.data))
		}
	}
}

func TestEncodeLights(t *testing.T) {
	ctx := NewFrameContext(4, 4)
	ctx.View = types.Translate4(types.XYZ(0, 0, -3))

	lighting := DefaultLighting()
	lighting.Light.Position = types.XYZW(1, 2, 3, 1)
	lighting.Light.IsSpot = true
	lighting.Light.SpotExponent = 8

	data := EncodeLights(ctx, lighting)
	if got := int32(binary.LittleEndian.Uint32(data[12:])); got != 1 {
		t.Fatalf("expected light count 1; got %d", got)
	}

	// the light position is transformed into view space
	expPos := []float32{1, 2, 0, 1}
	for i, exp := range expPos {
		if got := readFloat(data, 16+4*i); got != exp {
			t.Fatalf("expected light position component %d to be %f; got %f", i, exp, got)
		}
	}
	if got := binary.LittleEndian.Uint32(data[60:]); got != 1 {
		t.Fatalf("expected is_spot to be 1; got %d", got)
	}
	if got := readFloat(data, 80); got != 8 {
		t.Fatalf("expected spot exponent 8; got %f", got)
	}
}

func TestEncodeOcclusionCapsSteps(t *testing.T) {
	vol, err := voxel.NewVolume(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1), 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	cfg := occlusion.DefaultConfig()
	cfg.Steps = 64

	type spec struct {
		ambientOnly bool
		rayCount    int
		expEnabled  uint32
		expRays     int32
	}
	specs := []spec{
		{false, 100, 1, 100},
		{true, 2000, 0, MaxRays},
	}

	for index, s := range specs {
		ctx := NewFrameContext(4, 4)
		ctx.AmbientOnly = s.ambientOnly
		data := EncodeOcclusion(ctx, cfg, vol, 16, s.rayCount)

		if got := int32(binary.LittleEndian.Uint32(data[136:])); got != 16 {
			t.Fatalf("[spec %d] expected steps to be capped to 16; got %d", index, got)
		}
		if got := int32(binary.LittleEndian.Uint32(data[140:])); got != s.expRays {
			t.Fatalf("[spec %d] expected ray count %d; got %d", index, s.expRays, got)
		}
		if got := binary.LittleEndian.Uint32(data[144:]); got != s.expEnabled {
			t.Fatalf("[spec %d] expected enabled flag %d; got %d", index, s.expEnabled, got)
		}
	}
}

func TestEncodeRaysPadding(t *testing.T) {
	rays := sampler.Generate(3, 7)
	data := EncodeRays(rays)

	for i := 0; i < 3; i++ {
		dir := rays.At(i)
		for c := 0; c < 3; c++ {
			if got := readFloat(data, 16*i+4*c); got != dir[c] {
				t.Fatalf("expected ray %d component %d to be %f; got %f", i, c, dir[c], got)
			}
		}
	}
	for offset := 3 * 16; offset < len(data); offset++ {
		if data[offset] != 0 {
			t.Fatalf("expected unused ray slots to be zero; byte %d is %d", offset, data[offset])
		}
	}
}

func readFloat(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}
