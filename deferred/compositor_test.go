package deferred

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/occlusion"
	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// A unit cube seen from (0, 0, 3) rendered into a 32x32 frame.
func testCompositor(t *testing.T) (*Compositor, *FrameContext) {
	model := mesh.Cube(1)
	center, radius := model.BoundingSphere()

	table, err := voxel.BuildDepthMaskTable(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	vol, err := voxel.NewVolumeAroundSphere(center, radius*1.05, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := voxel.NewEncoder(table, vol)
	if err != nil {
		t.Fatal(err)
	}

	ctx := NewFrameContext(32, 32)
	ctx.View = types.LookAtV(types.XYZ(0, 0, 3), types.XYZ(0, 0, 0), types.XYZ(0, 1, 0))
	ctx.Projection = types.Perspective4(types.DegToRad(60), 1, 0.1, 10)

	return NewCompositor(model, enc, sampler.Generate(64, 1), occlusion.DefaultConfig()), ctx
}

func TestGeometryPass(t *testing.T) {
	c, ctx := testCompositor(t)
	if err := c.Render(ctx); err != nil {
		t.Fatal(err)
	}

	gb := c.GBuffer()
	if gb.Width != 32 || gb.Height != 32 {
		t.Fatalf("expected 32x32 gbuffer; got %dx%d", gb.Width, gb.Height)
	}

	// The cube projects to roughly 11x11 pixels around the frame center.
	if cov := gb.Coverage(); cov < 80 || cov > 170 {
		t.Fatalf("expected cube to cover between 80 and 170 pixels; got %d", cov)
	}

	type spec struct {
		x, y      int
		expMat    uint8
		expNormal types.Vec3
		expZ      float32
	}
	specs := []spec{
		{16, 16, MaterialObject, types.XYZ(0, 0, 1), -2.5},
		{15, 15, MaterialObject, types.XYZ(0, 0, 1), -2.5},
		{0, 0, NoMaterial, types.Vec3{}, 0},
		{31, 16, NoMaterial, types.Vec3{}, 0},
	}

	for index, s := range specs {
		i := gb.Index(s.x, s.y)
		if gb.Material[i] != s.expMat {
			t.Fatalf("[spec %d] expected pixel (%d, %d) material %d; got %d", index, s.x, s.y, s.expMat, gb.Material[i])
		}
		if !types.ApproxEqual(gb.Normal[i], s.expNormal, 1e-4) {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, gb.Normal[i])
		}
		if math32.Abs(gb.Position[i][2]-s.expZ) > 1e-3 {
			t.Fatalf("[spec %d] expected view space z %f; got %f", index, s.expZ, gb.Position[i][2])
		}
	}

	if c.SliceMap().IsZero() {
		t.Fatal("expected voxel pass to populate the slice map")
	}
}

func TestLightingModes(t *testing.T) {
	type spec struct {
		ambientOnly   bool
		showOcclusion bool
	}
	specs := []spec{
		{false, false},
		{true, false},
		{false, true},
		{true, true},
	}

	for index, s := range specs {
		c, ctx := testCompositor(t)
		ctx.AmbientOnly = s.ambientOnly
		ctx.ShowOcclusion = s.showOcclusion
		if err := c.Render(ctx); err != nil {
			t.Fatal(err)
		}

		gb := c.GBuffer()
		frame := c.Frame()
		for i, factor := range c.Ambient() {
			x, y := i%gb.Width, i/gb.Width
			if factor < 0 || factor > 1 {
				t.Fatalf("[spec %d] ambient factor at (%d, %d) out of range: %f", index, x, y, factor)
			}
			if gb.Material[i] == NoMaterial {
				if factor != 1 {
					t.Fatalf("[spec %d] expected background factor 1 at (%d, %d); got %f", index, x, y, factor)
				}
				if got := frame.RGBAAt(x, y); got != c.Background {
					t.Fatalf("[spec %d] expected background color at (%d, %d); got %v", index, x, y, got)
				}
				continue
			}
			if s.ambientOnly && factor != 1 {
				t.Fatalf("[spec %d] expected unoccluded ambient at (%d, %d); got %f", index, x, y, factor)
			}
			if s.showOcclusion {
				exp := uint8(factor*255 + 0.5)
				got := frame.RGBAAt(x, y)
				if got.R != exp || got.G != exp || got.B != exp {
					t.Fatalf("[spec %d] expected gray %d at (%d, %d); got %v", index, exp, x, y, got)
				}
			}
		}
	}
}

func TestAmbientIgnoresViewScale(t *testing.T) {
	c, ctx := testCompositor(t)
	if err := c.VoxelPass(ctx); err != nil {
		t.Fatal(err)
	}
	evaluator := occlusion.NewEvaluator(occlusion.DefaultConfig(), c.SliceMap(), sampler.Generate(256, 1), c.encoder.Volume.Mapping())

	// A point just beside the cube looking up; the cube blocks part of
	// the hemisphere within the occlusion radius.
	worldP, worldN := types.XYZ(0.6, -0.45, 0.1), types.XYZ(0, 1, 0)
	base := evaluator.Estimate(worldP, worldN)
	if base > 0.95 {
		t.Fatalf("expected the cube to occlude the point; got estimate %f", base)
	}

	type spec struct {
		scale float32
	}
	specs := []spec{
		{1},
		{2},
		{4},
	}

	for index, s := range specs {
		view := ctx.View.Mul4(types.Scale4(types.XYZ(s.scale, s.scale, s.scale)))
		viewP := view.TransformPoint(worldP)
		viewN := view.NormalMatrix().TransformDir(worldN).Normalize()

		got := evaluator.Estimate(newViewToWorld(view).apply(viewP, viewN))
		if math32.Abs(got-base) > 0.02 {
			t.Fatalf("[spec %d] expected estimate %f under view scale %f; got %f", index, base, s.scale, got)
		}
	}
}

func TestShade(t *testing.T) {
	m := Material{
		Diffuse:   types.XYZ(1, 1, 1),
		Ambient:   types.XYZ(1, 1, 1),
		Specular:  types.XYZ(0, 0, 0),
		Shininess: 1,
	}
	globalAmbient := types.XYZ(0.2, 0.2, 0.2)
	p := types.XYZ(0, 0, -2)
	n := types.XYZ(0, 0, 1)

	type spec struct {
		light  viewLight
		factor float32
		exp    float32
	}
	specs := []spec{
		// light straight ahead of the surface
		{viewLight{Light: Light{Diffuse: types.XYZ(1, 1, 1)}, position: types.XYZW(0, 0, 0, 1)}, 1, 1.2},
		// occlusion only scales the ambient term
		{viewLight{Light: Light{Diffuse: types.XYZ(1, 1, 1)}, position: types.XYZW(0, 0, 0, 1)}, 0, 1},
		// light behind the surface
		{viewLight{Light: Light{Diffuse: types.XYZ(1, 1, 1)}, position: types.XYZW(0, 0, -5, 1)}, 0.5, 0.1},
		// directional light
		{viewLight{Light: Light{Diffuse: types.XYZ(1, 1, 1)}, position: types.XYZW(0, 0, 1, 0), directional: true}, 1, 1.2},
		// point outside the spot cone
		{viewLight{
			Light:    Light{Diffuse: types.XYZ(1, 1, 1), IsSpot: true, SpotCutoff: types.DegToRad(10), SpotExponent: 1},
			position: types.XYZW(0, 0, 0, 1),
			spotDir:  types.XYZ(1, 0, 0),
		}, 1, 0.2},
		// point on the spot axis
		{viewLight{
			Light:    Light{Diffuse: types.XYZ(1, 1, 1), IsSpot: true, SpotCutoff: types.DegToRad(10), SpotExponent: 1},
			position: types.XYZW(0, 0, 0, 1),
			spotDir:  types.XYZ(0, 0, -1),
		}, 1, 1.2},
	}

	for index, s := range specs {
		got := shade(p, n, m, globalAmbient, s.light, s.factor)
		if !types.ApproxEqual(got, types.XYZ(s.exp, s.exp, s.exp), 1e-5) {
			t.Fatalf("[spec %d] expected shaded color %f; got %v", index, s.exp, got)
		}
	}
}
