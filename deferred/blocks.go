package deferred

import (
	"github.com/achilleasa/vao/occlusion"
	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/std140"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// Material ids.
const (
	MaterialObject uint8 = iota
	MaterialGround

	// Size of the materials uniform block array.
	MaxMaterials = 8

	// Size of the rays uniform block array.
	MaxRays = 1024
)

// A Blinn-Phong material.
type Material struct {
	Diffuse   types.Vec3
	Ambient   types.Vec3
	Specular  types.Vec3
	Shininess float32
}

// A point or spot light.
type Light struct {
	// Object space position; w = 0 selects a directional light.
	Position types.Vec4
	Diffuse  types.Vec3
	Specular types.Vec3

	IsSpot        bool
	SpotDirection types.Vec3

	// Cone half angle in radians.
	SpotCutoff   float32
	SpotExponent float32
}

// Scene lighting.
type Lighting struct {
	GlobalAmbient types.Vec3
	Light         Light
}

// Get the default material table.
func DefaultMaterials() []Material {
	return []Material{
		MaterialObject: {
			Diffuse:   types.XYZ(0.8, 0.8, 0.8),
			Ambient:   types.XYZ(0.5, 0.5, 0.5),
			Specular:  types.XYZ(0.5, 0.5, 0.5),
			Shininess: 16,
		},
		MaterialGround: {
			Diffuse:   types.XYZ(0.6, 0.6, 0.6),
			Ambient:   types.XYZ(0.4, 0.4, 0.4),
			Specular:  types.XYZ(0.1, 0.1, 0.1),
			Shininess: 4,
		},
	}
}

// Get the default lighting setup.
func DefaultLighting() Lighting {
	return Lighting{
		GlobalAmbient: types.XYZ(0.2, 0.2, 0.2),
		Light: Light{
			Position:      types.XYZW(10, 1, 0, 0.1),
			Diffuse:       types.XYZ(0.7, 0.7, 0.7),
			Specular:      types.XYZ(0.5, 0.5, 0.5),
			IsSpot:        false,
			SpotDirection: types.XYZ(0, -1, 0),
			SpotCutoff:    types.DegToRad(45),
			SpotExponent:  16,
		},
	}
}

// A light transformed into view space.
type viewLight struct {
	Light

	// View space position (or direction for w = 0).
	position    types.Vec4
	directional bool
	spotDir     types.Vec3
}

func (l Light) toView(ctx *FrameContext) viewLight {
	modelView := ctx.View.Mul4(ctx.LightModel)
	vl := viewLight{
		Light:    l,
		position: modelView.Mul4x1(l.Position),
		spotDir:  modelView.NormalMatrix().TransformDir(l.SpotDirection).Normalize(),
	}
	vl.directional = vl.position[3] == 0
	return vl
}

// Pack the materials block:
//
//	struct Material { vec3 diffuse; vec3 ambient; vec3 specular; float shininess; };
//	layout (std140) uniform MaterialsBlock { Material materials[8]; };
func EncodeMaterials(materials []Material) []byte {
	buf := std140.New(MaxMaterials * 48)
	for i := 0; i < MaxMaterials; i++ {
		var m Material
		if i < len(materials) {
			m = materials[i]
		}
		buf.AddVec3(m.Diffuse)
		buf.AddVec3(m.Ambient)
		buf.AddVec3(m.Specular)
		buf.AddFloat(m.Shininess)
		buf.FinishChunk()
	}
	return buf.Bytes()
}

// Pack the lights block with the light transformed into view space:
//
//	struct Light {
//	    vec4 position; vec3 diffuse; vec3 specular; bool is_spot;
//	    vec3 spot_direction; float spot_cutoff; float spot_exponent;
//	};
//	layout (std140) uniform LightsBlock { vec3 global_ambient; int n_lights; Light lights[1]; };
func EncodeLights(ctx *FrameContext, lighting Lighting) []byte {
	vl := lighting.Light.toView(ctx)

	buf := std140.New(96)
	buf.AddVec3(lighting.GlobalAmbient)
	buf.AddInt(1)
	buf.FinishChunk()

	buf.AddVec4(vl.position)
	buf.AddVec3(vl.Diffuse)
	buf.AddVec3(vl.Specular)
	buf.AddBool(vl.IsSpot)
	buf.AddVec3(vl.spotDir)
	buf.AddFloat(vl.SpotCutoff)
	buf.AddFloat(vl.SpotExponent)
	buf.FinishChunk()
	return buf.Bytes()
}

// Pack the object matrices block:
//
//	layout (std140) uniform MatricesBlock { mat4 mvp; mat4 modelview; mat4 normalmatrix; };
func EncodeMatrices(ctx *FrameContext) []byte {
	modelView := ctx.ModelView()

	buf := std140.New(3 * 64)
	buf.AddMat4(ctx.Projection.Mul4(modelView))
	buf.AddMat4(modelView)
	buf.AddMat4(modelView.NormalMatrix())
	return buf.Bytes()
}

// Pack the voxelization block:
//
//	layout (std140) uniform VoxelBlock { mat4 slice_mvp; int buckets; int channel_width; };
func EncodeVoxel(ctx *FrameContext, vol *voxel.Volume, channelWidth int) []byte {
	buf := std140.New(80)
	buf.AddMat4(vol.ClipMapping().Mul4(ctx.ObjectModel))
	buf.AddInt(int32(vol.Buckets))
	buf.AddInt(int32(channelWidth))
	buf.FinishChunk()
	return buf.Bytes()
}

// Pack the ray directions block:
//
//	layout (std140) uniform RaysBlock { vec4 rays[1024]; };
//
// The block always covers the whole declared array; unused slots are zero.
func EncodeRays(rays sampler.RaySet) []byte {
	buf := std140.New(MaxRays * 16)
	for i := 0; i < MaxRays; i++ {
		if i < rays.Len() {
			buf.AddVec4(rays.At(i).Vec4(0))
			continue
		}
		buf.AddVec4(types.Vec4{})
	}
	return buf.Bytes()
}

// Pack the occlusion block. View space samples are taken back to world space
// with view_inverse; mapping converts world space points into slice space:
//
//	layout (std140) uniform OcclusionBlock {
//	    mat4 mapping; mat4 view_inverse;
//	    float radius; float bias; int steps; int n_rays;
//	    bool enabled; bool cosine_weighted; int resolution; int buckets;
//	    int channel_width;
//	};
func EncodeOcclusion(ctx *FrameContext, cfg occlusion.Config, vol *voxel.Volume, channelWidth, rayCount int) []byte {
	enabled := cfg.Enabled && !ctx.AmbientOnly
	steps := cfg.Steps
	if steps > vol.Buckets {
		steps = vol.Buckets
	}
	if rayCount > MaxRays {
		rayCount = MaxRays
	}

	buf := std140.New(176)
	buf.AddMat4(vol.Mapping())
	buf.AddMat4(ctx.View.Inv())
	buf.AddFloat(cfg.Radius)
	buf.AddFloat(cfg.Bias)
	buf.AddInt(int32(steps))
	buf.AddInt(int32(rayCount))
	buf.AddBool(enabled)
	buf.AddBool(cfg.CosineWeighted)
	buf.AddInt(int32(vol.Resolution))
	buf.AddInt(int32(vol.Buckets))
	buf.AddInt(int32(channelWidth))
	buf.FinishChunk()
	return buf.Bytes()
}
