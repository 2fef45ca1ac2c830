// Package gl implements the deferred pipeline on OpenGL 4.1 core. It
// mirrors the CPU compositor: a voxelization pass that XORs depth masks
// into an integer render target, a geometry pass that fills the G-buffer
// and a fullscreen lighting pass that estimates ambient occlusion from the
// slice map.
package gl

import (
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/deferred"
	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/occlusion"
	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// Uniform block binding points.
const (
	bindingMaterials uint32 = iota
	bindingLights
	bindingMatrices
	bindingVoxel
	bindingRays
	bindingOcclusion
)

// Initialize the OpenGL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "could not init opengl")
	}
	return nil
}

// Get the version string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Set the default framebuffer viewport.
func SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// A Pipeline renders frames of a model with slice map ambient occlusion.
// All methods must be called from the goroutine that owns the GL context.
type Pipeline struct {
	logger log.Logger

	table     *voxel.DepthMaskTable
	volume    *voxel.Volume
	occlusion occlusion.Config
	rayCount  int

	voxelProg *Program
	geomProg  *Program
	lightProg *Program

	sliceTarget *RenderTarget
	gbuffer     *RenderTarget
	masks       *Texture1D

	materials *UniformBuffer
	lights    *UniformBuffer
	matrices  *UniformBuffer
	voxelUB   *UniformBuffer
	rays      *UniformBuffer
	occUB     *UniformBuffer

	meshes []*VertexArray
	screen *VertexArray

	Background types.Vec3

	stats deferred.PassStats
}

// Compile the shaders and allocate the render targets for a frame of the
// given size.
func NewPipeline(model *mesh.Model, table *voxel.DepthMaskTable, vol *voxel.Volume, rays sampler.RaySet, occCfg occlusion.Config, width, height int) (*Pipeline, error) {
	if table.Buckets() != vol.Buckets {
		return nil, errors.Errorf("gl pipeline: depth mask table has %d buckets; volume has %d", table.Buckets(), vol.Buckets)
	}
	if table.Channels() > 2*4 {
		return nil, errors.Errorf("gl pipeline: %d channels do not fit in two RGBA32UI attachments", table.Channels())
	}

	p := &Pipeline{
		logger:    log.New("gl pipeline"),
		table:     table,
		volume:    vol,
		occlusion: occCfg,
		rayCount:  rays.Len(),
	}

	var err error
	if p.voxelProg, err = LoadProgram("voxel", "voxel.vert", "voxel.frag"); err != nil {
		p.Release()
		return nil, errors.Wrap(err, "gl pipeline: voxel program")
	}
	if p.geomProg, err = LoadProgram("geompass", "geompass.vert", "geompass.frag"); err != nil {
		p.Release()
		return nil, errors.Wrap(err, "gl pipeline: geometry program")
	}
	if p.lightProg, err = LoadProgram("lightpass", "lightpass.vert", "lightpass.frag"); err != nil {
		p.Release()
		return nil, errors.Wrap(err, "gl pipeline: lighting program")
	}

	if p.sliceTarget, err = NewRenderTarget(vol.Resolution, vol.Resolution, false, AttachmentRGBA32UI, AttachmentRGBA32UI); err != nil {
		p.Release()
		return nil, errors.Wrap(err, "gl pipeline: slice map target")
	}
	if p.gbuffer, err = NewRenderTarget(width, height, true, AttachmentRGB32F, AttachmentRGB32F, AttachmentR8); err != nil {
		p.Release()
		return nil, errors.Wrap(err, "gl pipeline: gbuffer target")
	}

	p.masks = NewMaskTexture(table)
	p.materials = NewUniformBuffer()
	p.lights = NewUniformBuffer()
	p.matrices = NewUniformBuffer()
	p.voxelUB = NewUniformBuffer()
	p.rays = NewUniformBuffer()
	p.occUB = NewUniformBuffer()
	p.rays.Upload(deferred.EncodeRays(rays))

	for _, m := range model.Meshes {
		p.meshes = append(p.meshes, NewMeshVertexArray(m))
	}
	p.screen = NewFullscreenTriangle()

	p.logger.Infof("pipeline ready: slice map %dx%d with %d buckets, %d rays", vol.Resolution, vol.Resolution, vol.Buckets, rays.Len())
	return p, nil
}

// Resize the G-buffer.
func (p *Pipeline) Resize(width, height int) {
	p.gbuffer.Resize(width, height)
}

// Render a frame into the default framebuffer.
func (p *Pipeline) Render(ctx *deferred.FrameContext, materials []deferred.Material, lighting deferred.Lighting) {
	start := time.Now()
	p.voxelPass(ctx)
	gl.Finish()
	p.stats.Voxel = time.Since(start)

	start = time.Now()
	p.geometryPass(ctx)
	gl.Finish()
	p.stats.Geometry = time.Since(start)

	start = time.Now()
	p.lightingPass(ctx, materials, lighting)
	gl.Finish()
	p.stats.Lighting = time.Since(start)
}

// Get the pass timings of the last frame.
func (p *Pipeline) Stats() deferred.PassStats {
	return p.stats
}

func (p *Pipeline) voxelPass(ctx *deferred.FrameContext) {
	p.sliceTarget.Bind()
	p.sliceTarget.ClearUint(0)
	p.sliceTarget.ClearUint(1)

	ApplyRenderState(voxel.XorState)
	defer ApplyRenderState(voxel.DefaultState)

	// Keep surfaces below the floor; they still toggle their column.
	gl.Enable(gl.DEPTH_CLAMP)
	defer gl.Disable(gl.DEPTH_CLAMP)

	p.voxelUB.Upload(deferred.EncodeVoxel(ctx, p.volume, p.table.ChannelWidth()))

	p.voxelProg.Use()
	p.voxelProg.SetUniformBuffer("VoxelBlock", bindingVoxel, p.voxelUB)
	p.voxelProg.SetTexture("masks", 0, gl.TEXTURE_1D, p.masks.handle)
	p.voxelProg.SetInt("texels_per_entry", int32(TexelsPerEntry(p.table.Channels())))
	for _, va := range p.meshes {
		va.Draw()
	}

	p.sliceTarget.Unbind()
}

func (p *Pipeline) geometryPass(ctx *deferred.FrameContext) {
	p.gbuffer.Bind()
	p.gbuffer.ClearFloat(0, [4]float32{})
	p.gbuffer.ClearFloat(1, [4]float32{})
	p.gbuffer.ClearFloat(2, [4]float32{1, 1, 1, 1})
	p.gbuffer.ClearDepth()

	p.matrices.Upload(deferred.EncodeMatrices(ctx))

	p.geomProg.Use()
	p.geomProg.SetUniformBuffer("MatricesBlock", bindingMatrices, p.matrices)
	p.geomProg.SetInt("material_id", int32(deferred.MaterialObject))
	for _, va := range p.meshes {
		va.Draw()
	}

	p.gbuffer.Unbind()
}

func (p *Pipeline) lightingPass(ctx *deferred.FrameContext, materials []deferred.Material, lighting deferred.Lighting) {
	SetViewport(ctx.Width, ctx.Height)
	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(p.Background[0], p.Background[1], p.Background[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p.materials.Upload(deferred.EncodeMaterials(materials))
	p.lights.Upload(deferred.EncodeLights(ctx, lighting))
	p.occUB.Upload(deferred.EncodeOcclusion(ctx, p.occlusion, p.volume, p.table.ChannelWidth(), p.rayCount))

	gbufTex := p.gbuffer.Textures()
	sliceTex := p.sliceTarget.Textures()

	p.lightProg.Use()
	p.lightProg.SetTexture("position_sampler", 0, gl.TEXTURE_2D, gbufTex[0])
	p.lightProg.SetTexture("normal_sampler", 1, gl.TEXTURE_2D, gbufTex[1])
	p.lightProg.SetTexture("material_sampler", 2, gl.TEXTURE_2D, gbufTex[2])
	p.lightProg.SetTexture("slice_sampler0", 3, gl.TEXTURE_2D, sliceTex[0])
	p.lightProg.SetTexture("slice_sampler1", 4, gl.TEXTURE_2D, sliceTex[1])
	p.lightProg.SetInt("show_occlusion", boolToInt(ctx.ShowOcclusion))
	p.lightProg.SetVec3("background", p.Background)
	p.lightProg.SetUniformBuffer("MaterialsBlock", bindingMaterials, p.materials)
	p.lightProg.SetUniformBuffer("LightsBlock", bindingLights, p.lights)
	p.lightProg.SetUniformBuffer("RaysBlock", bindingRays, p.rays)
	p.lightProg.SetUniformBuffer("OcclusionBlock", bindingOcclusion, p.occUB)
	p.screen.Draw()
}

// Free all GPU resources.
func (p *Pipeline) Release() {
	for _, prog := range []*Program{p.voxelProg, p.geomProg, p.lightProg} {
		if prog != nil {
			prog.Release()
		}
	}
	for _, rt := range []*RenderTarget{p.sliceTarget, p.gbuffer} {
		if rt != nil {
			rt.Release()
		}
	}
	for _, ub := range []*UniformBuffer{p.materials, p.lights, p.matrices, p.voxelUB, p.rays, p.occUB} {
		if ub != nil {
			ub.Release()
		}
	}
	if p.masks != nil {
		p.masks.Release()
	}
	for _, va := range p.meshes {
		va.Release()
	}
	p.meshes = nil
	if p.screen != nil {
		p.screen.Release()
	}
}

func boolToInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
