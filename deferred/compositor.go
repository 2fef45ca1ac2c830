package deferred

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/chewxy/math32"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/occlusion"
	"github.com/achilleasa/vao/raster"
	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// Triangles with a vertex closer than this to the eye plane are dropped.
const minClipW = 1e-5

// Timings of the last rendered frame.
type PassStats struct {
	Voxel    time.Duration
	Geometry time.Duration
	Lighting time.Duration
}

// A Compositor runs the deferred pipeline on the CPU. Passes must be invoked
// in order: VoxelPass, GeometryPass and then ShadeRows for every row of the
// frame. ShadeRows may be called concurrently for disjoint row ranges.
type Compositor struct {
	logger log.Logger

	model     *mesh.Model
	encoder   *voxel.Encoder
	rays      sampler.RaySet
	occlusion occlusion.Config

	Materials  []Material
	Lighting   Lighting
	Background color.RGBA

	sliceMap *voxel.SliceMap
	gbuf     *GBuffer
	ambient  []float32
	frame    *image.RGBA

	stats PassStats
}

// Create a compositor for a model.
func NewCompositor(model *mesh.Model, encoder *voxel.Encoder, rays sampler.RaySet, occCfg occlusion.Config) *Compositor {
	return &Compositor{
		logger:     log.New("compositor"),
		model:      model,
		encoder:    encoder,
		rays:       rays,
		occlusion:  occCfg,
		Materials:  DefaultMaterials(),
		Lighting:   DefaultLighting(),
		Background: color.RGBA{A: 255},
		sliceMap:   encoder.NewSliceMap(),
		gbuf:       NewGBuffer(0, 0),
		frame:      image.NewRGBA(image.Rect(0, 0, 0, 0)),
	}
}

// Render a full frame serially.
func (c *Compositor) Render(ctx *FrameContext) error {
	if err := c.VoxelPass(ctx); err != nil {
		return err
	}
	c.GeometryPass(ctx)

	start := time.Now()
	c.ShadeRows(ctx, 0, ctx.Height)
	c.stats.Lighting = time.Since(start)
	return nil
}

// Encode the object into the slice map using its current model matrix.
func (c *Compositor) VoxelPass(ctx *FrameContext) error {
	start := time.Now()
	if _, err := c.encoder.Render(c.sliceMap, c.model, ctx.ObjectModel); err != nil {
		return fmt.Errorf("voxel pass: %s", err)
	}
	c.stats.Voxel = time.Since(start)
	c.logger.Debugf("voxel pass: %d occupied voxels in %d ms", c.sliceMap.OccupiedCount(), c.stats.Voxel.Nanoseconds()/1e6)
	return nil
}

// Rasterize the object into the G-buffer.
func (c *Compositor) GeometryPass(ctx *FrameContext) {
	start := time.Now()
	c.resize(ctx.Width, ctx.Height)

	modelView := ctx.ModelView()
	normalMat := modelView.NormalMatrix()
	mvp := ctx.Projection.Mul4(modelView)
	vp := raster.Viewport{Width: ctx.Width, Height: ctx.Height}
	w, h := float64(ctx.Width), float64(ctx.Height)

	var viewPos, viewNormal [3]types.Vec3
	var tri [3]raster.Vertex
	for _, m := range c.model.Meshes {
	nextTriangle:
		for t := 0; t < m.TriangleCount(); t++ {
			i0, i1, i2 := m.Triangle(t)
			for k, idx := range [3]uint32{i0, i1, i2} {
				clip := mvp.Mul4x1(m.Positions[idx].Vec4(1))
				if clip[3] < minClipW {
					continue nextTriangle
				}
				invW := 1 / clip[3]
				tri[k] = raster.Vertex{
					X:    float64(clip[0]*invW+1) * 0.5 * w,
					Y:    float64(1-clip[1]*invW) * 0.5 * h,
					Z:    float64(clip[2]*invW)*0.5 + 0.5,
					InvW: float64(invW),
				}
				viewPos[k] = modelView.TransformPoint(m.Positions[idx])
				viewNormal[k] = normalMat.TransformDir(m.Normals[idx])
			}

			vp.Triangle(tri[0], tri[1], tri[2], func(f raster.Fragment) {
				if f.Depth < 0 || f.Depth > 1 {
					return
				}
				index := c.gbuf.Index(f.X, f.Y)
				depth := float32(f.Depth)
				if depth >= c.gbuf.Depth[index] {
					return
				}

				b0, b1, b2 := float32(f.Bary[0]), float32(f.Bary[1]), float32(f.Bary[2])
				c.gbuf.Depth[index] = depth
				c.gbuf.Position[index] = viewPos[0].Mul(b0).Add(viewPos[1].Mul(b1)).Add(viewPos[2].Mul(b2))
				c.gbuf.Normal[index] = viewNormal[0].Mul(b0).Add(viewNormal[1].Mul(b1)).Add(viewNormal[2].Mul(b2)).Normalize()
				c.gbuf.Material[index] = MaterialObject
			})
		}
	}

	c.stats.Geometry = time.Since(start)
	c.logger.Debugf("geometry pass: %d covered pixels in %d ms", c.gbuf.Coverage(), c.stats.Geometry.Nanoseconds()/1e6)
}

// Shade rows [y0, y1) of the frame using the G-buffer and the slice map.
func (c *Compositor) ShadeRows(ctx *FrameContext, y0, y1 int) {
	if y0 < 0 {
		y0 = 0
	}
	if y1 > c.gbuf.Height {
		y1 = c.gbuf.Height
	}

	occCfg := c.occlusion
	occCfg.Enabled = occCfg.Enabled && !ctx.AmbientOnly
	evaluator := occlusion.NewEvaluator(occCfg, c.sliceMap, c.rays, c.encoder.Volume.Mapping())
	toWorld := newViewToWorld(ctx.View)
	light := c.Lighting.Light.toView(ctx)

	for y := y0; y < y1; y++ {
		for x := 0; x < c.gbuf.Width; x++ {
			index := c.gbuf.Index(x, y)
			matID := c.gbuf.Material[index]
			if matID == NoMaterial || int(matID) >= len(c.Materials) {
				c.ambient[index] = 1
				c.frame.SetRGBA(x, y, c.Background)
				continue
			}

			p, n := c.gbuf.Position[index], c.gbuf.Normal[index]
			factor := evaluator.Estimate(toWorld.apply(p, n))
			c.ambient[index] = factor

			if ctx.ShowOcclusion {
				c.frame.SetRGBA(x, y, toRGBA(types.XYZ(factor, factor, factor)))
				continue
			}
			c.frame.SetRGBA(x, y, toRGBA(shade(p, n, c.Materials[matID], c.Lighting.GlobalAmbient, light, factor)))
		}
	}
}

// Get the last rendered frame.
func (c *Compositor) Frame() *image.RGBA {
	return c.frame
}

// Get the G-buffer of the last rendered frame.
func (c *Compositor) GBuffer() *GBuffer {
	return c.gbuf
}

// Get the slice map of the last rendered frame.
func (c *Compositor) SliceMap() *voxel.SliceMap {
	return c.sliceMap
}

// Get the per-pixel ambient factors of the last rendered frame.
func (c *Compositor) Ambient() []float32 {
	return c.ambient
}

// Get the pass timings of the last rendered frame.
func (c *Compositor) Stats() PassStats {
	return c.stats
}

func (c *Compositor) resize(width, height int) {
	c.gbuf.Resize(width, height)
	if len(c.ambient) != width*height {
		c.ambient = make([]float32, width*height)
	}
	if c.frame.Rect.Dx() != width || c.frame.Rect.Dy() != height {
		c.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}
}

// Blinn-Phong shading with the ambient term scaled by the occlusion factor.
func shade(p, n types.Vec3, m Material, globalAmbient types.Vec3, light viewLight, ambientFactor float32) types.Vec3 {
	out := globalAmbient.MulVec(m.Ambient).Mul(ambientFactor)

	var l types.Vec3
	if light.directional {
		l = light.position.Vec3().Normalize()
	} else {
		l = light.position.Homogenize().Sub(p).Normalize()
	}

	intensity := float32(1)
	if light.IsSpot {
		cosAngle := l.Mul(-1).Dot(light.spotDir)
		if cosAngle < math32.Cos(light.SpotCutoff) {
			return out
		}
		intensity = math32.Pow(cosAngle, light.SpotExponent)
	}

	nDotL := n.Dot(l)
	if nDotL <= 0 {
		return out
	}
	out = out.Add(m.Diffuse.MulVec(light.Diffuse).Mul(nDotL * intensity))

	v := p.Mul(-1).Normalize()
	halfVec := l.Add(v).Normalize()
	if nDotH := n.Dot(halfVec); nDotH > 0 {
		out = out.Add(m.Specular.MulVec(light.Specular).Mul(math32.Pow(nDotH, m.Shininess) * intensity))
	}
	return out
}

func toRGBA(c types.Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c[0])*255 + 0.5),
		G: uint8(clamp01(c[1])*255 + 0.5),
		B: uint8(clamp01(c[2])*255 + 0.5),
		A: 255,
	}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
