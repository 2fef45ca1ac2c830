package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/achilleasa/vao/deferred"
	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/scene"
	"github.com/achilleasa/vao/tracer"
	"github.com/achilleasa/vao/tracer/cpu"
	"github.com/achilleasa/vao/voxel"
)

// A headless renderer that runs the deferred pipeline on the CPU. The voxel
// and geometry passes run serially; the lighting pass is split into row
// blocks that are shaded in parallel by a set of cpu tracers.
type DefaultRenderer struct {
	logger log.Logger

	scene      *scene.Scene
	options    Options
	compositor *deferred.Compositor
	ctx        *deferred.FrameContext

	tracers          []tracer.Tracer
	scheduler        tracer.BlockScheduler
	blockAssignments []uint32

	stats FrameStats
}

// Create a headless renderer for a scene.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (*DefaultRenderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	table, err := voxel.BuildDepthMaskTable(sc.Volume.Buckets, opts.ChannelWidth)
	if err != nil {
		return nil, errors.Wrap(err, "renderer: could not build depth mask table")
	}
	encoder, err := voxel.NewEncoder(table, sc.Volume)
	if err != nil {
		return nil, errors.Wrap(err, "renderer: could not create slice map encoder")
	}

	r := &DefaultRenderer{
		logger:     log.New("renderer"),
		scene:      sc,
		options:    opts,
		compositor: deferred.NewCompositor(sc.Model, encoder, opts.Rays(), opts.Occlusion()),
		ctx:        sc.FrameContext(int(opts.FrameW), int(opts.FrameH)),
		scheduler:  scheduler,
	}

	start := time.Now()
	for i := 0; i < opts.Workers; i++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", i))
		if err = tr.Init(); err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "renderer: could not init tracer %s", tr.Id())
		}
		tr.Update(tracer.UpdateShader, r.compositor)
		r.tracers = append(r.tracers, tr)
	}
	r.logger.Noticef("attached %d tracers in %d ms", len(r.tracers), time.Since(start).Nanoseconds()/1e6)

	return r, nil
}

// Render a frame of the scene's current state.
func (r *DefaultRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	r.scene.UpdateFrameContext(r.ctx)
	r.compositor.Materials = r.scene.Materials
	r.compositor.Lighting = r.scene.Lighting

	if err := r.compositor.VoxelPass(r.ctx); err != nil {
		return err
	}
	r.compositor.GeometryPass(r.ctx)

	lightStart := time.Now()
	if err := r.shade(); err != nil {
		return err
	}

	r.stats.Passes = r.compositor.Stats()
	r.stats.Passes.Lighting = time.Since(lightStart)
	r.stats.OccupiedVoxels = r.compositor.SliceMap().OccupiedCount()
	r.stats.RenderTime = time.Since(start)
	r.collectTracerStats()

	r.logger.Infof("rendered frame in %d ms", r.stats.RenderTime.Nanoseconds()/1e6)
	return nil
}

// Split the lighting pass into row blocks and wait for every tracer to
// finish its block.
func (r *DefaultRenderer) shade() error {
	frameH := uint32(r.ctx.Height)
	r.blockAssignments = r.scheduler.Schedule(r.tracers, frameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	pending := 0
	for index, tr := range r.tracers {
		blockH := r.blockAssignments[index]
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			Context:  r.ctx,
			BlockY:   blockY,
			BlockH:   blockH,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += blockH
		pending++
	}

	for pending > 0 {
		select {
		case <-doneChan:
			pending--
		case err := <-errChan:
			return err
		}
	}

	return nil
}

func (r *DefaultRenderer) collectTracerStats() {
	r.stats.Tracers = r.stats.Tracers[:0]
	frameH := float32(r.ctx.Height)
	for index, tr := range r.tracers {
		stat := TracerStat{Id: tr.Id()}
		if trStats := tr.Stats(); trStats != nil {
			stat.RenderTime = trStats.RenderTime
		}
		if index < len(r.blockAssignments) {
			stat.BlockH = r.blockAssignments[index]
			stat.FramePercent = 100 * float32(stat.BlockH) / frameH
		}
		r.stats.Tracers = append(r.stats.Tracers, stat)
	}
}

// Shutdown all attached tracers.
func (r *DefaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get the stats of the last rendered frame.
func (r *DefaultRenderer) Stats() FrameStats {
	return r.stats
}

// Get the last rendered frame.
func (r *DefaultRenderer) Frame() *image.RGBA {
	return r.compositor.Frame()
}

// Get the compositor that owns the frame buffers.
func (r *DefaultRenderer) Compositor() *deferred.Compositor {
	return r.compositor
}
