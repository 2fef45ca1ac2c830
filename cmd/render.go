package cmd

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/achilleasa/vao/renderer"
	"github.com/achilleasa/vao/tracer"
	"github.com/achilleasa/vao/types"
	"github.com/achilleasa/vao/voxel"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	opts, err := setupOptions(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	sc, err := setupScene(ctx, opts)
	if err != nil {
		return err
	}
	logger.Noticef("loaded %d triangles in %d ms", sc.Model.TriangleCount(), time.Since(start).Nanoseconds()/1e6)

	// Apply the initial object and light orientation
	if yaw := float32(ctx.Float64("yaw")); yaw != 0 {
		sc.ObjectModel = types.Rotate4(types.DegToRad(yaw), types.XYZ(0, 1, 0)).Mul4(sc.ObjectModel)
	}
	if yaw := float32(ctx.Float64("light-yaw")); yaw != 0 {
		sc.LightModel = types.Rotate4(types.DegToRad(yaw), types.XYZ(0, 1, 0))
	}
	sc.ShowOcclusion = ctx.Bool("show-occlusion")

	r, err := renderer.NewDefault(sc, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		return err
	}

	compositor := r.Compositor()
	imgFile := ctx.String("out")
	start = time.Now()
	if err = compositor.SaveFrame(imgFile); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)

	if prefix := ctx.String("dump-gbuffer"); prefix != "" {
		if err = compositor.DumpGBuffer(prefix); err != nil {
			return err
		}
		logger.Noticef("wrote gbuffer attachments to %s-*.exr", prefix)
	}
	if aoFile := ctx.String("dump-ao"); aoFile != "" {
		if err = compositor.DumpAmbient(aoFile); err != nil {
			return err
		}
		logger.Noticef("wrote ambient occlusion factors to %s", aoFile)
	}
	if smFile := ctx.String("dump-slicemap"); smFile != "" {
		if err = writeSliceMap(smFile, compositor.SliceMap()); err != nil {
			return err
		}
		logger.Noticef("wrote slice map snapshot to %s", smFile)
	}

	displayFrameStats(r.Stats())
	return nil
}

// Render an interactive view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	// glfw and the opengl context must stay on the main thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	opts, err := setupOptions(ctx)
	if err != nil {
		return err
	}

	sc, err := setupScene(ctx, opts)
	if err != nil {
		return err
	}

	r, err := renderer.NewInteractive(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Notice("controls: mouse left rotate, mouse right zoom, L/O toggle light/object rotation, A ambient-only, S occlusion view, R reset view, Q quit")
	return r.Render()
}

func writeSliceMap(smFile string, sm *voxel.SliceMap) error {
	f, err := os.Create(smFile)
	if err != nil {
		return err
	}

	if err = voxel.WriteSnapshot(f, sm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", stats.RenderTime.String()})
	table.Render()

	buf.WriteString(fmt.Sprintf("voxel pass: %s (%d occupied voxels), geometry pass: %s, lighting pass: %s\n",
		stats.Passes.Voxel, stats.OccupiedVoxels, stats.Passes.Geometry, stats.Passes.Lighting))
	logger.Noticef("frame statistics\n%s", buf.String())
}
