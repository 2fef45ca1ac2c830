package renderer

import (
	"image/color"
	"testing"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/scene"
	"github.com/achilleasa/vao/tracer"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.FrameW = 48
	opts.FrameH = 32
	opts.Resolution = 32
	opts.Buckets = 32
	opts.Samples = 16
	opts.Seed = 1
	opts.Workers = 3
	return opts
}

func testScene(t *testing.T, opts Options) *scene.Scene {
	sc, err := scene.New(mesh.Cube(1), opts.Resolution, opts.Buckets)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestDefaultRenderer(t *testing.T) {
	opts := testOptions()
	r, err := NewDefault(testScene(t, opts), tracer.NaiveScheduler(), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// Render twice so the second frame reuses the buffers of the first
	for i := 0; i < 2; i++ {
		if err = r.Render(); err != nil {
			t.Fatal(err)
		}
	}

	stats := r.Stats()
	if len(stats.Tracers) != opts.Workers {
		t.Fatalf("expected stats for %d tracers; got %d", opts.Workers, len(stats.Tracers))
	}
	var rows uint32
	var percent float32
	for _, stat := range stats.Tracers {
		rows += stat.BlockH
		percent += stat.FramePercent
	}
	if rows != opts.FrameH {
		t.Fatalf("expected tracer blocks to cover %d rows; got %d", opts.FrameH, rows)
	}
	if percent < 99.9 || percent > 100.1 {
		t.Fatalf("expected block percentages to add up to 100; got %f", percent)
	}
	if stats.OccupiedVoxels == 0 {
		t.Fatal("expected the voxel pass to mark occupied voxels")
	}
	if stats.RenderTime <= 0 {
		t.Fatal("expected a positive render time")
	}

	frame := r.Frame()
	if b := frame.Bounds(); b.Dx() != int(opts.FrameW) || b.Dy() != int(opts.FrameH) {
		t.Fatalf("expected a %dx%d frame; got %v", opts.FrameW, opts.FrameH, b)
	}
	background := color.RGBA{A: 255}
	if got := frame.RGBAAt(0, 0); got != background {
		t.Fatalf("expected corner pixel to be background; got %v", got)
	}
	if got := frame.RGBAAt(int(opts.FrameW)/2, int(opts.FrameH)/2); got == background {
		t.Fatal("expected center pixel to be shaded")
	}
}

func TestNewDefaultErrors(t *testing.T) {
	opts := testOptions()
	if _, err := NewDefault(nil, tracer.NaiveScheduler(), opts); err != ErrSceneNotDefined {
		t.Fatalf("expected error %v; got %v", ErrSceneNotDefined, err)
	}

	sc := testScene(t, opts)
	opts.Workers = 0
	if _, err := NewDefault(sc, tracer.NaiveScheduler(), opts); err != ErrNoTracers {
		t.Fatalf("expected error %v; got %v", ErrNoTracers, err)
	}
}

func TestRenderAfterClose(t *testing.T) {
	opts := testOptions()
	r, err := NewDefault(testScene(t, opts), tracer.PerfectScheduler(), opts)
	if err != nil {
		t.Fatal(err)
	}
	r.Close()

	if err = r.Render(); err != ErrNoTracers {
		t.Fatalf("expected error %v; got %v", ErrNoTracers, err)
	}
}
