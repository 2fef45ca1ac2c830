package cmd

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli"

	"github.com/achilleasa/vao/voxel"
)

func testContext(t *testing.T, configFile string, args ...string) *cli.Context {
	globalSet := flag.NewFlagSet("global", flag.ContinueOnError)
	globalSet.String("config", configFile, "")
	globalSet.Bool("v", false, "")
	globalSet.Bool("vv", false, "")

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("width", 0, "")
	set.Int("buckets", 0, "")
	set.Int("samples", 0, "")
	set.Float64("radius", 0, "")
	set.Bool("no-cosine", false, "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}

	return cli.NewContext(nil, set, cli.NewContext(nil, globalSet, nil))
}

func TestSetupOptions(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "vao.toml")
	cfg := "frame_width = 320\nframe_height = 200\nsamples = 8\nbuckets = 64\n"
	if err := os.WriteFile(cfgFile, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := setupOptions(testContext(t, cfgFile, "--width", "640", "--radius", "0.75", "--no-cosine"))
	if err != nil {
		t.Fatal(err)
	}

	// Explicit flags win over the config file
	if opts.FrameW != 640 {
		t.Fatalf("expected frame width 640; got %d", opts.FrameW)
	}
	if opts.Radius != 0.75 {
		t.Fatalf("expected radius 0.75; got %f", opts.Radius)
	}
	if opts.CosineWeighted {
		t.Fatal("expected cosine weighting to be disabled")
	}

	// Unset flags keep the config file values
	if opts.FrameH != 200 || opts.Samples != 8 || opts.Buckets != 64 {
		t.Fatalf("expected config file values 200/8/64; got %d/%d/%d", opts.FrameH, opts.Samples, opts.Buckets)
	}
}

func TestSetupOptionsErrors(t *testing.T) {
	type spec struct {
		config string
		args   []string
		expErr string
	}

	specs := []spec{
		{"", []string{"--buckets", "0"}, "bucket count"},
		{"", []string{"--samples", "0"}, "sample count"},
		{filepath.Join(t.TempDir(), "missing.toml"), nil, "missing.toml"},
	}

	for specIndex, s := range specs {
		_, err := setupOptions(testContext(t, s.config, s.args...))
		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", specIndex, s.expErr, err)
		}
	}
}

func TestSetupSceneMissingArgument(t *testing.T) {
	ctx := testContext(t, "")
	opts, err := setupOptions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = setupScene(ctx, opts); err != errMissingScene {
		t.Fatalf("expected error %v; got %v", errMissingScene, err)
	}
}

func TestWriteMaskTable(t *testing.T) {
	table, err := voxel.BuildDepthMaskTable(16, 8)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	writeMaskTable(&buf, table)
	out := buf.String()

	for _, exp := range []string{"Channel 0", "Channel 1", "| 0 ", "| 15 ", "ff", "7f"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected mask table output to contain %q; got\n%s", exp, out)
		}
	}
	if strings.Contains(out, "Channel 2") {
		t.Fatalf("expected two channels; got\n%s", out)
	}
}

func TestWriteSliceMapSummary(t *testing.T) {
	sm := voxel.NewSliceMap(4, 32, 32)
	sm.Toggle(1, 1, []uint32{0x7})
	sm.Toggle(2, 1, []uint32{0x1})

	var buf bytes.Buffer
	writeSliceMapSummary(&buf, sm)
	out := buf.String()

	for _, exp := range []string{"4x4", "1 x 32 bits", "Occupied voxels", "| 4 ", "Non-empty texels", "12.5 %"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected summary to contain %q; got\n%s", exp, out)
		}
	}
}
