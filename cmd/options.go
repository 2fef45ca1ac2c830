package cmd

import (
	"errors"

	"github.com/urfave/cli"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/renderer"
	"github.com/achilleasa/vao/scene"
)

var errMissingScene = errors.New("missing scene file argument")

// Build renderer options from the defaults, the optional config file and
// the command flags. Only flags that were explicitly set override values
// loaded from the config file.
func setupOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	if cfgFile := ctx.GlobalString("config"); cfgFile != "" {
		var err error
		if opts, err = renderer.LoadOptions(cfgFile); err != nil {
			return opts, err
		}
	}

	if err := setupLogging(ctx, opts.LogLevel); err != nil {
		return opts, err
	}

	if ctx.IsSet("width") {
		opts.FrameW = uint32(ctx.Int("width"))
	}
	if ctx.IsSet("height") {
		opts.FrameH = uint32(ctx.Int("height"))
	}
	if ctx.IsSet("resolution") {
		opts.Resolution = ctx.Int("resolution")
	}
	if ctx.IsSet("buckets") {
		opts.Buckets = ctx.Int("buckets")
	}
	if ctx.IsSet("channel-width") {
		opts.ChannelWidth = ctx.Int("channel-width")
	}
	if ctx.IsSet("samples") {
		opts.Samples = ctx.Int("samples")
	}
	if ctx.IsSet("seed") {
		opts.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("sampling") {
		opts.SamplingMethod = ctx.String("sampling")
	}
	if ctx.IsSet("radius") {
		opts.Radius = float32(ctx.Float64("radius"))
	}
	if ctx.IsSet("steps") {
		opts.Steps = ctx.Int("steps")
	}
	if ctx.IsSet("bias") {
		opts.Bias = float32(ctx.Float64("bias"))
	}
	if ctx.IsSet("no-cosine") {
		opts.CosineWeighted = !ctx.Bool("no-cosine")
	}
	if ctx.IsSet("ambient-only") {
		opts.AmbientOnly = ctx.Bool("ambient-only")
	}
	if ctx.IsSet("workers") {
		opts.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("rotation-speed") {
		opts.RotationSpeed = float32(ctx.Float64("rotation-speed"))
	}
	if ctx.IsSet("fullscreen") {
		opts.Fullscreen = ctx.Int("fullscreen")
	}

	return opts, opts.Validate()
}

// Load the model passed as the command argument and set up a scene for it.
func setupScene(ctx *cli.Context, opts renderer.Options) (*scene.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, errMissingScene
	}

	model, err := mesh.Load(ctx.Args().First())
	if err != nil {
		return nil, err
	}

	sc, err := scene.New(model, opts.Resolution, opts.Buckets)
	if err != nil {
		return nil, err
	}
	sc.AmbientOnly = opts.AmbientOnly
	sc.RotationSpeed = opts.RotationSpeed
	return sc, nil
}
