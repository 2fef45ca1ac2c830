package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/achilleasa/vao/cmd"
	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/renderer"
)

var logger = log.New("vao")

// Flags shared by the render sub-commands. Explicitly set flags override the
// values of the config file.
func renderFlags() []cli.Flag {
	defaults := renderer.DefaultOptions()
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: int(defaults.FrameW),
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: int(defaults.FrameH),
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "resolution",
			Value: defaults.Resolution,
			Usage: "slice map resolution",
		},
		cli.IntFlag{
			Name:  "buckets",
			Value: defaults.Buckets,
			Usage: "number of depth buckets",
		},
		cli.IntFlag{
			Name:  "channel-width",
			Value: defaults.ChannelWidth,
			Usage: "bits per slice map channel (8, 16 or 32)",
		},
		cli.IntFlag{
			Name:  "samples",
			Value: defaults.Samples,
			Usage: "number of occlusion rays per pixel",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "ray generation seed; 0 selects a time based seed",
		},
		cli.StringFlag{
			Name:  "sampling",
			Value: defaults.SamplingMethod,
			Usage: "ray sampling method (cube or sphere)",
		},
		cli.Float64Flag{
			Name:  "radius",
			Value: float64(defaults.Radius),
			Usage: "occlusion ray length",
		},
		cli.IntFlag{
			Name:  "steps",
			Value: defaults.Steps,
			Usage: "samples per occlusion ray",
		},
		cli.Float64Flag{
			Name:  "bias",
			Value: float64(defaults.Bias),
			Usage: "ray origin offset along the surface normal",
		},
		cli.BoolFlag{
			Name:  "no-cosine",
			Usage: "disable cosine weighting of occlusion rays",
		},
		cli.BoolFlag{
			Name:  "ambient-only",
			Usage: "disable ambient occlusion",
		},
		cli.Float64Flag{
			Name:  "rotation-speed",
			Value: float64(defaults.RotationSpeed),
			Usage: "object and light rotation speed in degrees per second",
		},
	}
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "vao"
	app.Usage = "render meshes with slice map voxelization ambient occlusion"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "load renderer options from a TOML file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Render a single frame of a wavefront obj model on the CPU. The model is
voxelized into a slice map which is then sampled to estimate the ambient
occlusion of every visible pixel.`,
					ArgsUsage: "model.obj",
					Flags: append(renderFlags(),
						cli.IntFlag{
							Name:  "workers",
							Value: renderer.DefaultOptions().Workers,
							Usage: "number of cpu tracers for the lighting pass",
						},
						cli.Float64Flag{
							Name:  "yaw",
							Usage: "object rotation about the Y axis in degrees",
						},
						cli.Float64Flag{
							Name:  "light-yaw",
							Usage: "light rotation about the Y axis in degrees",
						},
						cli.BoolFlag{
							Name:  "show-occlusion",
							Usage: "output the ambient occlusion factor instead of the shaded frame",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
						cli.StringFlag{
							Name:  "dump-gbuffer",
							Usage: "write the gbuffer position and normal attachments to PREFIX-position.exr and PREFIX-normal.exr",
						},
						cli.StringFlag{
							Name:  "dump-slicemap",
							Usage: "write a compressed slice map snapshot to this file",
						},
						cli.StringFlag{
							Name:  "dump-ao",
							Usage: "write the ambient occlusion factors to this png file",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:        "interactive",
					Usage:       "render interactive view of the scene",
					Description: `Render the model with opengl in a window that can be manipulated with the mouse and keyboard.`,
					ArgsUsage:   "model.obj",
					Flags: append(renderFlags(),
						cli.IntFlag{
							Name:  "fullscreen",
							Value: -1,
							Usage: "render fullscreen on the monitor with this index",
						},
					),
					Action: cmd.RenderInteractive,
				},
			},
		},
		{
			Name:  "inspect",
			Usage: "inspect slice map encoding data",
			Subcommands: []cli.Command{
				{
					Name:  "masks",
					Usage: "print the depth mask table for a bucket layout",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "buckets",
							Value: 32,
							Usage: "number of depth buckets",
						},
						cli.IntFlag{
							Name:  "channel-width",
							Value: 32,
							Usage: "bits per slice map channel",
						},
					},
					Action: cmd.InspectMasks,
				},
				{
					Name:      "slicemap",
					Usage:     "print a summary of a slice map snapshot",
					ArgsUsage: "snapshot_file",
					Action:    cmd.InspectSliceMap,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
