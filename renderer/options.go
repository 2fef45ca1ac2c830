package renderer

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/achilleasa/vao/asset"
	"github.com/achilleasa/vao/occlusion"
	"github.com/achilleasa/vao/sampler"
	"github.com/achilleasa/vao/voxel"
)

type Options struct {
	// Frame dims.
	FrameW uint32 `toml:"frame_width"`
	FrameH uint32 `toml:"frame_height"`

	// Slice map resolution and depth bucket layout.
	Resolution   int `toml:"resolution"`
	Buckets      int `toml:"buckets"`
	ChannelWidth int `toml:"channel_width"`

	// Ray set generation. A zero seed selects a time based seed.
	Samples        int    `toml:"samples"`
	Seed           int64  `toml:"seed"`
	SamplingMethod string `toml:"sampling_method"`

	// Occlusion estimation.
	Radius         float32 `toml:"radius"`
	Steps          int     `toml:"steps"`
	Bias           float32 `toml:"bias"`
	CosineWeighted bool    `toml:"cosine_weighted"`
	AmbientOnly    bool    `toml:"ambient_only"`

	// Number of cpu tracers used by the headless renderer.
	Workers int `toml:"workers"`

	// Object and light rotation speed in degrees per second.
	RotationSpeed float32 `toml:"rotation_speed"`

	// Monitor index for fullscreen interactive rendering; negative values
	// open a window.
	Fullscreen int `toml:"fullscreen"`

	// Log level name.
	LogLevel string `toml:"log_level"`
}

// Get the default renderer options.
func DefaultOptions() Options {
	occ := occlusion.DefaultConfig()
	return Options{
		FrameW:         1280,
		FrameH:         720,
		Resolution:     1024,
		Buckets:        128,
		ChannelWidth:   32,
		Samples:        256,
		SamplingMethod: sampler.MethodCube.String(),
		Radius:         occ.Radius,
		Steps:          occ.Steps,
		Bias:           occ.Bias,
		CosineWeighted: occ.CosineWeighted,
		Workers:        runtime.NumCPU(),
		RotationSpeed:  100,
		Fullscreen:     -1,
		LogLevel:       "notice",
	}
}

// Load options from a TOML resource. Keys missing from the document keep
// their default value; unknown keys are rejected.
func LoadOptions(path string) (Options, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return Options{}, err
	}
	defer res.Close()

	return ReadOptions(res)
}

// Decode options from a TOML stream on top of the defaults.
func ReadOptions(r io.Reader) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Options{}, err
	}

	opts := DefaultOptions()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("renderer: invalid options: %s", err)
	}

	return opts, opts.Validate()
}

// Check the options for consistency.
func (opts Options) Validate() error {
	switch {
	case opts.FrameW == 0 || opts.FrameH == 0:
		return ErrInvalidFrameSize
	case opts.Resolution <= 0:
		return ErrInvalidResolution
	case opts.Samples <= 0:
		return ErrNoSamples
	case opts.Workers <= 0:
		return ErrNoTracers
	case opts.ChannelWidth != 8 && opts.ChannelWidth != 16 && opts.ChannelWidth != 32:
		return ErrChannelWidth
	}

	if err := voxel.ValidateLayout(opts.Buckets, opts.ChannelWidth); err != nil {
		return err
	}
	if _, err := sampler.ParseMethod(opts.SamplingMethod); err != nil {
		return err
	}

	return nil
}

// Build the occlusion evaluator config.
func (opts Options) Occlusion() occlusion.Config {
	return occlusion.Config{
		Enabled:        true,
		Radius:         opts.Radius,
		Steps:          opts.Steps,
		Bias:           opts.Bias,
		CosineWeighted: opts.CosineWeighted,
	}
}

// Generate the ray set described by the options.
func (opts Options) Rays() sampler.RaySet {
	method, _ := sampler.ParseMethod(opts.SamplingMethod)
	return sampler.GenerateWith(opts.Samples, opts.Seed, method)
}
