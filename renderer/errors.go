package renderer

import "errors"

var (
	ErrNoTracers         = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrInvalidFrameSize  = errors.New("renderer: frame dimensions must be positive")
	ErrInvalidResolution = errors.New("renderer: slice map resolution must be positive")
	ErrNoSamples         = errors.New("renderer: ray sample count must be positive")
	ErrChannelWidth      = errors.New("renderer: slice map channel width must be 8, 16 or 32")
)
