package renderer

import (
	"time"

	"github.com/achilleasa/vao/deferred"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Per pass timings.
	Passes deferred.PassStats

	// Number of occupied slice map voxels.
	OccupiedVoxels int

	// Total render time for entire frame.
	RenderTime time.Duration
}
