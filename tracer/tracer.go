// Package tracer defines the workers that shade row blocks of the lighting
// pass and the schedulers that split a frame between them.
package tracer

import (
	"time"

	"github.com/achilleasa/vao/deferred"
)

// Tracer capability flags.
type Flag uint8

const (
	// The tracer runs on the local machine.
	Local Flag = 1 << iota

	// The tracer shares the process with the compositor and can read its
	// buffers directly.
	SharedMemory
)

// The type of state update passed to Update.
type UpdateType uint8

const (
	// Payload is a RowShader that replaces the tracer's current shader.
	UpdateShader UpdateType = iota
)

// A RowShader shades a horizontal band of the frame. Implementations must
// allow concurrent calls for disjoint row ranges.
type RowShader interface {
	ShadeRows(ctx *deferred.FrameContext, y0, y1 int)
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// The frame being shaded.
	Context *deferred.FrameContext

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height.
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get tracer capability flags.
	Flags() Flag

	// Get the tracer's computation speed estimate compared to a single
	// cpu worker.
	Speed() uint32

	// Start the tracer worker.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Update tracer state. Updates must not be issued while a block is
	// being processed.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
