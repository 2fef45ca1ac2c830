// Package renderer drives the deferred pipeline for a scene, either
// headless on the CPU or interactively through OpenGL.
package renderer

type Renderer interface {
	// Render frame.
	Render() error

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
