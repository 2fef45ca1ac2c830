package renderer

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/achilleasa/vao/deferred"
	"github.com/achilleasa/vao/gl"
	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/scene"
	"github.com/achilleasa/vao/voxel"
)

// The fps counter is logged at this interval.
const fpsInterval = time.Second

// An interactive opengl-based renderer. All methods must be called from the
// main thread.
type interactiveGLRenderer struct {
	logger log.Logger

	scene   *scene.Scene
	options Options
	ctx     *deferred.FrameContext

	// opengl handles
	window   *glfw.Window
	pipeline *gl.Pipeline

	stats FrameStats
}

// Create a new interactive opengl renderer for a scene.
func NewInteractive(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &interactiveGLRenderer{
		logger:  log.New("interactive renderer"),
		scene:   sc,
		options: opts,
	}

	if err := r.initGL(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func (r *interactiveGLRenderer) initGL() error {
	var err error
	if err = glfw.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize glfw")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := int(r.options.FrameW), int(r.options.FrameH)
	monitor := r.selectMonitor()
	if monitor != nil {
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
	}

	r.window, err = glfw.CreateWindow(width, height, "vao", monitor, nil)
	if err != nil {
		return errors.Wrap(err, "could not create opengl window")
	}
	r.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err = gl.Init(); err != nil {
		return err
	}
	r.logger.Noticef("opengl version %s", gl.Version())

	table, err := voxel.BuildDepthMaskTable(r.scene.Volume.Buckets, r.options.ChannelWidth)
	if err != nil {
		return errors.Wrap(err, "could not build depth mask table")
	}

	fbW, fbH := r.window.GetFramebufferSize()
	start := time.Now()
	r.pipeline, err = gl.NewPipeline(r.scene.Model, table, r.scene.Volume, r.options.Rays(), r.options.Occlusion(), fbW, fbH)
	if err != nil {
		return err
	}
	r.logger.Noticef("compiled shaders and allocated render targets in %d ms", time.Since(start).Nanoseconds()/1e6)

	r.ctx = r.scene.FrameContext(fbW, fbH)
	winW, winH := r.window.GetSize()
	r.scene.Manipulator.SetViewport(winW, winH)

	// Bind event callbacks
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)
	r.window.SetFramebufferSizeCallback(r.onFramebufferSizeEvent)
	r.window.SetSizeCallback(r.onWindowSizeEvent)

	return nil
}

// Pick the monitor for fullscreen rendering; nil selects windowed mode.
func (r *interactiveGLRenderer) selectMonitor() *glfw.Monitor {
	if r.options.Fullscreen < 0 {
		return nil
	}

	monitors := glfw.GetMonitors()
	if r.options.Fullscreen >= len(monitors) {
		r.logger.Warningf("monitor %d not available (%d attached); using a window", r.options.Fullscreen, len(monitors))
		return nil
	}
	return monitors[r.options.Fullscreen]
}

// Run the render loop until the window is closed.
func (r *interactiveGLRenderer) Render() error {
	lastFrame := time.Now()
	fpsStart := lastFrame
	frames := 0

	for !r.window.ShouldClose() {
		now := time.Now()
		r.scene.Idle(now.Sub(lastFrame))
		lastFrame = now

		r.scene.UpdateFrameContext(r.ctx)
		r.pipeline.Render(r.ctx, r.scene.Materials, r.scene.Lighting)
		r.stats.Passes = r.pipeline.Stats()
		r.stats.RenderTime = time.Since(now)

		r.window.SwapBuffers()
		glfw.PollEvents()

		frames++
		if elapsed := time.Since(fpsStart); elapsed >= fpsInterval {
			r.logger.Infof("fps: %d", int(float64(frames)/elapsed.Seconds()))
			frames = 0
			fpsStart = time.Now()
		}
	}
	return nil
}

func (r *interactiveGLRenderer) Close() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
	}
	glfw.Terminate()
}

func (r *interactiveGLRenderer) Stats() FrameStats {
	return r.stats
}

func (r *interactiveGLRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	if quit := handleKey(r.scene, key); quit {
		w.SetShouldClose(true)
	}
}

// Apply a key press to the scene. Returns true if the key requests the
// renderer to quit.
func handleKey(sc *scene.Scene, key glfw.Key) bool {
	switch key {
	case glfw.KeyEscape, glfw.KeyQ:
		return true
	case glfw.KeyL:
		sc.RotateLight = !sc.RotateLight
	case glfw.KeyO:
		sc.RotateObject = !sc.RotateObject
	case glfw.KeyA:
		sc.AmbientOnly = !sc.AmbientOnly
	case glfw.KeyS:
		sc.ShowOcclusion = !sc.ShowOcclusion
	case glfw.KeyR:
		sc.Manipulator.Reset()
	}
	return false
}

func (r *interactiveGLRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	var manipButton int
	switch button {
	case glfw.MouseButtonLeft:
		manipButton = scene.ButtonRotate
	case glfw.MouseButtonRight:
		manipButton = scene.ButtonZoom
	default:
		return
	}

	xPos, yPos := w.GetCursorPos()
	r.scene.Manipulator.MouseClick(manipButton, action == glfw.Press, float32(xPos), float32(yPos))
}

func (r *interactiveGLRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	r.scene.Manipulator.MouseMotion(float32(xPos), float32(yPos))
}

func (r *interactiveGLRenderer) onFramebufferSizeEvent(w *glfw.Window, width, height int) {
	if width == 0 || height == 0 {
		return
	}
	r.pipeline.Resize(width, height)
	r.ctx.Width, r.ctx.Height = width, height
	r.logger.Debugf("framebuffer resized to %dx%d", width, height)
}

func (r *interactiveGLRenderer) onWindowSizeEvent(w *glfw.Window, width, height int) {
	r.scene.Manipulator.SetViewport(width, height)
}
