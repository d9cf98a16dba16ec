package engine

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-voxel/engine/window"
)

var (
	// ErrNoWindow is returned by Run when the engine was built without a window.
	ErrNoWindow = errors.New("engine: no window")

	// ErrNoSurface is returned by Run when the engine was built without a surface.
	ErrNoSurface = errors.New("engine: no surface")
)

// Surface is the part of renderer.SurfaceContext the frame loop drives.
type Surface interface {
	Reconfigure(width, height int)
	RecreateSurface() error
	RenderFrame() error
	ReloadPipeline() error
	Size() (int, int)
}

var _ Surface = renderer.SurfaceContext(nil)

// engine implements the Engine interface.
// All work happens on the goroutine that calls Run, which must be the window's thread.
type engine struct {
	window  window.Window
	surface Surface
	bus     window.EventBus

	exitKeys      map[uint32]struct{}
	shaderChanges <-chan string

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quit   bool
	frames uint64
}

// Engine is the frame loop. Each iteration polls window events, reacts to close, exit keys,
// moves and resizes, reloads the pipeline when the shader changed and renders one frame.
// Lost and outdated surfaces are recreated and the loop continues.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Bus returns the event bus every polled event is published on.
	//
	// Returns:
	//   - window.EventBus: the bus
	Bus() window.EventBus

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers the function called after each frame.
	//
	// Parameters:
	//   - callback: function to call each frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default); presentation pacing still applies.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of completed loop iterations.
	//
	// Returns:
	//   - uint64: the iteration count
	Frames() uint64

	// Run executes the loop on the calling goroutine until a close is requested.
	//
	// Returns:
	//   - error: ErrNoWindow or ErrNoSurface if the engine is incomplete, nil on normal termination
	Run() error

	// Quit ends the loop after the current iteration.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Escape is the exit key unless WithExitKeys says otherwise.
//
// Parameters:
//   - options: functional options for engine configuration (window, surface, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		bus:      window.NewEventBus(),
		exitKeys: map[uint32]struct{}{common.KeyEsc: {}},
		profiler: profiler.NewProfiler(time.Second),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Bus() window.EventBus {
	return e.bus
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	if e.surface == nil {
		return ErrNoSurface
	}

	lastFrame := time.Now()
	for !e.quit && !e.window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		e.step(dt)

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	common.Logger().Info("frame loop finished", "frames", e.frames)
	return nil
}

// step runs one loop iteration: events, shader reload, render.
func (e *engine) step(dt float32) {
	for _, ev := range e.window.PollEvents() {
		e.dispatch(ev)
		e.bus.Publish(ev)
	}
	if e.quit || e.window.ShouldClose() {
		return
	}

	e.reloadIfShaderChanged()
	e.render()

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
	e.frames++
}

func (e *engine) dispatch(ev window.Event) {
	switch ev.Kind {
	case window.EventClose:
		e.Quit()
	case window.EventKeyPress:
		if _, exit := e.exitKeys[ev.Key]; exit && ev.Action == window.ActionPress {
			e.window.SetShouldClose(true)
			e.Quit()
		}
	case window.EventMoved:
		e.recreate(e.surface.Size())
	case window.EventFramebufferResized:
		e.recreate(ev.Width, ev.Height)
	case window.EventOther:
	default:
		common.Logger().Warn("unhandled window event", "kind", ev.Kind.String())
	}
}

// recreate replaces the surface and applies the given size. A zero size leaves the surface
// unconfigured until the next positive resize.
func (e *engine) recreate(width, height int) {
	if err := e.surface.RecreateSurface(); err != nil {
		common.Logger().Warn("surface recreation failed", "error", err)
		return
	}
	e.surface.Reconfigure(width, height)
}

func (e *engine) render() {
	err := e.surface.RenderFrame()
	if err == nil {
		return
	}
	var se *renderer.SurfaceError
	if errors.As(err, &se) && se.Kind.Recoverable() {
		common.Logger().Debug("surface needs recreation", "kind", se.Kind.String())
		e.recreate(e.surface.Size())
		return
	}
	common.Logger().Warn("frame dropped", "error", err)
}

// reloadIfShaderChanged drains pending shader notifications and rebuilds the pipeline once.
func (e *engine) reloadIfShaderChanged() {
	if e.shaderChanges == nil {
		return
	}
	changed := false
drain:
	for {
		select {
		case _, ok := <-e.shaderChanges:
			if !ok {
				e.shaderChanges = nil
				break drain
			}
			changed = true
		default:
			break drain
		}
	}
	if !changed {
		return
	}
	if err := e.surface.ReloadPipeline(); err != nil {
		common.Logger().Warn("shader reload failed, keeping previous pipeline", "error", err)
	}
}

func (e *engine) Quit() {
	e.quit = true
}

func (e *engine) Frames() uint64 {
	return e.frames
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderCallback registers the function called each frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
