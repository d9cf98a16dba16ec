package engine

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window the loop polls and closes.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSurface sets the render surface the loop draws to and recreates.
//
// Parameters:
//   - s: the surface, usually a renderer.SurfaceContext
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(s Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithEventBus replaces the default event bus.
//
// Parameters:
//   - bus: the bus every polled event is published on
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEventBus(bus window.EventBus) EngineBuilderOption {
	return func(e *engine) {
		if bus != nil {
			e.bus = bus
		}
	}
}

// WithExitKeys replaces the set of keys that end the loop when pressed.
// Passing no keys disables key exits.
//
// Parameters:
//   - keys: GLFW key codes, see the common package
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithExitKeys(keys ...uint32) EngineBuilderOption {
	return func(e *engine) {
		e.exitKeys = make(map[uint32]struct{}, len(keys))
		for _, k := range keys {
			e.exitKeys[k] = struct{}{}
		}
	}
}

// WithShaderChanges sets a channel of changed shader paths.
// Any receive triggers a pipeline reload before the next frame.
//
// Parameters:
//   - changes: usually shader.Watcher.Changes()
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaderChanges(changes <-chan string) EngineBuilderOption {
	return func(e *engine) {
		e.shaderChanges = changes
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

