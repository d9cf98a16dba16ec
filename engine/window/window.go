package window

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and a pollable event stream.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// PollEvents processes pending platform events without blocking and returns the events
	// that arrived since the previous call, in arrival order.
	//
	// Returns:
	//   - []Event: the new events, or nil if there were none
	PollEvents() []Event

	// FramebufferSize returns the current drawable size in pixels. On high-DPI displays this
	// differs from the window size. Either value is zero while the window is minimized.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (int, int)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// ShouldClose reports whether the window has been asked to close.
	//
	// Returns:
	//   - bool: true once a close was requested
	ShouldClose() bool

	// SetShouldClose sets or clears the close request flag.
	//
	// Parameters:
	//   - value: the new flag value
	SetShouldClose(value bool)

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the queue of events produced by callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// platformHint selects the GLFW platform backend while GLFW initializes, e.g. "wayland".
	platformHint string

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// pending collects events pushed by platform callbacks until the next PollEvents.
	pending []Event
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:  "Awesome Voxel Game",
		width:  800,
		height: 600,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) PollEvents() []Event {
	platformPollEvents(w)
	return w.drain()
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) ShouldClose() bool {
	return platformShouldClose(w)
}

func (w *engineWindow) SetShouldClose(value bool) {
	platformSetShouldClose(w, value)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// push queues ev for the next PollEvents. Platform callbacks call it on the polling thread.
func (w *engineWindow) push(ev Event) {
	w.pending = append(w.pending, ev)
}

func (w *engineWindow) drain() []Event {
	if len(w.pending) == 0 {
		return nil
	}
	out := w.pending
	w.pending = nil
	return out
}

// withEnv runs fn with the environment variable key set to value and restores the previous
// value afterwards. An empty value runs fn with the environment untouched.
func withEnv(key, value string, fn func() error) error {
	if value == "" {
		return fn()
	}
	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		return err
	}
	defer func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	}()
	return fn()
}
