package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if height > 0 {
			w.height = height
		}
	}
}

// WithPlatformHint selects the windowing platform, e.g. "wayland" or "x11". The hint is
// exported as GLFW_PLATFORM only while GLFW initializes; the process environment is
// restored afterwards.
//
// Parameters:
//   - platform: the platform name, or "" for the GLFW default
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithPlatformHint(platform string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.platformHint = platform
	}
}
