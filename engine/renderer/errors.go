package renderer

import "errors"

var (
	// ErrNoAdapter is returned when no adapter is compatible with the surface.
	ErrNoAdapter = errors.New("renderer: no compatible adapter")

	// ErrDeviceRequest is returned when the adapter refuses to open a device.
	ErrDeviceRequest = errors.New("renderer: device request failed")

	// ErrNoSurfaceFormats is returned when the surface reports no supported formats.
	ErrNoSurfaceFormats = errors.New("renderer: surface reports no formats")

	// ErrInvalidSurfaceSize is returned when the window has no drawable area at startup.
	ErrInvalidSurfaceSize = errors.New("renderer: surface size must be positive")

	// ErrSurfaceCreate is returned when the backend cannot create a surface.
	ErrSurfaceCreate = errors.New("renderer: surface creation failed")
)
