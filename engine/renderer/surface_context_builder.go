package renderer

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceContextBuilderOption is a functional option applied to a surfaceContext during
// construction via NewSurfaceContext.
type SurfaceContextBuilderOption func(*surfaceContext)

// WithShader sets the WGSL file and entry points the pipeline is built from.
// The default is "shaders/triangle.wgsl" with vs_main and fs_main.
//
// Parameters:
//   - path: the shader file relative to the source root
//   - vertexEntry: the @vertex function name
//   - fragmentEntry: the @fragment function name
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the shader option
func WithShader(path, vertexEntry, fragmentEntry string) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.shaderPath = path
		c.vertexEntry = vertexEntry
		c.fragmentEntry = fragmentEntry
	}
}

// WithSourceRoot sets the directory shader paths are resolved against.
// Ignored when WithShaderLoader is used.
//
// Parameters:
//   - root: the source root
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the source root option
func WithSourceRoot(root string) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		if root != "" {
			c.sourceRoot = root
		}
	}
}

// WithShaderLoader supplies a loader owned by the caller. The context does not close it.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the loader option
func WithShaderLoader(l shader.Loader) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.loader = l
	}
}

// WithPrefetchWorkers sets the worker count of the loader the context creates for itself.
//
// Parameters:
//   - n: the worker count; zero prefetches on plain goroutines
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the worker option
func WithPrefetchWorkers(n int) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		if n >= 0 {
			c.prefetchWorkers = n
		}
	}
}

// WithClearColor sets the color each frame is cleared to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the clear color option
func WithClearColor(color wgpu.Color) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.clearColor = color
	}
}

// WithPresentMode sets the preferred present mode. It is used only when the surface supports
// it; otherwise the first supported mode is used.
//
// Parameters:
//   - mode: the preferred PresentMode
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.presentMode = mode
	}
}

// WithPowerPreference selects a high-performance (default) or low-power adapter.
//
// Parameters:
//   - p: the PowerPreference
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the power preference option
func WithPowerPreference(p PowerPreference) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.adapterOptions.PowerPreference = p
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the force software renderer option
func WithForceSoftwareRenderer(force bool) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.adapterOptions.ForceFallbackAdapter = force
	}
}

// WithDeviceLabel sets the debug label of the logical device.
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - SurfaceContextBuilderOption: a function that applies the device label option
func WithDeviceLabel(label string) SurfaceContextBuilderOption {
	return func(c *surfaceContext) {
		c.deviceLabel = label
	}
}
