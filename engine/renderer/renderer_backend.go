package renderer

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the SurfaceContext.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PowerPreference selects which adapter the backend asks for.
type PowerPreference int

const (
	// PowerPreferenceHighPerformance prefers a discrete GPU. This is the default.
	PowerPreferenceHighPerformance PowerPreference = iota

	// PowerPreferenceLowPower prefers an integrated GPU.
	PowerPreferenceLowPower
)

// AdapterOptions are the criteria passed to the backend's adapter request.
type AdapterOptions struct {
	PowerPreference      PowerPreference
	ForceFallbackAdapter bool
}

// SurfaceCapabilities lists what the surface supports with the selected adapter.
// Entries are in the order the driver reports them.
type SurfaceCapabilities struct {
	Formats      []wgpu.TextureFormat
	PresentModes []wgpu.PresentMode
	AlphaModes   []wgpu.CompositeAlphaMode
}

// SurfaceConfig is the configuration applied to the surface. Width and Height are
// always positive when applied.
type SurfaceConfig struct {
	Format      wgpu.TextureFormat
	Width       int
	Height      int
	PresentMode wgpu.PresentMode
	AlphaMode   wgpu.CompositeAlphaMode

	// DesiredMaxFrameLatency is recorded for diagnostics. The wgpu binding has no field
	// for it and the driver default of 2 applies.
	DesiredMaxFrameLatency int
}

// FrameTarget is the texture acquired from the surface for one frame.
type FrameTarget interface {
	// Release frees the texture view and the texture.
	Release()
}

// CommandBuffer is a finished command list ready for submission.
type CommandBuffer interface {
	// Release frees the command buffer.
	Release()
}

// RenderPass records draw commands into a single color attachment.
type RenderPass interface {
	// SetPipeline binds the render pipeline for subsequent draws.
	//
	// Parameters:
	//   - p: the pipeline to bind
	SetPipeline(p pipeline.Pipeline)

	// Draw issues a non-indexed draw with no vertex buffers bound.
	//
	// Parameters:
	//   - vertexCount: the number of vertices
	//   - instanceCount: the number of instances
	//   - firstVertex: the first vertex index
	//   - firstInstance: the first instance index
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// End closes the pass.
	End()

	// Release frees the pass encoder.
	Release()
}

// CommandEncoder records one frame's commands.
type CommandEncoder interface {
	// BeginRenderPass starts a pass that clears target to clear and stores the result.
	//
	// Parameters:
	//   - target: the acquired frame
	//   - clear: the clear color
	//
	// Returns:
	//   - RenderPass: the open pass
	BeginRenderPass(target FrameTarget, clear wgpu.Color) RenderPass

	// Finish closes the encoder.
	//
	// Returns:
	//   - CommandBuffer: the recorded commands
	//   - error: an error if encoding failed
	Finish() (CommandBuffer, error)

	// Release frees the encoder.
	Release()
}

// RendererBackend is the GPU collaborator driven by the SurfaceContext. Each method maps to
// one step of the surface lifecycle so the lifecycle itself can be exercised without a GPU.
// It also compiles pipelines for pipeline.Builder.
type RendererBackend interface {
	pipeline.Device

	// Type reports which GPU API the backend implements.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	Type() RendererBackendType

	// CreateInstance creates the graphics instance. It is called once.
	//
	// Returns:
	//   - error: an error if the instance cannot be created
	CreateInstance() error

	// CreateSurface creates a surface for the native window described by desc, replacing
	// any surface the backend holds. The previous surface is released.
	//
	// Parameters:
	//   - desc: the platform surface descriptor
	//
	// Returns:
	//   - error: an error if the surface cannot be created
	CreateSurface(desc *wgpu.SurfaceDescriptor) error

	// ReleaseSurface releases the current surface, if any.
	ReleaseSurface()

	// RequestAdapter selects an adapter compatible with the current surface.
	//
	// Parameters:
	//   - opts: the adapter criteria
	//
	// Returns:
	//   - string: a human readable adapter description for logging
	//   - error: an error if no adapter matches
	RequestAdapter(opts AdapterOptions) (string, error)

	// RequestDevice opens the logical device and its queue with default limits.
	//
	// Parameters:
	//   - label: the device debug label
	//
	// Returns:
	//   - error: an error if the device cannot be created
	RequestDevice(label string) error

	// SurfaceCapabilities queries the current surface against the adapter.
	//
	// Returns:
	//   - SurfaceCapabilities: the supported formats, present modes and alpha modes
	SurfaceCapabilities() SurfaceCapabilities

	// ConfigureSurface applies cfg to the current surface.
	//
	// Parameters:
	//   - cfg: the configuration; Width and Height are positive
	ConfigureSurface(cfg SurfaceConfig)

	// AcquireFrame obtains the next presentable texture.
	//
	// Returns:
	//   - FrameTarget: the acquired frame
	//   - error: the acquisition failure, classified by ClassifySurfaceError
	AcquireFrame() (FrameTarget, error)

	// CreateCommandEncoder starts a command list.
	//
	// Parameters:
	//   - label: the encoder debug label
	//
	// Returns:
	//   - CommandEncoder: the encoder
	//   - error: an error if the encoder cannot be created
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Submit queues buf for execution.
	//
	// Parameters:
	//   - buf: the finished command buffer
	Submit(buf CommandBuffer)

	// Present schedules the acquired frame for display.
	Present()

	// Release frees the device, adapter, surface and instance.
	Release()
}
