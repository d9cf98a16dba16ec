package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceState is the lifecycle state of a SurfaceContext.
type SurfaceState int

const (
	// StateUninitialized is the state before initialization completes and after Release.
	StateUninitialized SurfaceState = iota

	// StateConfigured means the surface has a valid configuration and frames can be rendered.
	StateConfigured

	// StateLost means the surface reported loss or could not be recreated.
	StateLost

	// StateRecreating means a fresh surface exists but has not been configured yet.
	StateRecreating
)

func (s SurfaceState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StateLost:
		return "lost"
	case StateRecreating:
		return "recreating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultMaxFrameLatency is the number of frames the presentation engine may queue.
const DefaultMaxFrameLatency = 2

// DefaultClearColor is the background the triangle is drawn over.
var DefaultClearColor = wgpu.Color{R: 0.5, G: 0.5, B: 0.75, A: 1.0}

// SurfaceTarget is the window the surface presents to. The context does not own it.
type SurfaceTarget interface {
	// SurfaceDescriptor returns the platform descriptor for the window's current native handle.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor used to create a surface
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// FramebufferSize returns the drawable size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	FramebufferSize() (int, int)
}

// surfaceContext is the implementation of the SurfaceContext interface.
type surfaceContext struct {
	mu *sync.Mutex

	target  SurfaceTarget
	backend RendererBackend
	builder pipeline.Builder
	loader  shader.Loader

	ownsLoader bool
	state      SurfaceState
	minimized  bool
	config     SurfaceConfig
	caps       SurfaceCapabilities
	pipeline   pipeline.Pipeline

	// Pre-creation config collected from builder options
	adapterOptions  AdapterOptions
	presentMode     PresentMode
	clearColor      wgpu.Color
	deviceLabel     string
	sourceRoot      string
	shaderPath      string
	vertexEntry     string
	fragmentEntry   string
	prefetchWorkers int
}

// SurfaceContext owns the GPU instance, surface, device, queue, surface configuration and the
// render pipeline for one window, and renders one frame on demand.
//
// The context moves between StateConfigured, StateLost and StateRecreating as the window is
// resized, moved or the surface is invalidated. It never touches the GPU while it is not
// configured.
type SurfaceContext interface {
	// Reconfigure applies a new framebuffer size. When either dimension is zero or negative
	// nothing is applied and the context is marked minimized, so RenderFrame skips frames
	// until a positive size arrives.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Reconfigure(width, height int)

	// RecreateSurface releases the current surface and creates a new one from the target's
	// current descriptor. The new surface is not configured until Reconfigure is called.
	// Capabilities are not queried again and the pipeline is not rebuilt.
	//
	// Returns:
	//   - error: an error wrapping ErrSurfaceCreate if the backend fails; the state becomes StateLost
	RecreateSurface() error

	// RenderFrame clears the next surface texture, draws the triangle and presents it.
	//
	// Returns:
	//   - error: nil, or a *SurfaceError describing why the frame was not presented
	RenderFrame() error

	// ReloadPipeline reads the shader again and rebuilds the pipeline with the current format.
	// On failure the previous pipeline stays in use.
	//
	// Returns:
	//   - error: the build error, if any
	ReloadPipeline() error

	// Config returns the surface configuration last applied.
	//
	// Returns:
	//   - SurfaceConfig: the configuration
	Config() SurfaceConfig

	// Size returns the width and height of the configuration last applied.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// State returns the lifecycle state.
	//
	// Returns:
	//   - SurfaceState: the current state
	State() SurfaceState

	// Minimized reports whether the last Reconfigure carried a zero dimension.
	//
	// Returns:
	//   - bool: true while frames are being skipped
	Minimized() bool

	// Capabilities returns the surface capabilities queried at initialization.
	//
	// Returns:
	//   - SurfaceCapabilities: the capabilities
	Capabilities() SurfaceCapabilities

	// Pipeline returns the render pipeline in use.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline
	Pipeline() pipeline.Pipeline

	// ShaderPath returns the shader file the pipeline is built from, relative to Loader().Root().
	//
	// Returns:
	//   - string: the shader path
	ShaderPath() string

	// Loader returns the shader loader used for pipeline builds.
	//
	// Returns:
	//   - shader.Loader: the loader
	Loader() shader.Loader

	// Release frees the pipeline and every GPU object. The target is left untouched.
	Release()
}

var _ SurfaceContext = &surfaceContext{}

// NewSurfaceContext creates the GPU objects for target and builds the pipeline.
// The shader file is prefetched on the loader's worker pool before the adapter is requested.
//
// Parameters:
//   - target: the window to present to
//   - backend: the GPU backend, normally NewWGPURendererBackend()
//   - options: variadic list of SurfaceContextBuilderOption functions
//
// Returns:
//   - SurfaceContext: the configured context
//   - error: ErrNoAdapter, ErrDeviceRequest, ErrNoSurfaceFormats, ErrInvalidSurfaceSize, ErrSurfaceCreate or a pipeline error
func NewSurfaceContext(target SurfaceTarget, backend RendererBackend, options ...SurfaceContextBuilderOption) (SurfaceContext, error) {
	c := &surfaceContext{
		mu:              &sync.Mutex{},
		target:          target,
		backend:         backend,
		clearColor:      DefaultClearColor,
		deviceLabel:     "Main Device",
		sourceRoot:      pipeline.DefaultSourceRoot,
		shaderPath:      "shaders/triangle.wgsl",
		vertexEntry:     "vs_main",
		fragmentEntry:   "fs_main",
		prefetchWorkers: 2,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.loader == nil {
		c.loader = shader.NewLoader(shader.WithRoot(c.sourceRoot), shader.WithWorkers(c.prefetchWorkers))
		c.ownsLoader = true
	}

	if err := c.initialize(); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func (c *surfaceContext) initialize() error {
	log := common.Logger()

	c.loader.Prefetch(c.shaderPath)

	if err := c.backend.CreateInstance(); err != nil {
		return fmt.Errorf("renderer: create instance: %w", err)
	}
	if err := c.backend.CreateSurface(c.target.SurfaceDescriptor()); err != nil {
		return fmt.Errorf("%w: %w", ErrSurfaceCreate, err)
	}

	adapter, err := c.backend.RequestAdapter(c.adapterOptions)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	log.Info("adapter selected", "adapter", adapter)

	if err := c.backend.RequestDevice(c.deviceLabel); err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceRequest, err)
	}

	c.caps = c.backend.SurfaceCapabilities()
	format, ok := SelectFormat(c.caps.Formats)
	if !ok {
		return ErrNoSurfaceFormats
	}

	width, height := c.target.FramebufferSize()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSurfaceSize, width, height)
	}

	c.config = SurfaceConfig{
		Format:                 format,
		Width:                  width,
		Height:                 height,
		PresentMode:            SelectPresentMode(c.caps.PresentModes, c.presentMode),
		AlphaMode:              selectAlphaMode(c.caps.AlphaModes),
		DesiredMaxFrameLatency: DefaultMaxFrameLatency,
	}
	c.backend.ConfigureSurface(c.config)
	c.state = StateConfigured
	log.Info("surface configured",
		"format", format.String(),
		"srgb", IsSRGB(format),
		"width", width,
		"height", height,
		"present_mode", c.config.PresentMode.String(),
	)

	c.builder = pipeline.NewBuilder(
		pipeline.WithLoader(c.loader),
		pipeline.WithShader(c.shaderPath, c.vertexEntry, c.fragmentEntry),
		pipeline.WithPixelFormat(format),
	)
	p, err := c.builder.Build(c.backend)
	if err != nil {
		return err
	}
	c.pipeline = p
	return nil
}

func (c *surfaceContext) Reconfigure(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width <= 0 || height <= 0 {
		c.minimized = true
		common.Logger().Debug("surface reconfigure skipped", "width", width, "height", height)
		return
	}
	c.config.Width = width
	c.config.Height = height
	c.backend.ConfigureSurface(c.config)
	c.state = StateConfigured
	c.minimized = false
}

func (c *surfaceContext) RecreateSurface() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateRecreating
	if err := c.backend.CreateSurface(c.target.SurfaceDescriptor()); err != nil {
		c.state = StateLost
		return fmt.Errorf("%w: %w", ErrSurfaceCreate, err)
	}
	common.Logger().Debug("surface recreated")
	return nil
}

func (c *surfaceContext) RenderFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.minimized {
		return nil
	}
	switch c.state {
	case StateConfigured:
	case StateLost:
		return newSurfaceError(SurfaceErrorLost, nil)
	case StateRecreating:
		return newSurfaceError(SurfaceErrorOutdated, nil)
	default:
		return newSurfaceError(SurfaceErrorOther, errors.New("surface not initialized"))
	}

	frame, err := c.backend.AcquireFrame()
	if err != nil {
		se := ClassifySurfaceError(err)
		if se.Kind == SurfaceErrorLost {
			c.state = StateLost
		}
		return se
	}
	defer frame.Release()

	encoder, err := c.backend.CreateCommandEncoder("frame encoder")
	if err != nil {
		return newSurfaceError(SurfaceErrorOther, err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(frame, c.clearColor)
	pass.SetPipeline(c.pipeline)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()

	buf, err := encoder.Finish()
	if err != nil {
		return newSurfaceError(SurfaceErrorOther, err)
	}
	c.backend.Submit(buf)
	buf.Release()
	c.backend.Present()
	return nil
}

func (c *surfaceContext) ReloadPipeline() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.builder == nil {
		return errors.New("renderer: context not initialized")
	}
	c.loader.Invalidate(c.shaderPath)
	p, err := c.builder.Build(c.backend)
	if err != nil {
		return err
	}
	if c.pipeline != nil {
		c.pipeline.Release()
	}
	c.pipeline = p
	common.Logger().Info("pipeline reloaded", "shader", c.shaderPath)
	return nil
}

func (c *surfaceContext) Config() SurfaceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

func (c *surfaceContext) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Width, c.config.Height
}

func (c *surfaceContext) State() SurfaceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *surfaceContext) Minimized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minimized
}

func (c *surfaceContext) Capabilities() SurfaceCapabilities {
	return c.caps
}

func (c *surfaceContext) Pipeline() pipeline.Pipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeline
}

func (c *surfaceContext) ShaderPath() string {
	return c.shaderPath
}

func (c *surfaceContext) Loader() shader.Loader {
	return c.loader
}

func (c *surfaceContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pipeline != nil {
		c.pipeline.Release()
		c.pipeline = nil
	}
	c.backend.Release()
	if c.ownsLoader {
		c.loader.Close()
	}
	c.state = StateUninitialized
}
