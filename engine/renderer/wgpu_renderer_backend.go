package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackend struct {
	mu     sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
}

var _ RendererBackend = &wgpuRendererBackend{}

// NewWGPURendererBackend creates a RendererBackend on top of cogentcore/webgpu. No GPU object
// is created until the SurfaceContext drives the lifecycle. The calling goroutine is locked to
// its OS thread because the surface and the window share it.
//
// Returns:
//   - RendererBackend: the wgpu backend
func NewWGPURendererBackend() RendererBackend {
	runtime.LockOSThread()
	return &wgpuRendererBackend{}
}

func (b *wgpuRendererBackend) Type() RendererBackendType {
	return BackendTypeWGPU
}

func (b *wgpuRendererBackend) CreateInstance() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.instance != nil {
		return nil
	}
	b.instance = wgpu.CreateInstance(nil)
	if b.instance == nil {
		return errors.New("wgpu: instance creation failed")
	}
	return nil
}

func (b *wgpuRendererBackend) CreateSurface(desc *wgpu.SurfaceDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.instance == nil {
		return errors.New("wgpu: instance not created")
	}
	if desc == nil {
		return errors.New("wgpu: nil surface descriptor")
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	b.surface = b.instance.CreateSurface(desc)
	if b.surface == nil {
		return errors.New("wgpu: surface creation failed")
	}
	return nil
}

func (b *wgpuRendererBackend) ReleaseSurface() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
}

func (b *wgpuRendererBackend) RequestAdapter(opts AdapterOptions) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	power := wgpu.PowerPreferenceHighPerformance
	if opts.PowerPreference == PowerPreferenceLowPower {
		power = wgpu.PowerPreferenceLowPower
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
		CompatibleSurface:    b.surface,
		PowerPreference:      power,
	})
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", errors.New("wgpu: no adapter returned")
	}
	b.adapter = a

	info := a.GetInfo()
	return fmt.Sprintf("%s (%s)", info.Name, info.BackendType.String()), nil
}

func (b *wgpuRendererBackend) RequestDevice(label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return err
	}
	b.device = d
	b.queue = d.GetQueue()
	return nil
}

func (b *wgpuRendererBackend) SurfaceCapabilities() SurfaceCapabilities {
	b.mu.Lock()
	defer b.mu.Unlock()

	caps := b.surface.GetCapabilities(b.adapter)
	return SurfaceCapabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

func (b *wgpuRendererBackend) ConfigureSurface(cfg SurfaceConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      cfg.Format,
		Width:       uint32(cfg.Width),
		Height:      uint32(cfg.Height),
		PresentMode: cfg.PresentMode,
		AlphaMode:   cfg.AlphaMode,
	})
}

func (b *wgpuRendererBackend) AcquireFrame() (FrameTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return nil, errors.New("wgpu: surface lost")
	}
	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &wgpuFrameTarget{texture: texture, view: view}, nil
}

func (b *wgpuRendererBackend) CreateCommandEncoder(label string) (CommandEncoder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	enc, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, err
	}
	return &wgpuCommandEncoder{encoder: enc}, nil
}

func (b *wgpuRendererBackend) Submit(buf CommandBuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cb, ok := buf.(*wgpuCommandBuffer)
	if !ok || cb.buffer == nil {
		return
	}
	b.queue.Submit(cb.buffer)
}

func (b *wgpuRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface != nil {
		b.surface.Present()
	}
}

func (b *wgpuRendererBackend) CompilePipeline(desc pipeline.Descriptor) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil, errors.New("wgpu: device not created")
	}
	if desc.Shader == nil {
		return nil, errors.New("wgpu: descriptor has no shader")
	}

	module, err := b.device.CreateShaderModule(desc.Shader.Module())
	if err != nil {
		return nil, fmt.Errorf("shader module %q: %w", desc.Shader.Key(), err)
	}
	defer module.Release()

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: desc.Label + " layout",
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline layout: %w", err)
	}
	defer layout.Release()

	created, err := b.device.CreateRenderPipeline(desc.RenderPipelineDescriptor(module, layout))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

type wgpuFrameTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (f *wgpuFrameTarget) Release() {
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}

type wgpuCommandEncoder struct {
	encoder *wgpu.CommandEncoder
}

func (e *wgpuCommandEncoder) BeginRenderPass(target FrameTarget, clear wgpu.Color) RenderPass {
	var view *wgpu.TextureView
	if ft, ok := target.(*wgpuFrameTarget); ok {
		view = ft.view
	}
	pass := e.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	return &wgpuRenderPass{pass: pass}
}

func (e *wgpuCommandEncoder) Finish() (CommandBuffer, error) {
	buf, err := e.encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuCommandBuffer{buffer: buf}, nil
}

func (e *wgpuCommandEncoder) Release() {
	if e.encoder != nil {
		e.encoder.Release()
		e.encoder = nil
	}
}

type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *wgpuRenderPass) SetPipeline(pl pipeline.Pipeline) {
	if rp, ok := pl.Pipeline().(*wgpu.RenderPipeline); ok {
		p.pass.SetPipeline(rp)
	}
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *wgpuRenderPass) End() {
	p.pass.End()
}

// Release must run before the encoder is finished.
func (p *wgpuRenderPass) Release() {
	if p.pass != nil {
		p.pass.Release()
		p.pass = nil
	}
}

type wgpuCommandBuffer struct {
	buffer *wgpu.CommandBuffer
}

func (c *wgpuCommandBuffer) Release() {
	if c.buffer != nil {
		c.buffer.Release()
		c.buffer = nil
	}
}
