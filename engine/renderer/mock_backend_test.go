package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// mockBackend records every call the SurfaceContext makes.
type mockBackend struct {
	calls []string

	caps       SurfaceCapabilities
	configured []SurfaceConfig
	adapterOpt AdapterOptions

	adapterErr  error
	deviceErr   error
	surfaceErr  error
	acquireErrs []error
	compileErr  error

	surfaces  int
	compiled  []pipeline.Descriptor
	draws     [][4]uint32
	clears    []wgpu.Color
	submitted int
	presented int
	released  bool
	pipelines []*mockPipelineHandle
}

type mockPipelineHandle struct {
	released bool
}

func (h *mockPipelineHandle) Release() {
	h.released = true
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		caps: SurfaceCapabilities{
			Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
			PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeMailbox},
			AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
		},
	}
}

func (m *mockBackend) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *mockBackend) reset() {
	m.calls = nil
}

func (m *mockBackend) Type() RendererBackendType {
	return BackendTypeWGPU
}

func (m *mockBackend) CreateInstance() error {
	m.record("CreateInstance")
	return nil
}

func (m *mockBackend) CreateSurface(desc *wgpu.SurfaceDescriptor) error {
	m.record("CreateSurface")
	if m.surfaceErr != nil {
		return m.surfaceErr
	}
	m.surfaces++
	return nil
}

func (m *mockBackend) ReleaseSurface() {
	m.record("ReleaseSurface")
}

func (m *mockBackend) RequestAdapter(opts AdapterOptions) (string, error) {
	m.record("RequestAdapter")
	m.adapterOpt = opts
	if m.adapterErr != nil {
		return "", m.adapterErr
	}
	return "mock adapter", nil
}

func (m *mockBackend) RequestDevice(label string) error {
	m.record("RequestDevice")
	return m.deviceErr
}

func (m *mockBackend) SurfaceCapabilities() SurfaceCapabilities {
	m.record("SurfaceCapabilities")
	return m.caps
}

func (m *mockBackend) ConfigureSurface(cfg SurfaceConfig) {
	m.record("ConfigureSurface %dx%d", cfg.Width, cfg.Height)
	m.configured = append(m.configured, cfg)
}

func (m *mockBackend) AcquireFrame() (FrameTarget, error) {
	m.record("AcquireFrame")
	if len(m.acquireErrs) > 0 {
		err := m.acquireErrs[0]
		m.acquireErrs = m.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &mockFrame{m: m}, nil
}

func (m *mockBackend) CreateCommandEncoder(label string) (CommandEncoder, error) {
	m.record("CreateCommandEncoder")
	return &mockEncoder{m: m}, nil
}

func (m *mockBackend) Submit(buf CommandBuffer) {
	m.record("Submit")
	m.submitted++
}

func (m *mockBackend) Present() {
	m.record("Present")
	m.presented++
}

func (m *mockBackend) CompilePipeline(desc pipeline.Descriptor) (any, error) {
	m.record("CompilePipeline")
	if m.compileErr != nil {
		return nil, m.compileErr
	}
	m.compiled = append(m.compiled, desc)
	h := &mockPipelineHandle{}
	m.pipelines = append(m.pipelines, h)
	return h, nil
}

func (m *mockBackend) Release() {
	m.record("Release")
	m.released = true
}

type mockFrame struct {
	m *mockBackend
}

func (f *mockFrame) Release() {
	f.m.record("FrameRelease")
}

type mockEncoder struct {
	m *mockBackend
}

func (e *mockEncoder) BeginRenderPass(target FrameTarget, clear wgpu.Color) RenderPass {
	e.m.record("BeginRenderPass")
	e.m.clears = append(e.m.clears, clear)
	return &mockPass{m: e.m}
}

func (e *mockEncoder) Finish() (CommandBuffer, error) {
	e.m.record("Finish")
	return &mockBuffer{}, nil
}

func (e *mockEncoder) Release() {}

type mockPass struct {
	m *mockBackend
}

func (p *mockPass) SetPipeline(pl pipeline.Pipeline) {
	p.m.record("SetPipeline")
}

func (p *mockPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.m.record("Draw")
	p.m.draws = append(p.m.draws, [4]uint32{vertexCount, instanceCount, firstVertex, firstInstance})
}

func (p *mockPass) End() {
	p.m.record("End")
}

func (p *mockPass) Release() {}

type mockBuffer struct{}

func (b *mockBuffer) Release() {}

// fakeTarget is a window stand-in with a mutable framebuffer size.
type fakeTarget struct {
	width, height int
	descriptors   int
}

func (t *fakeTarget) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	t.descriptors++
	return &wgpu.SurfaceDescriptor{}
}

func (t *fakeTarget) FramebufferSize() (int, int) {
	return t.width, t.height
}
