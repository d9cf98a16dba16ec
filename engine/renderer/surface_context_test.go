package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(i) - 1);
    let y = f32(i32(i & 1u) * 2 - 1);
    return vec4<f32>(x, y, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func shaderRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "shaders")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "triangle.wgsl"), []byte(triangleWGSL), 0o644))
	return root
}

func newTestContext(t *testing.T, backend *mockBackend, target *fakeTarget, opts ...SurfaceContextBuilderOption) SurfaceContext {
	t.Helper()
	opts = append([]SurfaceContextBuilderOption{WithSourceRoot(shaderRoot(t))}, opts...)
	ctx, err := NewSurfaceContext(target, backend, opts...)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	return ctx
}

func TestInitializeOrderAndConfig(t *testing.T) {
	backend := newMockBackend()
	ctx := newTestContext(t, backend, &fakeTarget{width: 800, height: 600})

	assert.Equal(t, []string{
		"CreateInstance",
		"CreateSurface",
		"RequestAdapter",
		"RequestDevice",
		"SurfaceCapabilities",
		"ConfigureSurface 800x600",
		"CompilePipeline",
	}, backend.calls)

	cfg := ctx.Config()
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, cfg.Format)
	assert.Equal(t, wgpu.PresentModeFifo, cfg.PresentMode)
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, cfg.AlphaMode)
	assert.Equal(t, 2, cfg.DesiredMaxFrameLatency)
	assert.Equal(t, StateConfigured, ctx.State())
	assert.Equal(t, PowerPreferenceHighPerformance, backend.adapterOpt.PowerPreference)
	assert.False(t, backend.adapterOpt.ForceFallbackAdapter)

	require.Len(t, backend.compiled, 1)
	assert.Equal(t, cfg.Format, backend.compiled[0].Format)
	assert.Equal(t, cfg.Format, ctx.Pipeline().Format())
}

func TestInitializeOptions(t *testing.T) {
	backend := newMockBackend()
	ctx := newTestContext(t, backend, &fakeTarget{width: 10, height: 10},
		WithPresentMode(PresentModeMailbox),
		WithPowerPreference(PowerPreferenceLowPower),
		WithForceSoftwareRenderer(true),
	)

	assert.Equal(t, wgpu.PresentModeMailbox, ctx.Config().PresentMode)
	assert.Equal(t, PowerPreferenceLowPower, backend.adapterOpt.PowerPreference)
	assert.True(t, backend.adapterOpt.ForceFallbackAdapter)
}

func TestInitializeErrors(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*mockBackend, *fakeTarget)
		target error
	}{
		{"no adapter", func(b *mockBackend, _ *fakeTarget) { b.adapterErr = errors.New("none") }, ErrNoAdapter},
		{"device", func(b *mockBackend, _ *fakeTarget) { b.deviceErr = errors.New("refused") }, ErrDeviceRequest},
		{"no formats", func(b *mockBackend, _ *fakeTarget) { b.caps.Formats = nil }, ErrNoSurfaceFormats},
		{"zero size", func(_ *mockBackend, tg *fakeTarget) { tg.width = 0 }, ErrInvalidSurfaceSize},
		{"surface", func(b *mockBackend, _ *fakeTarget) { b.surfaceErr = errors.New("bad handle") }, ErrSurfaceCreate},
		{"pipeline", func(b *mockBackend, _ *fakeTarget) { b.compileErr = errors.New("invalid") }, pipeline.ErrPipelineRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := newMockBackend()
			target := &fakeTarget{width: 800, height: 600}
			tc.setup(backend, target)

			ctx, err := NewSurfaceContext(target, backend, WithSourceRoot(shaderRoot(t)))
			assert.Nil(t, ctx)
			assert.ErrorIs(t, err, tc.target)
			assert.True(t, backend.released)
		})
	}
}

func TestInitializeMissingShader(t *testing.T) {
	backend := newMockBackend()
	_, err := NewSurfaceContext(&fakeTarget{width: 1, height: 1}, backend,
		WithSourceRoot(t.TempDir()),
	)
	assert.ErrorIs(t, err, shader.ErrShaderRead)
}

func TestReconfigurePositiveStoresExactSize(t *testing.T) {
	backend := newMockBackend()
	ctx := newTestContext(t, backend, &fakeTarget{width: 800, height: 600})
	backend.reset()

	ctx.Reconfigure(1024, 768)
	w, h := ctx.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, []string{"ConfigureSurface 1024x768"}, backend.calls)
	assert.Equal(t, StateConfigured, ctx.State())
}

func TestReconfigureZeroIsNoop(t *testing.T) {
	for _, size := range [][2]int{{0, 600}, {800, 0}, {0, 0}, {-1, 5}} {
		backend := newMockBackend()
		ctx := newTestContext(t, backend, &fakeTarget{width: 800, height: 600})
		before := ctx.Config()
		backend.reset()

		ctx.Reconfigure(size[0], size[1])
		assert.Equal(t, before, ctx.Config())
		assert.Empty(t, backend.calls)
		assert.True(t, ctx.Minimized())
	}
}

func TestRenderFrameDrawsOnce(t *testing.T) {
	backend := newMockBackend()
	ctx := newTestContext(t, backend, &fakeTarget{width: 800, height: 600})
	backend.reset()

	require.NoError(t, ctx.RenderFrame())
	assert.Equal(t, [][4]uint32{{3, 1, 0, 0}}, backend.draws)
	assert.Equal(t, []wgpu.Color{DefaultClearColor}, backend.clears)
	assert.Equal(t, []string{
		"AcquireFrame",
		"CreateCommandEncoder",
		"BeginRenderPass",
		"SetPipeline",
		"Draw",
		"End",
		"Finish",
		"Submit",
		"Present",
		"FrameRelease",
	}, backend.calls)
}

func TestRenderFrameClearColorOption(t *testing.T) {
	backend := newMockBackend()
	black := wgpu.Color{A: 1}
	ctx := newTestContext(t, backend, &fakeTarget{width: 8, height: 8}, WithClearColor(black))

	require.NoError(t, ctx.RenderFrame())
	assert.Equal(t, []wgpu.Color{black}, backend.clears)
}

func TestRenderFrameClassifiesAcquireErrors(t *testing.T) {
	cases := map[string]struct {
		err      error
		sentinel error
		state    SurfaceState
	}{
		"lost":     {errors.New("Lost"), ErrSurfaceLost, StateLost},
		"outdated": {errors.New("Outdated"), ErrSurfaceOutdated, StateConfigured},
		"timeout":  {errors.New("Timeout"), ErrSurfaceTimeout, StateConfigured},
		"oom":      {errors.New("OutOfMemory"), ErrSurfaceOutOfMemory, StateConfigured},
		"other":    {errors.New("validation"), ErrSurfaceOther, StateConfigured},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			backend := newMockBackend()
			ctx := newTestContext(t, backend, &fakeTarget{width: 8, height: 8})
			backend.acquireErrs = []error{tc.err}

			err := ctx.RenderFrame()
			assert.ErrorIs(t, err, tc.sentinel)
			var se *SurfaceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.state, ctx.State())
			assert.Empty(t, backend.draws)
			assert.Zero(t, backend.presented)
		})
	}
}

func TestRecreateThenReconfigureRecovers(t *testing.T) {
	backend := newMockBackend()
	target := &fakeTarget{width: 800, height: 600}
	ctx := newTestContext(t, backend, target)
	backend.acquireErrs = []error{errors.New("Lost")}

	assert.ErrorIs(t, ctx.RenderFrame(), ErrSurfaceLost)
	assert.ErrorIs(t, ctx.RenderFrame(), ErrSurfaceLost)

	require.NoError(t, ctx.RecreateSurface())
	assert.Equal(t, StateRecreating, ctx.State())
	assert.ErrorIs(t, ctx.RenderFrame(), ErrSurfaceOutdated)

	backend.reset()
	ctx.Reconfigure(ctx.Size())
	assert.Equal(t, []string{"ConfigureSurface 800x600"}, backend.calls)
	assert.NoError(t, ctx.RenderFrame())
	assert.Equal(t, 2, backend.surfaces)
	assert.Equal(t, 1, backend.presented)
}

func TestRecreateFailureMarksLost(t *testing.T) {
	backend := newMockBackend()
	ctx := newTestContext(t, backend, &fakeTarget{width: 8, height: 8})
	backend.surfaceErr = errors.New("handle gone")

	assert.ErrorIs(t, ctx.RecreateSurface(), ErrSurfaceCreate)
	assert.Equal(t, StateLost, ctx.State())
	backend.reset()
	assert.ErrorIs(t, ctx.RenderFrame(), ErrSurfaceLost)
	assert.Empty(t, backend.calls)
}

func TestResizeScenario(t *testing.T) {
	backend := newMockBackend()
	target := &fakeTarget{width: 800, height: 600}
	ctx := newTestContext(t, backend, target)
	require.NoError(t, ctx.RenderFrame())

	target.width, target.height = 400, 300
	require.NoError(t, ctx.RecreateSurface())
	ctx.Reconfigure(400, 300)
	w, h := ctx.Size()
	assert.Equal(t, [2]int{400, 300}, [2]int{w, h})
	require.NoError(t, ctx.RenderFrame())

	target.width, target.height = 0, 0
	require.NoError(t, ctx.RecreateSurface())
	backend.reset()
	ctx.Reconfigure(0, 0)
	w, h = ctx.Size()
	assert.Equal(t, [2]int{400, 300}, [2]int{w, h})
	assert.NoError(t, ctx.RenderFrame())
	assert.Empty(t, backend.calls)
	assert.Len(t, backend.draws, 2)

	target.width, target.height = 640, 480
	require.NoError(t, ctx.RecreateSurface())
	ctx.Reconfigure(640, 480)
	assert.False(t, ctx.Minimized())
	require.NoError(t, ctx.RenderFrame())
	assert.Len(t, backend.draws, 3)
	assert.Len(t, backend.compiled, 1)
}

func TestReloadPipeline(t *testing.T) {
	backend := newMockBackend()
	root := shaderRoot(t)
	ctx, err := NewSurfaceContext(&fakeTarget{width: 8, height: 8}, backend, WithSourceRoot(root))
	require.NoError(t, err)
	defer ctx.Release()

	first := ctx.Pipeline()
	require.NoError(t, ctx.ReloadPipeline())
	assert.NotSame(t, first, ctx.Pipeline())
	assert.True(t, backend.pipelines[0].released)
	assert.Equal(t, ctx.Config().Format, ctx.Pipeline().Format())

	broken := "@vertex fn vs_other() {}\n@fragment fn fs_main() {}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "triangle.wgsl"), []byte(broken), 0o644))
	current := ctx.Pipeline()
	assert.ErrorIs(t, ctx.ReloadPipeline(), shader.ErrEntryPointMissing)
	assert.Same(t, current, ctx.Pipeline())
}

func TestReleaseResetsState(t *testing.T) {
	backend := newMockBackend()
	ctx, err := NewSurfaceContext(&fakeTarget{width: 8, height: 8}, backend, WithSourceRoot(shaderRoot(t)))
	require.NoError(t, err)

	ctx.Release()
	assert.True(t, backend.released)
	assert.Equal(t, StateUninitialized, ctx.State())
	assert.Nil(t, ctx.Pipeline())
	assert.ErrorIs(t, ctx.RenderFrame(), ErrSurfaceOther)
}
