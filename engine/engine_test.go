package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-voxel/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow replays one batch of events per poll and requests close once the batches run out.
type fakeWindow struct {
	batches     [][]window.Event
	polls       int
	shouldClose bool
	closed      bool
}

func (w *fakeWindow) PollEvents() []window.Event {
	w.polls++
	if len(w.batches) == 0 {
		w.shouldClose = true
		return nil
	}
	batch := w.batches[0]
	w.batches = w.batches[1:]
	return batch
}

func (w *fakeWindow) FramebufferSize() (int, int)                { return 800, 600 }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) ShouldClose() bool                          { return w.shouldClose }
func (w *fakeWindow) SetShouldClose(value bool)                  { w.shouldClose = value }
func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

// fakeSurface records the calls the loop makes.
type fakeSurface struct {
	calls        []string
	renderErrs   []error
	recreateErr  error
	reloadErr    error
	width        int
	height       int
	renders      int
	reloads      int
	reconfigured [][2]int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{width: 800, height: 600}
}

func (s *fakeSurface) Reconfigure(width, height int) {
	s.calls = append(s.calls, fmt.Sprintf("Reconfigure %dx%d", width, height))
	s.reconfigured = append(s.reconfigured, [2]int{width, height})
	if width > 0 && height > 0 {
		s.width, s.height = width, height
	}
}

func (s *fakeSurface) RecreateSurface() error {
	s.calls = append(s.calls, "RecreateSurface")
	return s.recreateErr
}

func (s *fakeSurface) RenderFrame() error {
	s.calls = append(s.calls, "RenderFrame")
	s.renders++
	if len(s.renderErrs) == 0 {
		return nil
	}
	err := s.renderErrs[0]
	s.renderErrs = s.renderErrs[1:]
	return err
}

func (s *fakeSurface) ReloadPipeline() error {
	s.calls = append(s.calls, "ReloadPipeline")
	s.reloads++
	return s.reloadErr
}

func (s *fakeSurface) Size() (int, int) {
	return s.width, s.height
}

func TestRunRequiresWindowAndSurface(t *testing.T) {
	assert.ErrorIs(t, NewEngine(WithSurface(newFakeSurface())).Run(), ErrNoWindow)
	assert.ErrorIs(t, NewEngine(WithWindow(&fakeWindow{})).Run(), ErrNoSurface)
}

func TestEscapeEndsLoop(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		nil,
		{window.KeyEvent(common.KeyEsc, window.ActionPress)},
		nil,
	}}
	s := newFakeSurface()
	e := NewEngine(WithWindow(w), WithSurface(s))

	require.NoError(t, e.Run())
	assert.True(t, w.shouldClose)
	assert.Equal(t, 2, w.polls)
	assert.Equal(t, 1, s.renders)
	assert.Equal(t, uint64(1), e.Frames())
}

func TestNonExitKeysIgnored(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.KeyEvent(common.KeyQ, window.ActionPress)},
		{window.KeyEvent(common.KeyEsc, window.ActionRelease)},
		{window.KeyEvent(common.KeyEsc, window.ActionRepeat)},
	}}
	s := newFakeSurface()

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s)).Run())
	assert.Equal(t, 3, s.renders)
	assert.Equal(t, 4, w.polls)
}

func TestCustomExitKeys(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.KeyEvent(common.KeyEsc, window.ActionPress)},
		{window.KeyEvent(common.KeyQ, window.ActionPress)},
		nil,
	}}
	s := newFakeSurface()

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s), WithExitKeys(common.KeyQ)).Run())
	assert.Equal(t, 1, s.renders)
	assert.Equal(t, 2, w.polls)
}

func TestCloseEventEndsLoop(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.CloseEvent()},
		nil,
	}}
	s := newFakeSurface()

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s)).Run())
	assert.Zero(t, s.renders)
	assert.Equal(t, 1, w.polls)
}

func TestResizeRecreatesAndReconfigures(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.ResizeEvent(400, 300)},
		{window.ResizeEvent(0, 0)},
	}}
	s := newFakeSurface()

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s)).Run())
	assert.Equal(t, []string{
		"RecreateSurface", "Reconfigure 400x300", "RenderFrame",
		"RecreateSurface", "Reconfigure 0x0", "RenderFrame",
	}, s.calls)
	w2, h2 := s.Size()
	assert.Equal(t, 400, w2)
	assert.Equal(t, 300, h2)
}

func TestMoveReconfiguresWithStoredSize(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.MoveEvent(10, 20)},
	}}
	s := newFakeSurface()

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s)).Run())
	assert.Equal(t, []string{"RecreateSurface", "Reconfigure 800x600", "RenderFrame"}, s.calls)
}

func TestFailedRecreateSkipsReconfigure(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.ResizeEvent(400, 300)},
	}}
	s := newFakeSurface()
	s.recreateErr = errors.New("no surface")

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s)).Run())
	assert.Equal(t, []string{"RecreateSurface", "RenderFrame"}, s.calls)
}

func TestRecoverableRenderErrorsRecreate(t *testing.T) {
	for _, kind := range []renderer.SurfaceErrorKind{renderer.SurfaceErrorLost, renderer.SurfaceErrorOutdated} {
		t.Run(kind.String(), func(t *testing.T) {
			w := &fakeWindow{batches: [][]window.Event{nil, nil}}
			s := newFakeSurface()
			s.renderErrs = []error{fmt.Errorf("frame: %w", &renderer.SurfaceError{Kind: kind})}

			require.NoError(t, NewEngine(WithWindow(w), WithSurface(s)).Run())
			assert.Equal(t, []string{
				"RenderFrame", "RecreateSurface", "Reconfigure 800x600",
				"RenderFrame",
			}, s.calls)
		})
	}
}

func TestUnrecoverableRenderErrorsContinue(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{nil, nil, nil}}
	s := newFakeSurface()
	s.renderErrs = []error{
		&renderer.SurfaceError{Kind: renderer.SurfaceErrorTimeout},
		errors.New("device gone"),
	}

	e := NewEngine(WithWindow(w), WithSurface(s))
	require.NoError(t, e.Run())
	assert.Equal(t, []string{"RenderFrame", "RenderFrame", "RenderFrame"}, s.calls)
	assert.Equal(t, uint64(3), e.Frames())
}

func TestShaderChangeReloadsOnce(t *testing.T) {
	changes := make(chan string, 4)
	changes <- "shaders/triangle.wgsl"
	changes <- "shaders/triangle.wgsl"

	w := &fakeWindow{batches: [][]window.Event{nil, nil}}
	s := newFakeSurface()
	s.reloadErr = errors.New("bad shader")

	require.NoError(t, NewEngine(WithWindow(w), WithSurface(s), WithShaderChanges(changes)).Run())
	assert.Equal(t, 1, s.reloads)
	assert.Equal(t, []string{"ReloadPipeline", "RenderFrame", "RenderFrame"}, s.calls)
}

func TestClosedShaderChannelIsDropped(t *testing.T) {
	changes := make(chan string)
	close(changes)

	w := &fakeWindow{batches: [][]window.Event{nil, nil}}
	s := newFakeSurface()
	e := NewEngine(WithWindow(w), WithSurface(s), WithShaderChanges(changes))

	require.NoError(t, e.Run())
	assert.Zero(t, s.reloads)
	assert.Nil(t, e.(*engine).shaderChanges)
}

func TestBusReceivesPolledEvents(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{
		{window.MoveEvent(1, 2), window.ResizeEvent(640, 480)},
		{window.KeyEvent(common.KeyEsc, window.ActionPress)},
	}}
	s := newFakeSurface()
	e := NewEngine(WithWindow(w), WithSurface(s))

	var kinds []window.EventKind
	e.Bus().Subscribe(window.EventMoved, func(ev window.Event) { kinds = append(kinds, ev.Kind) })
	e.Bus().Subscribe(window.EventFramebufferResized, func(ev window.Event) { kinds = append(kinds, ev.Kind) })
	e.Bus().Subscribe(window.EventKeyPress, func(ev window.Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, e.Run())
	assert.Equal(t, []window.EventKind{window.EventMoved, window.EventFramebufferResized, window.EventKeyPress}, kinds)
}

func TestRenderCallbackAndProfiler(t *testing.T) {
	w := &fakeWindow{batches: [][]window.Event{nil, nil, nil}}
	s := newFakeSurface()
	e := NewEngine(WithWindow(w), WithSurface(s), WithProfiling(true), WithRenderFrameLimit(1000))

	calls := 0
	e.SetRenderCallback(func(dt float32) {
		assert.GreaterOrEqual(t, dt, float32(0))
		calls++
	})
	require.NoError(t, e.Run())
	assert.Equal(t, 3, calls)

	e.DisableProfiler()
	assert.False(t, e.(*engine).profilingEnabled)
	e.EnableProfiler()
	assert.True(t, e.(*engine).profilingEnabled)
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := NewEngine().(*engine)
	e.SetRenderFrameLimit(50)
	assert.Equal(t, int64(20_000_000), e.renderFrameLimit.Nanoseconds())
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
