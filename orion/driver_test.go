package orion

import (
	"errors"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/selis/glimpse"
	"github.com/oliverbestmann/selis/glimpse/glimpsetest"
	"github.com/oliverbestmann/selis/pulse"
	"github.com/oliverbestmann/selis/pulse/pulsetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// recordingTechnique logs every hook together with the state of the backend
// at the time the hook was called.
type recordingTechnique struct {
	backend *pulsetest.Backend

	calls   []string
	resizes []wgpu.SurfaceConfiguration
	events  []glimpse.Event

	// number of buffer writes seen by Update
	writesOnUpdate []int

	// number of presents seen by Render
	presentsOnRender []int

	updateErr error
	renderErr error

	released bool
}

func (r *recordingTechnique) Resize(_ *wgpu.Device, _ *wgpu.Queue, config wgpu.SurfaceConfiguration) {
	r.calls = append(r.calls, "resize")
	r.resizes = append(r.resizes, config)
}

func (r *recordingTechnique) Update(ctx *pulse.Context) error {
	r.calls = append(r.calls, "update")
	r.writesOnUpdate = append(r.writesOnUpdate, len(r.backend.Writes))
	return r.updateErr
}

func (r *recordingTechnique) Input(event glimpse.Event) {
	r.calls = append(r.calls, "input")
	r.events = append(r.events, event)
}

func (r *recordingTechnique) Render(ctx *pulse.Context) error {
	r.calls = append(r.calls, "render")
	r.presentsOnRender = append(r.presentsOnRender, r.backend.Presents)
	return r.renderErr
}

func (r *recordingTechnique) Release() {
	r.released = true
}

type driverFixture struct {
	driver    *Driver
	backend   *pulsetest.Backend
	window    *glimpsetest.Window
	ctx       *pulse.Context
	clock     *fakeClock
	technique *recordingTechnique
}

func newDriverFixture(t *testing.T, script ...[]glimpse.Event) *driverFixture {
	t.Helper()

	backend := pulsetest.New()

	ctx, err := pulse.NewContext(backend, 800, 600, nil, pulse.ContextOptions{})
	require.NoError(t, err)

	t.Cleanup(ctx.Release)

	window := glimpsetest.NewWindow(800, 600, script...)
	clock := &fakeClock{now: time.Unix(1000, 0)}

	f := &driverFixture{
		driver:    NewDriver(window, ctx, DriverOptions{Clock: clock}),
		backend:   backend,
		window:    window,
		ctx:       ctx,
		clock:     clock,
		technique: &recordingTechnique{backend: backend},
	}

	require.NoError(t, f.driver.Start(func(*pulse.Context) (Technique, error) {
		return f.technique, nil
	}))

	return f
}

func TestDriverStart(t *testing.T) {
	f := newDriverFixture(t)

	assert.Equal(t, Running, f.driver.State())
	assert.Empty(t, f.technique.calls)

	// a second start is rejected
	err := f.driver.Start(func(*pulse.Context) (Technique, error) {
		t.Fatal("init must not be called twice")
		return nil, nil
	})

	assert.Error(t, err)
}

func TestDriverInitFailure(t *testing.T) {
	backend := pulsetest.New()

	ctx, err := pulse.NewContext(backend, 800, 600, nil, pulse.ContextOptions{})
	require.NoError(t, err)
	defer ctx.Release()

	driver := NewDriver(glimpsetest.NewWindow(800, 600), ctx, DriverOptions{})

	initErr := errors.New("no shader")
	err = driver.Start(func(*pulse.Context) (Technique, error) {
		return nil, initErr
	})

	require.ErrorIs(t, err, initErr)
	assert.Equal(t, Terminated, driver.State())
	assert.ErrorIs(t, driver.Step(), ErrNotRunning)
	assert.ErrorIs(t, driver.Run(), initErr)
}

func TestDriverPhaseOrder(t *testing.T) {
	f := newDriverFixture(t,
		[]glimpse.Event{glimpse.CursorMoved{X: 10, Y: 20}},
		nil,
	)

	require.NoError(t, f.driver.Step())
	require.NoError(t, f.driver.Step())

	assert.Equal(t, []string{"input", "update", "render", "update", "render"}, f.technique.calls)

	// the context uniforms were written before the technique update
	assert.Equal(t, []int{2, 4}, f.technique.writesOnUpdate)

	// the context presents after the technique rendered
	assert.Equal(t, []int{0, 1}, f.technique.presentsOnRender)
	assert.Equal(t, 2, f.backend.Presents)
}

func TestDriverUpdatesPointer(t *testing.T) {
	f := newDriverFixture(t, []glimpse.Event{
		glimpse.CursorMoved{X: 10, Y: 20},
		glimpse.MouseButtonInput{Button: glimpse.MouseButtonRight, Pressed: true},
	})

	require.NoError(t, f.driver.Step())

	pointer := f.ctx.Globals().Pointer
	assert.Equal(t, float32(10), pointer.X)
	assert.Equal(t, float32(20), pointer.Y)
	assert.Equal(t, pulse.PointerSecondary, pointer.Pressed)
}

func TestDriverResize(t *testing.T) {
	f := newDriverFixture(t, []glimpse.Event{
		glimpse.Resized{Width: 0, Height: 600},
		glimpse.Resized{Width: 800, Height: 0},
		glimpse.Resized{Width: 400, Height: 300},
	})

	require.NoError(t, f.driver.Step())

	// only the non zero resize reached the technique
	require.Len(t, f.technique.resizes, 1)
	assert.Equal(t, uint32(400), f.technique.resizes[0].Width)
	assert.Equal(t, uint32(300), f.technique.resizes[0].Height)

	// every resize event is forwarded as input
	assert.Len(t, f.technique.events, 3)

	// resize is reported before the event itself
	assert.Equal(t, []string{"input", "input", "resize", "input", "update", "render"}, f.technique.calls)

	config := f.ctx.SurfaceConfiguration()
	assert.Equal(t, uint32(400), config.Width)
	assert.Equal(t, uint32(300), config.Height)

	// backbuffer keeps its resolution
	assert.Equal(t, uint32(pulse.DefaultBackbufferWidth), f.ctx.Backbuffer().Width())
}

func TestDriverTerminatesWithoutError(t *testing.T) {
	cases := []struct {
		name  string
		event glimpse.Event
	}{
		{"close requested", glimpse.CloseRequested{}},
		{"escape pressed", glimpse.KeyInput{Key: glimpse.KeyEscape, Pressed: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDriverFixture(t, []glimpse.Event{tc.event, glimpse.CursorMoved{}})

			require.NoError(t, f.driver.Step())

			assert.Equal(t, Terminated, f.driver.State())
			assert.NoError(t, f.driver.Err())

			// nothing is called after termination
			assert.Empty(t, f.technique.calls)
			assert.Zero(t, f.backend.Presents)

			assert.ErrorIs(t, f.driver.Step(), ErrNotRunning)
		})
	}
}

func TestDriverRunUntilClosed(t *testing.T) {
	f := newDriverFixture(t, nil, nil, nil)

	require.NoError(t, f.driver.Run())

	// three scripted iterations, the fourth poll closes the window
	assert.Equal(t, 4, f.window.Polls)
	assert.Equal(t, 3, f.backend.Presents)
	assert.Equal(t, Terminated, f.driver.State())

	f.driver.Release()
	assert.True(t, f.technique.released)
}

func TestDriverSurfaceErrors(t *testing.T) {
	recoverable := []struct {
		name string
		kind pulse.SurfaceErrorKind
	}{
		{"lost recovers", pulse.SurfaceLost},
		{"other is logged", pulse.SurfaceOther},
	}

	for _, tc := range recoverable {
		t.Run(tc.name, func(t *testing.T) {
			f := newDriverFixture(t, nil, nil)

			f.backend.AcquireErrors = []error{
				&pulse.SurfaceError{Kind: tc.kind, Err: errors.New("acquire failed")},
			}

			require.NoError(t, f.driver.Step())
			assert.Equal(t, Running, f.driver.State())
			assert.Zero(t, f.backend.Presents)

			// the skipped frame is drawn by the next step
			require.NoError(t, f.driver.Step())
			assert.Equal(t, Running, f.driver.State())
			assert.Equal(t, 1, f.backend.Presents)
			assert.Equal(t, []string{"update", "render", "update", "render"}, f.technique.calls)
		})
	}

	t.Run("out of memory terminates", func(t *testing.T) {
		f := newDriverFixture(t, nil, nil)

		f.backend.AcquireErrors = []error{
			&pulse.SurfaceError{Kind: pulse.SurfaceOutOfMemory, Err: errors.New("OutOfMemory")},
		}

		err := f.driver.Step()
		require.Error(t, err)

		assert.Equal(t, pulse.SurfaceOutOfMemory, pulse.SurfaceErrorKindOf(err))
		assert.Equal(t, Terminated, f.driver.State())
		assert.ErrorIs(t, f.driver.Step(), ErrNotRunning)
	})
}

func TestDriverHookErrorsAreFatal(t *testing.T) {
	hookErr := errors.New("hook failed")

	t.Run("update", func(t *testing.T) {
		f := newDriverFixture(t, nil)
		f.technique.updateErr = hookErr

		require.ErrorIs(t, f.driver.Step(), hookErr)
		assert.Equal(t, Terminated, f.driver.State())
		assert.Equal(t, []string{"update"}, f.technique.calls)
	})

	t.Run("render", func(t *testing.T) {
		f := newDriverFixture(t, nil)
		f.technique.renderErr = hookErr

		require.ErrorIs(t, f.driver.Step(), hookErr)
		assert.Equal(t, Terminated, f.driver.State())
		assert.Zero(t, f.backend.Presents)
	})
}

func TestDriverTiming(t *testing.T) {
	f := newDriverFixture(t, nil, nil, nil)

	for range 3 {
		f.clock.Advance(16 * time.Millisecond)
		require.NoError(t, f.driver.Step())
	}

	timing := f.driver.Sampler().Snapshot()
	assert.Equal(t, uint64(3), timing.Frame)
	assert.Equal(t, 16*time.Millisecond, timing.Delta)
	assert.Equal(t, 48*time.Millisecond, timing.Elapsed)

	// the uniforms were updated before the third frame was recorded
	globals := f.ctx.Globals()
	assert.Equal(t, uint64(2), globals.Frame)
	assert.InDelta(t, 0.048, globals.Time, 1e-6)
	assert.InDelta(t, 0.016, globals.TimeDelta, 1e-6)
}

func TestDriverCameraControl(t *testing.T) {
	drag := []glimpse.Event{
		glimpse.MouseButtonInput{Button: glimpse.MouseButtonLeft, Pressed: true},
		glimpse.MouseMotion{DX: 100, DY: -40},
		glimpse.Scroll{DY: 10, Lines: true},
	}

	t.Run("focused", func(t *testing.T) {
		f := newDriverFixture(t, append([]glimpse.Event{glimpse.Focused{Focused: true}}, drag...))

		require.NoError(t, f.driver.Step())

		camera := f.ctx.Camera()
		assert.InDelta(t, 0.25, camera.Yaw, 1e-5)
		assert.InDelta(t, 0.9, camera.Pitch, 1e-5)
		assert.InDelta(t, 0.98, camera.Distance, 1e-5)
	})

	t.Run("not focused", func(t *testing.T) {
		f := newDriverFixture(t, drag)

		require.NoError(t, f.driver.Step())

		camera := f.ctx.Camera()
		assert.InDelta(t, 0.5, camera.Yaw, 1e-5)
		assert.InDelta(t, 1.0, camera.Pitch, 1e-5)
		assert.InDelta(t, 1.0, camera.Distance, 1e-5)
	})
}

func TestDriverForwardsAdditionalEvents(t *testing.T) {
	backend := pulsetest.New()

	ctx, err := pulse.NewContext(backend, 800, 600, nil, pulse.ContextOptions{})
	require.NoError(t, err)
	defer ctx.Release()

	events := make(chan glimpse.Event, 2)
	events <- glimpse.ShaderChanged{Path: "raycast.wgsl"}

	technique := &recordingTechnique{backend: backend}

	driver := NewDriver(glimpsetest.NewWindow(800, 600, nil), ctx, DriverOptions{Events: events})
	require.NoError(t, driver.Start(func(*pulse.Context) (Technique, error) {
		return technique, nil
	}))

	require.NoError(t, driver.Step())

	assert.Equal(t, []glimpse.Event{glimpse.ShaderChanged{Path: "raycast.wgsl"}}, technique.events)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Uninitialized", Uninitialized.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Terminated", Terminated.String())
	assert.Equal(t, "State(7)", State(7).String())
}
