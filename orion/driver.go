package orion

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/selis/glimpse"
	"github.com/oliverbestmann/selis/pulse"
)

var ErrNotRunning = errors.New("driver is not running")

type State int

const (
	Uninitialized State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type DriverOptions struct {
	// clock used for timing, defaults to SystemClock
	Clock Clock

	// additional events, drained without blocking before window events
	// are polled. Used by the ShaderWatcher.
	Events <-chan glimpse.Event
}

// Driver runs a Technique against a Context, one iteration per Step.
type Driver struct {
	window glimpse.Window
	ctx    *pulse.Context

	technique Technique

	state State
	err   error

	events <-chan glimpse.Event

	input   glimpse.InputState
	camera  *CameraController
	sampler *Sampler
	stats   Stats
}

func NewDriver(window glimpse.Window, ctx *pulse.Context, opts DriverOptions) *Driver {
	return &Driver{
		window:  window,
		ctx:     ctx,
		events:  opts.Events,
		camera:  NewCameraController(),
		sampler: NewSampler(opts.Clock),
	}
}

func (d *Driver) State() State {
	return d.state
}

// Err returns the error the driver terminated with, if any.
func (d *Driver) Err() error {
	return d.err
}

func (d *Driver) Input() *glimpse.InputState {
	return &d.input
}

func (d *Driver) Sampler() *Sampler {
	return d.sampler
}

// Start constructs the technique. It must be called exactly once.
func (d *Driver) Start(init InitFunc) error {
	if d.state != Uninitialized {
		return fmt.Errorf("start driver in state %s", d.state)
	}

	technique, err := init(d.ctx)
	if err != nil {
		d.terminate(fmt.Errorf("initialize technique: %w", err))
		return d.err
	}

	d.technique = technique
	d.state = Running

	return nil
}

// Step runs one iteration: dispatch pending events, update and render.
// It returns the terminal error once the driver terminated with an error.
func (d *Driver) Step() error {
	if d.state != Running {
		return ErrNotRunning
	}

	d.input.NextTick()

	// a. events
	for _, event := range d.pendingEvents() {
		d.dispatch(event)

		if d.state == Terminated {
			return d.err
		}
	}

	// b. update
	if err := d.update(); err != nil {
		d.terminate(err)
		return d.err
	}

	// c. render, every update requests a new frame
	if err := d.redraw(); err != nil {
		d.terminate(err)
		return d.err
	}

	return nil
}

// Run steps the driver until it terminated. A close request
// terminates the driver without an error.
func (d *Driver) Run() error {
	for d.state == Running {
		_ = d.Step()
	}

	return d.err
}

// Release releases the technique if it implements pulse.Releaser.
func (d *Driver) Release() {
	if releaser, ok := d.technique.(pulse.Releaser); ok {
		releaser.Release()
	}

	d.technique = nil
}

func (d *Driver) terminate(err error) {
	if d.state == Terminated {
		return
	}

	slog.Info("Terminate driver", slog.Any("err", err))

	d.state = Terminated
	d.err = err
}

func (d *Driver) pendingEvents() []glimpse.Event {
	var events []glimpse.Event

	if d.events != nil {
	drain:
		for {
			select {
			case event := <-d.events:
				events = append(events, event)
			default:
				break drain
			}
		}
	}

	return append(events, d.window.PollEvents()...)
}

func (d *Driver) dispatch(event glimpse.Event) {
	d.input.Apply(event)
	d.camera.Handle(d.ctx.Camera(), event)

	switch ev := event.(type) {
	case glimpse.CloseRequested:
		d.terminate(nil)
		return

	case glimpse.KeyInput:
		if ev.Key == glimpse.KeyEscape && ev.Pressed {
			d.terminate(nil)
			return
		}

	case glimpse.Resized:
		if ev.Width == 0 || ev.Height == 0 {
			break
		}

		slog.Debug("Resize surface",
			slog.Int("width", int(ev.Width)),
			slog.Int("height", int(ev.Height)),
		)

		if err := d.ctx.Resize(ev.Width, ev.Height); err != nil {
			d.terminate(fmt.Errorf("resize surface: %w", err))
			return
		}

		d.technique.Resize(d.ctx.Device(), d.ctx.Queue(), d.ctx.SurfaceConfiguration())
	}

	d.technique.Input(event)
}

func (d *Driver) update() error {
	pointer := pulse.Pointer{
		X:       d.input.Mouse.CursorX,
		Y:       d.input.Mouse.CursorY,
		Pressed: d.input.PressedButtons(),
	}

	if err := d.ctx.Update(d.sampler.Snapshot(), pointer); err != nil {
		return fmt.Errorf("update context: %w", err)
	}

	if err := d.technique.Update(d.ctx); err != nil {
		return fmt.Errorf("update technique: %w", err)
	}

	return nil
}

func (d *Driver) redraw() error {
	d.sampler.Record()
	d.stats.Frame(d.sampler.frame, &d.sampler.Times)

	if err := d.technique.Render(d.ctx); err != nil {
		return fmt.Errorf("render technique: %w", err)
	}

	err := d.ctx.Render()
	if err == nil {
		return nil
	}

	switch pulse.SurfaceErrorKindOf(err) {
	case pulse.SurfaceOutOfMemory:
		return fmt.Errorf("render: %w", err)

	case pulse.SurfaceLost:
		// the context already reconfigured the surface, the next step draws again
		slog.Debug("Surface lost, frame skipped")

	default:
		slog.Error("Failed to render frame", slog.String("err", err.Error()))
	}

	return nil
}
