package orion

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/selis/glimpse"
	"github.com/oliverbestmann/selis/pulse"
)

type RunOptions struct {
	// constructs the technique to run. This is the only field that is required
	Init InitFunc

	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// initial camera, defaults to pulse.DefaultCamera
	Camera *pulse.Camera

	DisableVSync bool

	BackbufferWidth  uint32
	BackbufferHeight uint32

	// directory to watch for changes to wgsl files
	ShaderDir string

	// "cpu" or "mem", defaults to the value of SELIS_PROFILE
	Profile string
}

func (opts RunOptions) withDefaults() RunOptions {
	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1280
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 720
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "Selis"
	}

	if opts.Profile == "" {
		opts.Profile = os.Getenv("SELIS_PROFILE")
	}

	return opts
}

// Run opens a window, creates the gpu context and drives the technique
// created by opts.Init until the window is closed.
func Run(opts RunOptions) error {
	if opts.Init == nil {
		return errors.New("Init must not be nil")
	}

	opts = opts.withDefaults()

	win, err := glimpse.NewWindow(glimpse.WindowOptions{
		Width:   opts.WindowWidth,
		Height:  opts.WindowHeight,
		Title:   opts.WindowTitle,
		Profile: opts.Profile,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	ctx, err := pulse.Create(win, opts.Camera, pulse.ContextOptions{
		DisableVSync:     opts.DisableVSync,
		BackbufferWidth:  opts.BackbufferWidth,
		BackbufferHeight: opts.BackbufferHeight,
	})
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}

	defer ctx.Release()

	var driverOpts DriverOptions

	if opts.ShaderDir != "" {
		watcher, err := WatchShaders(opts.ShaderDir)
		if err != nil {
			slog.Warn("Shader hot reload disabled", slog.String("err", err.Error()))
		} else {
			defer watcher.Close()
			driverOpts.Events = watcher.Events()
		}
	}

	driver := NewDriver(win, ctx, driverOpts)
	defer driver.Release()

	if err := driver.Start(opts.Init); err != nil {
		return err
	}

	return driver.Run()
}
