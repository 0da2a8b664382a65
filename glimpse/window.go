package glimpse

import "github.com/cogentcore/webgpu/wgpu"

type Window interface {
	// Size returns the framebuffer size in pixels
	Size() (width, height uint32)

	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending window system events and returns
	// them in the order they occurred.
	PollEvents() []Event

	Terminate()
}

type WindowOptions struct {
	Width, Height int
	Title         string

	// one of "cpu" or "mem" to enable profiling for the lifetime of the window
	Profile string
}
