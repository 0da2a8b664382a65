// Package glimpsetest provides a scripted glimpse.Window for tests.
package glimpsetest

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/selis/glimpse"
)

// Window returns one batch of scripted events per call to PollEvents.
// Once the script is exhausted, PollEvents returns a CloseRequested event.
type Window struct {
	Width, Height uint32

	Script [][]glimpse.Event

	Polls      int
	Terminated bool
}

func NewWindow(width, height uint32, script ...[]glimpse.Event) *Window {
	return &Window{Width: width, Height: height, Script: script}
}

func (w *Window) Size() (uint32, uint32) {
	return w.Width, w.Height
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *Window) PollEvents() []glimpse.Event {
	w.Polls++

	if len(w.Script) == 0 {
		return []glimpse.Event{glimpse.CloseRequested{}}
	}

	events := w.Script[0]
	w.Script = w.Script[1:]

	for _, event := range events {
		if resized, ok := event.(glimpse.Resized); ok {
			w.Width, w.Height = resized.Width, resized.Height
		}
	}

	return events
}

func (w *Window) Terminate() {
	w.Terminated = true
}
