package orion

import (
	"github.com/oliverbestmann/selis/glimpse"
	"github.com/oliverbestmann/selis/pulse"
)

const (
	DefaultRotateSpeed = 0.0025
	DefaultZoomSpeed   = 0.002
)

// CameraController orbits a camera while the primary mouse button is held
// and zooms on scroll. Input is only accepted while the window is focused.
type CameraController struct {
	RotateSpeed float32
	ZoomSpeed   float32

	focused  bool
	dragging bool
}

func NewCameraController() *CameraController {
	return &CameraController{
		RotateSpeed: DefaultRotateSpeed,
		ZoomSpeed:   DefaultZoomSpeed,
	}
}

func (c *CameraController) Handle(camera *pulse.Camera, event glimpse.Event) {
	switch ev := event.(type) {
	case glimpse.Focused:
		c.focused = ev.Focused
		if !c.focused {
			c.dragging = false
		}

	case glimpse.MouseButtonInput:
		if ev.Button != glimpse.MouseButtonLeft {
			return
		}

		if !ev.Pressed || c.focused {
			c.dragging = ev.Pressed
		}

	case glimpse.MouseMotion:
		if c.focused && c.dragging {
			camera.AddYaw(-ev.DX * c.RotateSpeed)
			camera.AddPitch(ev.DY * c.RotateSpeed)
		}

	case glimpse.Scroll:
		if !c.focused {
			return
		}

		// one line scrolls as much as one pixel
		amount := -ev.DY
		camera.AddZoom(amount * c.ZoomSpeed)
	}
}
