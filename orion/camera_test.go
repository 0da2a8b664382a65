package orion

import (
	"testing"

	"github.com/oliverbestmann/selis/glimpse"
	"github.com/oliverbestmann/selis/pulse"
	"github.com/stretchr/testify/assert"
)

func TestCameraController(t *testing.T) {
	focused := glimpse.Focused{Focused: true}
	press := glimpse.MouseButtonInput{Button: glimpse.MouseButtonLeft, Pressed: true}
	release := glimpse.MouseButtonInput{Button: glimpse.MouseButtonLeft, Pressed: false}

	cases := []struct {
		name   string
		events []glimpse.Event

		yaw, pitch, distance float32
	}{
		{
			name:   "drag rotates",
			events: []glimpse.Event{focused, press, glimpse.MouseMotion{DX: 40, DY: 20}},
			yaw:    0.5 - 0.1, pitch: 1 + 0.05, distance: 1,
		},
		{
			name:   "motion without button",
			events: []glimpse.Event{focused, glimpse.MouseMotion{DX: 40, DY: 20}},
			yaw:    0.5, pitch: 1, distance: 1,
		},
		{
			name:   "release stops dragging",
			events: []glimpse.Event{focused, press, release, glimpse.MouseMotion{DX: 40, DY: 20}},
			yaw:    0.5, pitch: 1, distance: 1,
		},
		{
			name:   "secondary button does not drag",
			events: []glimpse.Event{focused, glimpse.MouseButtonInput{Button: glimpse.MouseButtonRight, Pressed: true}, glimpse.MouseMotion{DX: 40}},
			yaw:    0.5, pitch: 1, distance: 1,
		},
		{
			name:   "losing focus stops dragging",
			events: []glimpse.Event{focused, press, glimpse.Focused{Focused: false}, glimpse.MouseMotion{DX: 40}},
			yaw:    0.5, pitch: 1, distance: 1,
		},
		{
			name:   "scroll lines zooms out",
			events: []glimpse.Event{focused, glimpse.Scroll{DY: -50, Lines: true}},
			yaw:    0.5, pitch: 1, distance: 1.1,
		},
		{
			name:   "scroll pixels zooms in",
			events: []glimpse.Event{focused, glimpse.Scroll{DY: 100}},
			yaw:    0.5, pitch: 1, distance: 0.8,
		},
		{
			name:   "zoom is clamped",
			events: []glimpse.Event{focused, glimpse.Scroll{DY: 10000}},
			yaw:    0.5, pitch: 1, distance: 0.05,
		},
		{
			name:   "pitch is clamped",
			events: []glimpse.Event{focused, press, glimpse.MouseMotion{DY: 10000}},
			yaw:    0.5, pitch: 1.5697963, distance: 1,
		},
		{
			name:   "scroll without focus",
			events: []glimpse.Event{glimpse.Scroll{DY: 100}},
			yaw:    0.5, pitch: 1, distance: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			camera := pulse.DefaultCamera(800, 600)
			controller := NewCameraController()

			for _, event := range tc.events {
				controller.Handle(camera, event)
			}

			assert.InDelta(t, tc.yaw, camera.Yaw, 1e-5)
			assert.InDelta(t, tc.pitch, camera.Pitch, 1e-5)
			assert.InDelta(t, tc.distance, camera.Distance, 1e-5)
		})
	}
}
