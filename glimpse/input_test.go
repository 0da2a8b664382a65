package glimpse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputStateKeys(t *testing.T) {
	var state InputState

	state.Apply(KeyInput{Key: KeyF1, Pressed: true})

	assert.True(t, state.Keys.Pressed[KeyF1])
	assert.True(t, state.Keys.JustPressed[KeyF1])

	state.NextTick()

	assert.True(t, state.Keys.Pressed[KeyF1])
	assert.False(t, state.Keys.JustPressed[KeyF1])

	state.Apply(KeyInput{Key: KeyF1, Pressed: false})

	assert.False(t, state.Keys.Pressed[KeyF1])
	assert.True(t, state.Keys.JustReleased[KeyF1])
}

func TestInputStateMouse(t *testing.T) {
	var state InputState

	state.Apply(CursorMoved{X: 10, Y: 20})
	state.Apply(MouseMotion{DX: 1, DY: 2})
	state.Apply(MouseMotion{DX: 3, DY: 4})
	state.Apply(Scroll{DY: -1, Lines: true})
	state.Apply(MouseButtonInput{Button: MouseButtonLeft, Pressed: true})
	state.Apply(Focused{Focused: true})

	assert.Equal(t, float32(10), state.Mouse.CursorX)
	assert.Equal(t, float32(20), state.Mouse.CursorY)
	assert.Equal(t, float32(4), state.Mouse.DeltaX)
	assert.Equal(t, float32(6), state.Mouse.DeltaY)
	assert.Equal(t, float32(-1), state.Mouse.ScrollY)
	assert.True(t, state.Mouse.JustPressed[MouseButtonLeft])
	assert.True(t, state.Focused)

	state.NextTick()

	// position and pressed buttons survive the tick
	assert.Equal(t, float32(10), state.Mouse.CursorX)
	assert.True(t, state.Mouse.Pressed[MouseButtonLeft])

	assert.Zero(t, state.Mouse.DeltaX)
	assert.Zero(t, state.Mouse.DeltaY)
	assert.Zero(t, state.Mouse.ScrollY)
	assert.False(t, state.Mouse.JustPressed[MouseButtonLeft])
}

func TestPressedButtons(t *testing.T) {
	cases := []struct {
		name    string
		pressed []MouseButton
		mask    uint32
	}{
		{"none", nil, 0},
		{"left", []MouseButton{MouseButtonLeft}, 0b001},
		{"right", []MouseButton{MouseButtonRight}, 0b010},
		{"left and middle", []MouseButton{MouseButtonLeft, MouseButtonMiddle}, 0b101},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var state InputState

			for _, button := range tc.pressed {
				state.Apply(MouseButtonInput{Button: button, Pressed: true})
			}

			assert.Equal(t, tc.mask, state.PressedButtons())
		})
	}

	t.Run("released", func(t *testing.T) {
		var state InputState
		state.Apply(MouseButtonInput{Button: MouseButtonLeft, Pressed: true})
		state.Apply(MouseButtonInput{Button: MouseButtonLeft, Pressed: false})

		assert.Zero(t, state.PressedButtons())
	})
}

func TestKeyString(t *testing.T) {
	cases := []struct {
		key  Key
		name string
	}{
		{KeyA, "A"},
		{KeyZ, "Z"},
		{Key0, "0"},
		{Key9, "9"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyEscape, "Escape"},
		{KeyUnknown, "Unknown"},
		{Key(1000), "Key(1000)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.key.String())
		})
	}

	assert.Equal(t, "Middle", MouseButtonMiddle.String())
	assert.Equal(t, "MouseButton(7)", MouseButton(7).String())
}
