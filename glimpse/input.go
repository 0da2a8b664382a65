package glimpse

import "log/slog"

type KeysState struct {
	// the keys that are currently marked as "pressed"
	Pressed map[Key]bool

	// keys that where just pressed after the last call to NextTick()
	JustPressed map[Key]bool

	// keys that were just released after the last call to NextTick()
	JustReleased map[Key]bool
}

func (k *KeysState) press(key Key) {
	slog.Debug("Key just pressed", slog.String("key", key.String()))

	setTrue(&k.Pressed, key)
	setTrue(&k.JustPressed, key)
}

func (k *KeysState) release(key Key) {
	setFalse(&k.Pressed, key)
	setTrue(&k.JustReleased, key)
}

func (k *KeysState) nextTick() {
	clear(k.JustPressed)
	clear(k.JustReleased)
}

type MouseState struct {
	CursorX, CursorY float32

	// accumulated cursor movement since last tick
	DeltaX, DeltaY float32

	// accumulated scroll since last tick
	ScrollX, ScrollY float32

	Pressed map[MouseButton]bool

	// mouse buttons that were just clicked after the last call to NextTick()
	JustPressed map[MouseButton]bool

	// mouse buttons that were just released after the last call to NextTick()
	JustReleased map[MouseButton]bool
}

func (m *MouseState) press(button MouseButton) {
	setTrue(&m.Pressed, button)
	setTrue(&m.JustPressed, button)
}

func (m *MouseState) release(button MouseButton) {
	setFalse(&m.Pressed, button)
	setTrue(&m.JustReleased, button)
}

func (m *MouseState) position(x, y float32) {
	m.CursorX = x
	m.CursorY = y
}

func (m *MouseState) motion(dx, dy float32) {
	m.DeltaX += dx
	m.DeltaY += dy
}

func (m *MouseState) nextTick() {
	clear(m.JustPressed)
	clear(m.JustReleased)

	m.DeltaX, m.DeltaY = 0, 0
	m.ScrollX, m.ScrollY = 0, 0
}

// InputState accumulates the keyboard and mouse state from window events.
type InputState struct {
	Keys  KeysState
	Mouse MouseState

	Focused bool
}

// Apply updates the state using the given event. Events that do not
// affect input are ignored.
func (s *InputState) Apply(event Event) {
	switch ev := event.(type) {
	case KeyInput:
		if ev.Pressed {
			s.Keys.press(ev.Key)
		} else {
			s.Keys.release(ev.Key)
		}

	case MouseButtonInput:
		if ev.Pressed {
			s.Mouse.press(ev.Button)
		} else {
			s.Mouse.release(ev.Button)
		}

	case CursorMoved:
		s.Mouse.position(ev.X, ev.Y)

	case MouseMotion:
		s.Mouse.motion(ev.DX, ev.DY)

	case Scroll:
		s.Mouse.ScrollX += ev.DX
		s.Mouse.ScrollY += ev.DY

	case Focused:
		s.Focused = ev.Focused
	}
}

// NextTick resets all per tick state like just pressed keys and motion deltas
func (s *InputState) NextTick() {
	s.Keys.nextTick()
	s.Mouse.nextTick()
}

// PressedButtons returns a bitmask of the pressed mouse buttons, bit n is set
// if MouseButton(n) is pressed.
func (s *InputState) PressedButtons() uint32 {
	var mask uint32

	for button, pressed := range s.Mouse.Pressed {
		if pressed && button < 32 {
			mask |= 1 << button
		}
	}

	return mask
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = true
}

func setFalse[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = false
}
