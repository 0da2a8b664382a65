package glimpse

// Event is a window event. The set of events is closed, use a type switch.
type Event interface {
	isEvent()
}

// CloseRequested is sent when the user asked to close the window
type CloseRequested struct{}

// Resized carries the new framebuffer size in pixels. Either value
// may be zero, e.g. when the window is minimized.
type Resized struct {
	Width, Height uint32
}

type KeyInput struct {
	Key     Key
	Pressed bool
}

type MouseButtonInput struct {
	Button  MouseButton
	Pressed bool
}

// CursorMoved carries the cursor position in window coordinates
type CursorMoved struct {
	X, Y float32
}

// MouseMotion carries the relative cursor movement since the previous CursorMoved
type MouseMotion struct {
	DX, DY float32
}

// Scroll carries a scroll delta either in lines or in pixels
type Scroll struct {
	DX, DY float32
	Lines  bool
}

type Focused struct {
	Focused bool
}

// ShaderChanged is sent when a watched shader file was written
type ShaderChanged struct {
	Path string
}

func (CloseRequested) isEvent()   {}
func (Resized) isEvent()          {}
func (KeyInput) isEvent()         {}
func (MouseButtonInput) isEvent() {}
func (CursorMoved) isEvent()      {}
func (MouseMotion) isEvent()      {}
func (Scroll) isEvent()           {}
func (Focused) isEvent()          {}
func (ShaderChanged) isEvent()    {}
