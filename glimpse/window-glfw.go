package glimpse

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
)

type glfwWindow struct {
	win  *glfw.Window
	prof interface{ Stop() }

	events []Event

	hasCursor        bool
	cursorX, cursorY float32
}

func NewWindow(opts WindowOptions) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	switch opts.Profile {
	case "cpu":
		w.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	case "mem":
		w.prof = profile.Start(profile.MemProfile, profile.ProfilePath("."))
	case "":
	default:
		slog.Warn("Unknown profile mode", slog.String("profile", opts.Profile))
	}

	w.configureCallbacks()

	// the focus callback is not called for the initial focus
	w.push(Focused{Focused: window.GetAttrib(glfw.Focused) == glfw.True})

	return w, nil
}

func (g *glfwWindow) Size() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) PollEvents() []Event {
	glfw.PollEvents()

	events := g.events
	g.events = nil

	return events
}

func (g *glfwWindow) Terminate() {
	if g.prof != nil {
		g.prof.Stop()
	}

	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) push(event Event) {
	g.events = append(g.events, event)
}

func (g *glfwWindow) configureCallbacks() {
	window := g.win

	window.SetCloseCallback(func(_win *glfw.Window) {
		g.push(CloseRequested{})
	})

	window.SetFramebufferSizeCallback(func(_win *glfw.Window, width int, height int) {
		g.push(Resized{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))})
	})

	window.SetFocusCallback(func(_win *glfw.Window, focused bool) {
		g.push(Focused{Focused: focused})
	})

	window.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}

		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		g.push(KeyInput{Key: key, Pressed: action == glfw.Press})
	})

	window.SetMouseButtonCallback(func(_win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		g.push(MouseButtonInput{Button: MouseButton(btn), Pressed: action == glfw.Press})
	})

	window.SetCursorPosCallback(func(_win *glfw.Window, xpos float64, ypos float64) {
		x, y := float32(xpos), float32(ypos)

		if g.hasCursor {
			g.push(MouseMotion{DX: x - g.cursorX, DY: y - g.cursorY})
		}

		g.hasCursor = true
		g.cursorX, g.cursorY = x, y

		g.push(CursorMoved{X: x, Y: y})
	})

	window.SetScrollCallback(func(_win *glfw.Window, xoff float64, yoff float64) {
		g.push(Scroll{DX: float32(xoff), DY: float32(yoff), Lines: true})
	})
}

func keyOf(glfwKey glfw.Key) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug(
			"Unknown key code",
			slog.String("key", glfw.GetKeyName(glfwKey, 0)),
		)
	}

	return
}

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyA: KeyA,
	glfw.KeyB: KeyB,
	glfw.KeyC: KeyC,
	glfw.KeyD: KeyD,
	glfw.KeyE: KeyE,
	glfw.KeyF: KeyF,
	glfw.KeyG: KeyG,
	glfw.KeyH: KeyH,
	glfw.KeyI: KeyI,
	glfw.KeyJ: KeyJ,
	glfw.KeyK: KeyK,
	glfw.KeyL: KeyL,
	glfw.KeyM: KeyM,
	glfw.KeyN: KeyN,
	glfw.KeyO: KeyO,
	glfw.KeyP: KeyP,
	glfw.KeyQ: KeyQ,
	glfw.KeyR: KeyR,
	glfw.KeyS: KeyS,
	glfw.KeyT: KeyT,
	glfw.KeyU: KeyU,
	glfw.KeyV: KeyV,
	glfw.KeyW: KeyW,
	glfw.KeyX: KeyX,
	glfw.KeyY: KeyY,
	glfw.KeyZ: KeyZ,

	glfw.Key0: Key0,
	glfw.Key1: Key1,
	glfw.Key2: Key2,
	glfw.Key3: Key3,
	glfw.Key4: Key4,
	glfw.Key5: Key5,
	glfw.Key6: Key6,
	glfw.Key7: Key7,
	glfw.Key8: Key8,
	glfw.Key9: Key9,

	glfw.KeyF1:  KeyF1,
	glfw.KeyF2:  KeyF2,
	glfw.KeyF3:  KeyF3,
	glfw.KeyF4:  KeyF4,
	glfw.KeyF5:  KeyF5,
	glfw.KeyF6:  KeyF6,
	glfw.KeyF7:  KeyF7,
	glfw.KeyF8:  KeyF8,
	glfw.KeyF9:  KeyF9,
	glfw.KeyF10: KeyF10,
	glfw.KeyF11: KeyF11,
	glfw.KeyF12: KeyF12,

	glfw.KeyEscape:    KeyEscape,
	glfw.KeyEnter:     KeyEnter,
	glfw.KeySpace:     KeySpace,
	glfw.KeyTab:       KeyTab,
	glfw.KeyBackspace: KeyBackspace,

	glfw.KeyLeft:  KeyLeft,
	glfw.KeyRight: KeyRight,
	glfw.KeyUp:    KeyUp,
	glfw.KeyDown:  KeyDown,

	glfw.KeyLeftShift:    KeyLeftShift,
	glfw.KeyRightShift:   KeyRightShift,
	glfw.KeyLeftControl:  KeyLeftControl,
	glfw.KeyRightControl: KeyRightControl,
	glfw.KeyLeftAlt:      KeyLeftAlt,
	glfw.KeyRightAlt:     KeyRightAlt,
}
