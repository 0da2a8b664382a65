package orion

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/selis/glimpse"
	"github.com/oliverbestmann/selis/pulse"
)

// Technique is a rendering technique driven by the Driver. All hooks are called
// on the render thread. The device, queue and context must not be retained
// past the duration of a hook.
type Technique interface {
	// Resize is called after the surface was reconfigured to a new, non-zero size.
	Resize(device *wgpu.Device, queue *wgpu.Queue, config wgpu.SurfaceConfiguration)

	// Update is called once per iteration after the shared uniforms were refreshed.
	Update(ctx *pulse.Context) error

	// Input receives every window event, including resize events.
	Input(event glimpse.Event)

	// Render records and submits the techniques gpu work for one frame,
	// usually into the hdr backbuffer.
	Render(ctx *pulse.Context) error
}

// InitFunc constructs a Technique. It is called exactly once, before any other hook.
type InitFunc func(ctx *pulse.Context) (Technique, error)

// BaseTechnique implements all hooks as no-ops. Embed it to
// only implement the hooks you need.
type BaseTechnique struct{}

func (BaseTechnique) Resize(*wgpu.Device, *wgpu.Queue, wgpu.SurfaceConfiguration) {}

func (BaseTechnique) Update(*pulse.Context) error {
	return nil
}

func (BaseTechnique) Input(glimpse.Event) {}

func (BaseTechnique) Render(*pulse.Context) error {
	return nil
}
