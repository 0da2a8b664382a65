package pulse

import (
	"fmt"
	"structs"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// Binding slots shared by every pipeline that renders with a Context
const (
	SlotGlobals uint32 = 0
	SlotCamera  uint32 = 1

	// first slot available to techniques
	SlotUser uint32 = 2
)

// pressed bits of Pointer.Pressed
const (
	PointerPrimary   uint32 = 1 << 0
	PointerSecondary uint32 = 1 << 1
	PointerMiddle    uint32 = 1 << 2
)

// Timing is the frame clock state consumed by Context.Update
type Timing struct {
	Elapsed time.Duration
	Delta   time.Duration
	Frame   uint64
}

// Pointer is the cursor position in window pixels and a bitmask of the pressed buttons.
type Pointer struct {
	X, Y    float32
	Pressed uint32
}

// GlobalUniform is the per frame state visible to every shader at SlotGlobals.
type GlobalUniform struct {
	Time       float32
	TimeDelta  float32
	Frame      uint64
	Resolution [2]uint32
	Pointer    Pointer
}

// globalUniformData matches the wgsl struct
//
//	struct Globals {
//	    pointer: vec2<f32>,
//	    resolution: vec2<u32>,
//	    time: f32,
//	    time_delta: f32,
//	    frame: vec2<u32>,
//	    pointer_pressed: u32,
//	}
type globalUniformData struct {
	_ structs.HostLayout

	Pointer        [2]float32
	Resolution     [2]uint32
	Time           float32
	TimeDelta      float32
	Frame          [2]uint32
	PointerPressed uint32
	_              [3]uint32
}

func (g *GlobalUniform) gpuData() globalUniformData {
	return globalUniformData{
		Pointer:        [2]float32{g.Pointer.X, g.Pointer.Y},
		Resolution:     g.Resolution,
		Time:           g.Time,
		TimeDelta:      g.TimeDelta,
		Frame:          [2]uint32{uint32(g.Frame), uint32(g.Frame >> 32)},
		PointerPressed: g.Pointer.Pressed,
	}
}

var GlobalUniformLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "GlobalUniform.Layout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment | wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		},
	},
}

// UniformBinding mirrors a host value of type T in a single uniform buffer.
// Every update overwrites the complete buffer with one queue write.
type UniformBinding[T any] struct {
	Buffer    *Buffer
	Layout    *wgpu.BindGroupLayout
	BindGroup *wgpu.BindGroup
}

func newUniformBinding[T any](backend Backend, layouts *LayoutCache, label string, desc *wgpu.BindGroupLayoutDescriptor) (*UniformBinding[T], error) {
	layout, err := layouts.Get(desc)
	if err != nil {
		return nil, err
	}

	var zeroT T
	buffer, err := NewBuffer(backend, label, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, uint64(len(AsByteSlice(&zeroT))))
	if err != nil {
		return nil, err
	}

	bindGroup, err := backend.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + ".BindGroup",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffer.Buffer,
				Size:    wgpu.WholeSize,
			},
		},
	})

	if err != nil {
		backend.Release(buffer)
		return nil, fmt.Errorf("create bind group %q: %w", label, err)
	}

	return &UniformBinding[T]{Buffer: buffer, Layout: layout, BindGroup: bindGroup}, nil
}

func (u *UniformBinding[T]) update(backend Backend, value *T) error {
	return backend.WriteBuffer(u.Buffer, 0, AsByteSlice(value))
}

func (u *UniformBinding[T]) release(backend Backend) {
	backend.Release(u.BindGroup)
	backend.Release(u.Buffer)
}
