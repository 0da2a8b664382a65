package pulse

import (
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

type Releaser interface {
	Release()
}

// PassRecorder is the subset of wgpu.RenderPassEncoder used to record
// the draw calls of a single render pass.
type PassRecorder interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// RenderPipelineDescriptor describes a render pipeline without vertex buffers,
// compiled from a single wgsl module.
type RenderPipelineDescriptor struct {
	Label string

	// wgsl source containing both entry points
	Shader        string
	VertexEntry   string
	FragmentEntry string
	BindGroups    []*wgpu.BindGroupLayout
	Targets       []wgpu.ColorTargetState

	// defaults to a triangle list without culling
	PrimitiveState *wgpu.PrimitiveState
}

// Backend is the set of device operations the Context sequences every frame.
// Resources returned by a Backend must be released using Backend.Release.
type Backend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Limits() wgpu.Limits

	ConfigureSurface(config *wgpu.SurfaceConfiguration) error

	CreateTexture(desc *wgpu.TextureDescriptor) (*Texture, error)
	CreateBuffer(desc *wgpu.BufferDescriptor) (*Buffer, error)
	CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error)
	CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)

	WriteBuffer(buffer *Buffer, offset uint64, data []byte) error

	// AcquireSurfaceTexture returns the next texture of the swapchain. Failures
	// are reported as *SurfaceError.
	AcquireSurfaceTexture() (*Texture, error)

	// RenderPass records a single render pass using record and submits it to the queue.
	RenderPass(desc *wgpu.RenderPassDescriptor, record func(pass PassRecorder)) error

	Present()

	// CopyTextureToBuffer copies the region described by dims from the
	// first mip level of src into dst and submits the copy.
	CopyTextureToBuffer(src *Texture, dst *Buffer, dims ImageDimensions) error

	// ReadBuffer maps the first size bytes of buffer for reading, blocks until
	// the device signals completion and returns a copy of the mapped range.
	// The buffer is unmapped before ReadBuffer returns.
	ReadBuffer(buffer *Buffer, size uint64) ([]byte, error)

	Release(resource Releaser)
}

type wgpuBackend struct {
	dev *Device
}

// NewBackend returns a Backend that executes every operation on the given device.
func NewBackend(dev *Device) Backend {
	return &wgpuBackend{dev: dev}
}

func (b *wgpuBackend) Device() *wgpu.Device {
	return b.dev.Device
}

func (b *wgpuBackend) Queue() *wgpu.Queue {
	return b.dev.Queue
}

func (b *wgpuBackend) Limits() wgpu.Limits {
	return b.dev.Limits
}

func (b *wgpuBackend) ConfigureSurface(config *wgpu.SurfaceConfiguration) error {
	caps := b.dev.Surface.GetCapabilities(b.dev.Adapter)

	if !slices.Contains(caps.Formats, config.Format) {
		return fmt.Errorf("surface format %s not supported, available: %v", config.Format, caps.Formats)
	}

	if config.AlphaMode == wgpu.CompositeAlphaModeAuto && len(caps.AlphaModes) > 0 {
		config.AlphaMode = caps.AlphaModes[0]
	}

	b.dev.Surface.Configure(b.dev.Adapter, b.dev.Device, config)
	return nil
}

func (b *wgpuBackend) CreateTexture(desc *wgpu.TextureDescriptor) (*Texture, error) {
	return newWGPUTexture(b.dev.Device, desc)
}

func (b *wgpuBackend) CreateBuffer(desc *wgpu.BufferDescriptor) (*Buffer, error) {
	buf, err := b.dev.CreateBuffer(desc)
	if err != nil {
		return nil, err
	}

	return wrapBuffer(buf, desc), nil
}

func (b *wgpuBackend) CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return b.dev.CreateSampler(desc)
}

func (b *wgpuBackend) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return b.dev.CreateBindGroupLayout(desc)
}

func (b *wgpuBackend) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return b.dev.CreateBindGroup(desc)
}

func (b *wgpuBackend) CreateRenderPipeline(desc *RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	shader, err := b.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + ".Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.Shader},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	defer shader.Release()

	layout, err := b.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + ".Layout",
		BindGroupLayouts: desc.BindGroups,
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer layout.Release()

	primitive := wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}

	if desc.PrimitiveState != nil {
		primitive = *desc.PrimitiveState
	}

	return b.dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: desc.VertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: desc.FragmentEntry,
			Targets:    desc.Targets,
		},
		Primitive: primitive,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

func (b *wgpuBackend) WriteBuffer(buffer *Buffer, offset uint64, data []byte) error {
	return b.dev.Queue.WriteBuffer(buffer.Buffer, offset, data)
}

func (b *wgpuBackend) AcquireSurfaceTexture() (*Texture, error) {
	texture, err := b.dev.Surface.GetCurrentTexture()
	if err != nil {
		return nil, classifySurfaceError(err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, unusableSurfaceTexture(err)
	}

	size := wgpu.Extent3D{
		Width:              texture.GetWidth(),
		Height:             texture.GetHeight(),
		DepthOrArrayLayers: 1,
	}

	return wrapTexture(texture, view, size, texture.GetFormat()), nil
}

func (b *wgpuBackend) RenderPass(desc *wgpu.RenderPassDescriptor, record func(pass PassRecorder)) error {
	encoder, err := b.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: desc.Label})
	if err != nil {
		return err
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(desc)

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	record(pass)

	if err := pass.End(); err != nil {
		return err
	}

	// must release pass before finishing the encoder
	passGuard.Release()

	buf, err := encoder.Finish(nil)
	if err != nil {
		return err
	}

	defer buf.Release()

	b.dev.Queue.Submit(buf)

	return nil
}

func (b *wgpuBackend) Present() {
	b.dev.Surface.Present()
}

func (b *wgpuBackend) CopyTextureToBuffer(src *Texture, dst *Buffer, dims ImageDimensions) error {
	encoder, err := b.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "CopyTextureToBuffer"})
	if err != nil {
		return err
	}

	defer encoder.Release()

	err = encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture: src.Texture,
			Aspect:  wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: dst.Buffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  dims.PaddedBytesPerRow,
				RowsPerImage: dims.Height,
			},
		},
		&wgpu.Extent3D{
			Width:              dims.Width,
			Height:             dims.Height,
			DepthOrArrayLayers: 1,
		},
	)

	if err != nil {
		return fmt.Errorf("encode copy: %w", err)
	}

	buf, err := encoder.Finish(nil)
	if err != nil {
		return err
	}

	defer buf.Release()

	b.dev.Queue.Submit(buf)

	return nil
}

func (b *wgpuBackend) ReadBuffer(buffer *Buffer, size uint64) ([]byte, error) {
	return readMapped(b.dev.Device, buffer.Buffer, size)
}

func (b *wgpuBackend) Release(resource Releaser) {
	if resource != nil {
		resource.Release()
	}
}

// readMapped maps the buffer, waits on the device until the mapping
// completed and copies the mapped bytes. The buffer is always unmapped again.
func readMapped(dev *wgpu.Device, buffer *wgpu.Buffer, size uint64) ([]byte, error) {
	var status wgpu.BufferMapAsyncStatus
	var done bool

	err := buffer.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMapFailed, err)
	}

	for !done {
		dev.Poll(true, nil)
	}

	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%w: status %d", ErrMapFailed, status)
	}

	defer buffer.Unmap()

	mapped := buffer.GetMappedRange(0, uint(size))
	return slices.Clone(mapped), nil
}

// ReleaseGuard releases its delegate unless Keep was called.
type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Keep() {
	r.delegate = nil
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
