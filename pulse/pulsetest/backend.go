// Package pulsetest provides a pulse.Backend that records every operation
// instead of talking to a gpu.
package pulsetest

import (
	"errors"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/selis/pulse"
)

// Attachment is a color attachment as seen by a recorded render pass
type Attachment struct {
	View    *wgpu.TextureView
	LoadOp  wgpu.LoadOp
	StoreOp wgpu.StoreOp
}

type Pass struct {
	Label       string
	Attachments []Attachment
	Pipelines   []*wgpu.RenderPipeline
	BindGroups  map[uint32]*wgpu.BindGroup
	Draws       int
}

type Write struct {
	Buffer *pulse.Buffer
	Offset uint64
	Data   []byte
}

// Backend records all calls. Handles returned are unique, empty wgpu objects
// that must never reach the real binding.
type Backend struct {
	mu sync.Mutex

	// errors returned by subsequent calls to AcquireSurfaceTexture, in order
	AcquireErrors []error

	// error returned by ConfigureSurface, if set
	ConfigureError error

	// error returned by ReadBuffer, if set
	ReadError error

	// error returned by CreateTexture, if set
	TextureError error

	Configurations []wgpu.SurfaceConfiguration
	Textures       []*pulse.Texture
	Buffers        []*pulse.Buffer
	Writes         []Write
	Passes         []Pass
	Presents       int
	Copies         int
	Reads          int
	Released       []pulse.Releaser

	// resources created and not yet released
	live map[any]bool

	SurfaceTextures []*pulse.Texture
}

func New() *Backend {
	return &Backend{live: map[any]bool{}}
}

func (b *Backend) Device() *wgpu.Device {
	return nil
}

func (b *Backend) Queue() *wgpu.Queue {
	return nil
}

func (b *Backend) Limits() wgpu.Limits {
	return wgpu.DefaultLimits()
}

func (b *Backend) ConfigureSurface(config *wgpu.SurfaceConfiguration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ConfigureError != nil {
		return b.ConfigureError
	}

	b.Configurations = append(b.Configurations, *config)
	return nil
}

// LastConfiguration returns the configuration most recently applied to the surface
func (b *Backend) LastConfiguration() wgpu.SurfaceConfiguration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.Configurations[len(b.Configurations)-1]
}

func (b *Backend) CreateTexture(desc *wgpu.TextureDescriptor) (*pulse.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.TextureError != nil {
		return nil, b.TextureError
	}

	texture := &pulse.Texture{
		Texture: new(wgpu.Texture),
		View:    new(wgpu.TextureView),
		Width:   desc.Size.Width,
		Height:  desc.Size.Height,
		Depth:   desc.Size.DepthOrArrayLayers,
		Format:  desc.Format,
	}

	b.Textures = append(b.Textures, texture)
	b.live[texture] = true

	return texture, nil
}

func (b *Backend) CreateBuffer(desc *wgpu.BufferDescriptor) (*pulse.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buffer := &pulse.Buffer{
		Buffer: new(wgpu.Buffer),
		Size:   desc.Size,
		Usage:  desc.Usage,
	}

	b.Buffers = append(b.Buffers, buffer)
	b.live[buffer] = true

	return buffer, nil
}

func (b *Backend) CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return track(b, new(wgpu.Sampler)), nil
}

func (b *Backend) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return track(b, new(wgpu.BindGroupLayout)), nil
}

func (b *Backend) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	if desc.Layout == nil {
		return nil, errors.New("bind group without layout")
	}

	return track(b, new(wgpu.BindGroup)), nil
}

func (b *Backend) CreateRenderPipeline(desc *pulse.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return track(b, new(wgpu.RenderPipeline)), nil
}

func track[T any](b *Backend, value *T) *T {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.live[value] = true
	return value
}

func (b *Backend) WriteBuffer(buffer *pulse.Buffer, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.live[buffer] {
		return errors.New("write to released buffer")
	}

	b.Writes = append(b.Writes, Write{
		Buffer: buffer,
		Offset: offset,
		Data:   append([]byte(nil), data...),
	})

	return nil
}

// WritesTo returns all writes to the given buffer in order
func (b *Backend) WritesTo(buffer *pulse.Buffer) []Write {
	b.mu.Lock()
	defer b.mu.Unlock()

	var writes []Write
	for _, write := range b.Writes {
		if write.Buffer == buffer {
			writes = append(writes, write)
		}
	}

	return writes
}

func (b *Backend) AcquireSurfaceTexture() (*pulse.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.AcquireErrors) > 0 {
		err := b.AcquireErrors[0]
		b.AcquireErrors = b.AcquireErrors[1:]
		return nil, err
	}

	config := b.Configurations[len(b.Configurations)-1]

	texture := &pulse.Texture{
		Texture: new(wgpu.Texture),
		View:    new(wgpu.TextureView),
		Width:   config.Width,
		Height:  config.Height,
		Depth:   1,
		Format:  config.Format,
	}

	b.SurfaceTextures = append(b.SurfaceTextures, texture)
	b.live[texture] = true

	return texture, nil
}

func (b *Backend) RenderPass(desc *wgpu.RenderPassDescriptor, record func(pass pulse.PassRecorder)) error {
	pass := Pass{
		Label:      desc.Label,
		BindGroups: map[uint32]*wgpu.BindGroup{},
	}

	for _, attachment := range desc.ColorAttachments {
		pass.Attachments = append(pass.Attachments, Attachment{
			View:    attachment.View,
			LoadOp:  attachment.LoadOp,
			StoreOp: attachment.StoreOp,
		})
	}

	record(&passRecorder{pass: &pass})

	b.mu.Lock()
	defer b.mu.Unlock()

	b.Passes = append(b.Passes, pass)

	return nil
}

func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Presents++
}

func (b *Backend) CopyTextureToBuffer(src *pulse.Texture, dst *pulse.Buffer, dims pulse.ImageDimensions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dims.LinearSize() > dst.Size {
		return errors.New("copy exceeds buffer size")
	}

	b.Copies++
	return nil
}

func (b *Backend) ReadBuffer(buffer *pulse.Buffer, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Reads++

	if b.ReadError != nil {
		return nil, b.ReadError
	}

	data := make([]byte, size)
	for idx := range data {
		data[idx] = byte(idx)
	}

	return data, nil
}

func (b *Backend) Release(resource pulse.Releaser) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Released = append(b.Released, resource)
	delete(b.live, resource)
}

// IsLive returns true if the resource was created by this backend and not yet released
func (b *Backend) IsLive(resource any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.live[resource]
}

// LiveCount returns the number of resources that have not yet been released
func (b *Backend) LiveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.live)
}

type passRecorder struct {
	pass *Pass
}

func (p *passRecorder) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.Pipelines = append(p.pass.Pipelines, pipeline)
}

func (p *passRecorder) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32) {
	p.pass.BindGroups[groupIndex] = group
}

func (p *passRecorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draws++
}
