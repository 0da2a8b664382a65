package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	DefaultBackbufferWidth  = 1280
	DefaultBackbufferHeight = 720

	BackbufferFormat = wgpu.TextureFormatRGBA16Float
)

var BackbufferRenderLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "Backbuffer.RenderLayout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment | wgpu.ShaderStageCompute,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment | wgpu.ShaderStageCompute,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	},
}

var BackbufferStorageLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "Backbuffer.StorageLayout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageCompute,
			StorageTexture: wgpu.StorageTextureBindingLayout{
				Access:        wgpu.StorageTextureAccessWriteOnly,
				Format:        BackbufferFormat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
	},
}

// HdrBackbuffer is the fixed resolution render target techniques draw into.
// It is independent of the window size and never recreated on resize.
type HdrBackbuffer struct {
	Texture *Texture

	RenderLayout    *wgpu.BindGroupLayout
	RenderBindGroup *wgpu.BindGroup

	StorageLayout    *wgpu.BindGroupLayout
	StorageBindGroup *wgpu.BindGroup
}

func NewHdrBackbuffer(backend Backend, layouts *LayoutCache, samplers *SamplerCache, width, height uint32) (hb *HdrBackbuffer, err error) {
	hb = &HdrBackbuffer{}

	defer func() {
		if err != nil {
			hb.release(backend)
			hb = nil
		}
	}()

	hb.Texture, err = NewTexture(backend, NewTextureOptions{
		Label:  "HdrBackbuffer",
		Format: BackbufferFormat,
		Width:  width,
		Height: height,
		Usage: wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageStorageBinding |
			wgpu.TextureUsageRenderAttachment |
			wgpu.TextureUsageCopySrc,
	})

	if err != nil {
		return hb, err
	}

	sampler, err := samplers.Get(LinearSampler)
	if err != nil {
		return hb, err
	}

	if hb.RenderLayout, err = layouts.Get(&BackbufferRenderLayout); err != nil {
		return hb, err
	}

	if hb.StorageLayout, err = layouts.Get(&BackbufferStorageLayout); err != nil {
		return hb, err
	}

	hb.RenderBindGroup, err = backend.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "HdrBackbuffer.Render",
		Layout: hb.RenderLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: hb.Texture.View},
			{Binding: 1, Sampler: sampler},
		},
	})

	if err != nil {
		return hb, fmt.Errorf("create render bind group: %w", err)
	}

	hb.StorageBindGroup, err = backend.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "HdrBackbuffer.Storage",
		Layout: hb.StorageLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: hb.Texture.View},
		},
	})

	if err != nil {
		return hb, fmt.Errorf("create storage bind group: %w", err)
	}

	return hb, nil
}

func (hb *HdrBackbuffer) Width() uint32 {
	return hb.Texture.Width
}

func (hb *HdrBackbuffer) Height() uint32 {
	return hb.Texture.Height
}

func (hb *HdrBackbuffer) release(backend Backend) {
	if hb.StorageBindGroup != nil {
		backend.Release(hb.StorageBindGroup)
	}

	if hb.RenderBindGroup != nil {
		backend.Release(hb.RenderBindGroup)
	}

	if hb.Texture != nil {
		backend.Release(hb.Texture)
	}
}
