package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and an identity wgpu.TextureView
// together with the dimensions it was created with.
type Texture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView

	Width  uint32
	Height uint32
	Depth  uint32
	Format wgpu.TextureFormat

	release func()
}

type NewTextureOptions struct {
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32

	// number of layers for a 3d texture, zero or one for a 2d texture
	Depth uint32

	Usage wgpu.TextureUsage
	Label string
}

// NewTexture creates a 2d or 3d texture with a single mip level
func NewTexture(backend Backend, opts NewTextureOptions) (*Texture, error) {
	dimension := wgpu.TextureDimension2D
	if opts.Depth > 1 {
		dimension = wgpu.TextureDimension3D
	}

	if opts.Usage == 0 {
		opts.Usage = wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
	}

	desc := &wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        opts.Format,
		SampleCount:   1,
		MipLevelCount: 1,
		Dimension:     dimension,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: max(opts.Depth, 1),
		},
		Usage: opts.Usage,
	}

	return NewTextureFromDesc(backend, desc)
}

// NewTextureFromDesc gives you full control and creates a texture directly from
// a texture descriptor
func NewTextureFromDesc(backend Backend, desc *wgpu.TextureDescriptor) (*Texture, error) {
	texture, err := backend.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}

	return texture, nil
}

func newWGPUTexture(dev *wgpu.Device, desc *wgpu.TextureDescriptor) (*Texture, error) {
	texture, err := dev.CreateTexture(desc)
	if err != nil {
		return nil, err
	}

	// now create a default texture view
	textureView, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()

		return nil, err
	}

	return wrapTexture(texture, textureView, desc.Size, desc.Format), nil
}

func wrapTexture(texture *wgpu.Texture, view *wgpu.TextureView, size wgpu.Extent3D, format wgpu.TextureFormat) *Texture {
	return &Texture{
		Texture: texture,
		View:    view,
		Width:   size.Width,
		Height:  size.Height,
		Depth:   size.DepthOrArrayLayers,
		Format:  format,
		release: func() {
			view.Release()
			texture.Release()
		},
	}
}

// Release releases the texture view and the texture. You must be sure
// to not use the texture after calling release.
func (t *Texture) Release() {
	if t == nil || t.release == nil {
		return
	}

	t.release()
	t.release = nil
}

type WritePixelsOptions struct {
	Pixels []byte

	// bytes per texel, defaults to 4
	BytesPerTexel uint32
}

// WritePixels uploads the full extent of the texture. Pixels must be tightly
// packed, row by row and layer by layer.
func (t *Texture) WritePixels(queue *wgpu.Queue, opts WritePixelsOptions) error {
	if opts.BytesPerTexel == 0 {
		opts.BytesPerTexel = 4
	}

	depth := max(t.Depth, 1)

	expected := int(t.Width * t.Height * depth * opts.BytesPerTexel)
	if len(opts.Pixels) != expected {
		return fmt.Errorf("expected %d bytes of pixel data, got %d", expected, len(opts.Pixels))
	}

	layout := &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  t.Width * opts.BytesPerTexel,
		RowsPerImage: t.Height,
	}

	size := &wgpu.Extent3D{
		Width:              t.Width,
		Height:             t.Height,
		DepthOrArrayLayers: depth,
	}

	dest := &wgpu.ImageCopyTexture{
		Texture:  t.Texture,
		MipLevel: 0,
		Origin:   wgpu.Origin3D{},
		Aspect:   wgpu.TextureAspectAll,
	}

	// send data to the gpu
	if err := queue.WriteTexture(dest, opts.Pixels, layout, size); err != nil {
		return fmt.Errorf("copy pixel data to texture: %w", err)
	}

	return nil
}
