package pulse

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

const bytesPerPixel = 4

// ImageDimensions describes the layout of an image copied into a buffer.
// Rows in the buffer are padded to the copy alignment of the device.
type ImageDimensions struct {
	Width               uint32
	Height              uint32
	UnpaddedBytesPerRow uint32
	PaddedBytesPerRow   uint32
}

// NewImageDimensions rounds width and height down to even values and
// computes the row pitch for a four byte per pixel format. The padded
// row pitch is a multiple of align.
func NewImageDimensions(width, height, align uint32) ImageDimensions {
	width = width &^ 1
	height = height &^ 1

	unpadded := width * bytesPerPixel
	padded := DispatchSize(unpadded, align) * align

	return ImageDimensions{
		Width:               width,
		Height:              height,
		UnpaddedBytesPerRow: unpadded,
		PaddedBytesPerRow:   padded,
	}
}

func (d ImageDimensions) LinearSize() uint64 {
	return uint64(d.PaddedBytesPerRow) * uint64(d.Height)
}

// Screenshot holds raw pixel rows as read back from the gpu, including the row padding.
type Screenshot struct {
	Pixels     []byte
	Dimensions ImageDimensions
}

// Image strips the row padding and returns the pixels as an image.
func (s Screenshot) Image() *image.RGBA {
	dims := s.Dimensions

	img := image.NewRGBA(image.Rect(0, 0, int(dims.Width), int(dims.Height)))
	for y := range int(dims.Height) {
		src := s.Pixels[y*int(dims.PaddedBytesPerRow):][:dims.UnpaddedBytesPerRow]
		copy(img.Pix[y*img.Stride:], src)
	}

	return img
}

// Screenshotter copies a texture into a host visible buffer. The buffer is
// reused between captures and only reallocated when it needs to grow.
type Screenshotter struct {
	backend Backend
	buffer  *Buffer
	dims    ImageDimensions
}

func NewScreenshotter(backend Backend, width, height uint32) (*Screenshotter, error) {
	s := &Screenshotter{backend: backend}

	if err := s.Resize(width, height); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Screenshotter) Dimensions() ImageDimensions {
	return s.dims
}

// Resize updates the dimensions of the next capture
func (s *Screenshotter) Resize(width, height uint32) error {
	s.dims = NewImageDimensions(width, height, wgpu.CopyBytesPerRowAlignment)

	size := s.dims.LinearSize()
	if s.buffer != nil && s.buffer.Size >= size {
		return nil
	}

	buffer, err := NewBuffer(s.backend, "Screenshot", wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst, size)
	if err != nil {
		return err
	}

	if s.buffer != nil {
		s.backend.Release(s.buffer)
	}

	s.buffer = buffer

	return nil
}

// Capture copies src into the readback buffer and blocks until the pixels are available.
func (s *Screenshotter) Capture(src *Texture) (Screenshot, error) {
	if src.Width&^1 != s.dims.Width || src.Height&^1 != s.dims.Height {
		if err := s.Resize(src.Width, src.Height); err != nil {
			return Screenshot{}, err
		}
	}

	if err := s.backend.CopyTextureToBuffer(src, s.buffer, s.dims); err != nil {
		return Screenshot{}, fmt.Errorf("copy texture: %w", err)
	}

	pixels, err := s.backend.ReadBuffer(s.buffer, s.dims.LinearSize())
	if err != nil {
		return Screenshot{}, fmt.Errorf("read screenshot: %w", err)
	}

	return Screenshot{Pixels: pixels, Dimensions: s.dims}, nil
}

func (s *Screenshotter) Release() {
	if s.buffer != nil {
		s.backend.Release(s.buffer)
		s.buffer = nil
	}
}
