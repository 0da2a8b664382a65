package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer wraps a wgpu.Buffer together with its allocation size
type Buffer struct {
	Buffer *wgpu.Buffer
	Size   uint64
	Usage  wgpu.BufferUsage

	release func()
}

func NewBuffer(backend Backend, label string, usage wgpu.BufferUsage, size uint64) (*Buffer, error) {
	buf, err := backend.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Usage: usage,
		Size:  size,
	})

	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", label, err)
	}

	return buf, nil
}

func wrapBuffer(buf *wgpu.Buffer, desc *wgpu.BufferDescriptor) *Buffer {
	return &Buffer{
		Buffer:  buf,
		Size:    desc.Size,
		Usage:   desc.Usage,
		release: buf.Release,
	}
}

func (b *Buffer) Release() {
	if b == nil || b.release == nil {
		return
	}

	b.release()
	b.release = nil
}
