package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LayoutCache hands out one bind group layout per descriptor. Descriptors are
// identified by their address, use package level descriptor values.
type LayoutCache struct {
	backend Backend
	cache   *lru.Cache[*wgpu.BindGroupLayoutDescriptor, *wgpu.BindGroupLayout]
}

func NewLayoutCache(backend Backend) *LayoutCache {
	cache, _ := lru.NewWithEvict[*wgpu.BindGroupLayoutDescriptor, *wgpu.BindGroupLayout](32,
		func(_ *wgpu.BindGroupLayoutDescriptor, value *wgpu.BindGroupLayout) {
			backend.Release(value)
		},
	)

	return &LayoutCache{backend: backend, cache: cache}
}

// Get returns the layout for desc. The layout is owned by the cache,
// you must not release it.
func (c *LayoutCache) Get(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	cached, ok := c.cache.Get(desc)
	if ok {
		return cached, nil
	}

	layout, err := c.backend.CreateBindGroupLayout(desc)
	if err != nil {
		return nil, fmt.Errorf("create bind group layout %q: %w", desc.Label, err)
	}

	c.cache.Add(desc, layout)

	return layout, nil
}

func (c *LayoutCache) Purge() {
	c.cache.Purge()
}

// SamplerCache hands out one sampler per sampler descriptor
type SamplerCache struct {
	backend Backend
	cache   *lru.Cache[wgpu.SamplerDescriptor, *wgpu.Sampler]
}

func NewSamplerCache(backend Backend) *SamplerCache {
	cache, _ := lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16,
		func(_ wgpu.SamplerDescriptor, value *wgpu.Sampler) {
			backend.Release(value)
		},
	)

	return &SamplerCache{backend: backend, cache: cache}
}

// Get returns a sampler matching your description. The sampler may be cached,
// you must not call wgpu.Sampler.Release() on it.
func (c *SamplerCache) Get(desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	cachedSampler, ok := c.cache.Get(desc)
	if ok {
		return cachedSampler, nil
	}

	sampler, err := c.backend.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	c.cache.Add(desc, sampler)

	return sampler, nil
}

func (c *SamplerCache) Purge() {
	c.cache.Purge()
}

// LinearSampler filters linearly and clamps to the edge in all directions
var LinearSampler = wgpu.SamplerDescriptor{
	Label:         "Linear",
	AddressModeU:  wgpu.AddressModeClampToEdge,
	AddressModeV:  wgpu.AddressModeClampToEdge,
	AddressModeW:  wgpu.AddressModeClampToEdge,
	MagFilter:     wgpu.FilterModeLinear,
	MinFilter:     wgpu.FilterModeLinear,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMinClamp:   0,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}
