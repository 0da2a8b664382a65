package pulse

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2"
)

// PipelineCache builds pipelines on demand from a comparable configuration.
// Pipelines are released on eviction and on Purge, e.g. after a shader was
// changed on disk.
type PipelineCache[C comparable, P Releaser] struct {
	build func(config C) (P, error)
	cache *lru.Cache[C, P]
}

func NewPipelineCache[C comparable, P Releaser](size int, build func(config C) (P, error)) *PipelineCache[C, P] {
	cache, _ := lru.NewWithEvict[C, P](max(size, 1), releasePipelineOnEviction[C, P])

	return &PipelineCache[C, P]{
		build: build,
		cache: cache,
	}
}

func (p *PipelineCache[C, P]) Get(conf C) (P, error) {
	cached, ok := p.cache.Get(conf)
	if ok {
		return cached, nil
	}

	pipeline, err := p.build(conf)
	if err != nil {
		var zero P
		return zero, fmt.Errorf("build pipeline: %w", err)
	}

	p.cache.Add(conf, pipeline)

	return pipeline, nil
}

func (p *PipelineCache[C, P]) Len() int {
	return p.cache.Len()
}

// Purge releases all cached pipelines
func (p *PipelineCache[C, P]) Purge() {
	p.cache.Purge()
}

func releasePipelineOnEviction[C any, P Releaser](_config C, pipeline P) {
	pipeline.Release()
}
