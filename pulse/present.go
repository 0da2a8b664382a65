package pulse

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// CommonShader declares the Globals and Camera structs. Prepend it to
// shaders that bind SlotGlobals or SlotCamera.
//
//go:embed common.wgsl
var CommonShader string

//go:embed present.wgsl
var presentShader string

const RGBTextureFormat = wgpu.TextureFormatRGBA8Unorm

// PresentPipeline tone maps the backbuffer into the surface and into the
// rgb texture in a single pass.
type PresentPipeline struct {
	Pipeline *wgpu.RenderPipeline
}

func NewPresentPipeline(backend Backend, layouts *LayoutCache, surfaceFormat wgpu.TextureFormat) (*PresentPipeline, error) {
	slog.Info("Create present pipeline", slog.String("surfaceFormat", surfaceFormat.String()))

	globalsLayout, err := layouts.Get(&GlobalUniformLayout)
	if err != nil {
		return nil, err
	}

	backbufferLayout, err := layouts.Get(&BackbufferRenderLayout)
	if err != nil {
		return nil, err
	}

	pipeline, err := backend.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:         "Present",
		Shader:        CommonShader + presentShader,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		BindGroups:    []*wgpu.BindGroupLayout{globalsLayout, backbufferLayout},
		Targets: []wgpu.ColorTargetState{
			{
				Format:    surfaceFormat,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			},
			{
				Format:    RGBTextureFormat,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("create present pipeline: %w", err)
	}

	return &PresentPipeline{Pipeline: pipeline}, nil
}

func (p *PresentPipeline) record(pass PassRecorder, globals, backbuffer *wgpu.BindGroup) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, globals, nil)
	pass.SetBindGroup(1, backbuffer, nil)
	pass.Draw(3, 1, 0, 0)
}

func (p *PresentPipeline) release(backend Backend) {
	backend.Release(p.Pipeline)
}
