package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

type ComputePipelineDescriptor struct {
	Label string

	// wgsl source of the module containing the entry point
	Shader     string
	EntryPoint string
	BindGroups []*wgpu.BindGroupLayout
}

func NewComputePipeline(device *wgpu.Device, desc ComputePipelineDescriptor) (*wgpu.ComputePipeline, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + ".Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.Shader},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	defer shader.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + ".Layout",
		BindGroupLayouts: desc.BindGroups,
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer layout.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create compute pipeline %q: %w", desc.Label, err)
	}

	return pipeline, nil
}

// Submit records commands into a new encoder and submits them to the queue.
func Submit(device *wgpu.Device, queue *wgpu.Queue, label string, record func(encoder *wgpu.CommandEncoder) error) error {
	encoder, err := device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	if err := record(encoder); err != nil {
		return err
	}

	buf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish %q: %w", label, err)
	}

	defer buf.Release()

	queue.Submit(buf)

	return nil
}

// ComputePass records a single compute pass into encoder.
func ComputePass(encoder *wgpu.CommandEncoder, desc *wgpu.ComputePassDescriptor, record func(pass *wgpu.ComputePassEncoder)) error {
	pass := encoder.BeginComputePass(desc)

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	record(pass)

	if err := pass.End(); err != nil {
		return fmt.Errorf("end compute pass: %w", err)
	}

	return nil
}

// RenderPass records a single render pass into encoder.
func RenderPass(encoder *wgpu.CommandEncoder, desc *wgpu.RenderPassDescriptor, record func(pass *wgpu.RenderPassEncoder)) error {
	pass := encoder.BeginRenderPass(desc)

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	record(pass)

	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	return nil
}
