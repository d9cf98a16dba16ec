package pipeline

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Descriptor is the complete, backend-neutral description of the triangle render pipeline.
// A Device compiles it into a GPU pipeline object.
type Descriptor struct {
	Label         string
	Shader        shader.Shader
	VertexEntry   string
	FragmentEntry string

	// Format is the single color target's pixel format.
	Format wgpu.TextureFormat

	Topology    wgpu.PrimitiveTopology
	FrontFace   wgpu.FrontFace
	CullMode    wgpu.CullMode
	SampleCount uint32
	SampleMask  uint32
	Blend       wgpu.BlendState
	WriteMask   wgpu.ColorWriteMask
}

// Device compiles pipeline descriptors. The renderer backend implements it on top of
// the GPU device; tests substitute a fake.
type Device interface {
	// CompilePipeline turns desc into a GPU pipeline object.
	//
	// Parameters:
	//   - desc: the pipeline description
	//
	// Returns:
	//   - any: the backend pipeline handle, *wgpu.RenderPipeline for the wgpu backend
	//   - error: an error if the device rejects the shader or the state
	CompilePipeline(desc Descriptor) (any, error)
}

// ReplaceBlend is the blend state that writes the fragment color unchanged.
var ReplaceBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

// RenderPipelineDescriptor converts d into the wgpu descriptor. Rasterization fills polygons,
// which WebGPU has no switch for. There is no depth/stencil state and no vertex buffer.
//
// Parameters:
//   - module: the compiled shader module holding both entry points
//   - layout: the pipeline layout, expected to be empty
//
// Returns:
//   - *wgpu.RenderPipelineDescriptor: the descriptor ready for Device.CreateRenderPipeline
func (d Descriptor) RenderPipelineDescriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout) *wgpu.RenderPipelineDescriptor {
	blend := d.Blend
	return &wgpu.RenderPipelineDescriptor{
		Label:  d.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: d.VertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: d.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    d.Format,
					Blend:     &blend,
					WriteMask: d.WriteMask,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  d.Topology,
			FrontFace: d.FrontFace,
			CullMode:  d.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: d.SampleCount,
			Mask:  d.SampleMask,
		},
	}
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	desc   Descriptor
	handle any
}

// Pipeline is an immutable compiled render pipeline together with the description it was
// built from.
type Pipeline interface {
	// Label returns the debug label of the pipeline.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Descriptor returns the description the pipeline was compiled from.
	//
	// Returns:
	//   - Descriptor: a copy of the descriptor
	Descriptor() Descriptor

	// Format returns the color target format the pipeline writes.
	//
	// Returns:
	//   - wgpu.TextureFormat: the target format
	Format() wgpu.TextureFormat

	// Pipeline returns the underlying backend object.
	// Note: The caller is responsible for type asserting the returned value, *wgpu.RenderPipeline for the wgpu backend.
	//
	// Returns:
	//   - any: the underlying pipeline object
	Pipeline() any

	// Release frees the backend object if it supports releasing.
	Release()
}

var _ Pipeline = &pipeline{}

func (p *pipeline) Label() string {
	return p.desc.Label
}

func (p *pipeline) Descriptor() Descriptor {
	return p.desc
}

func (p *pipeline) Format() wgpu.TextureFormat {
	return p.desc.Format
}

func (p *pipeline) Pipeline() any {
	return p.handle
}

func (p *pipeline) Release() {
	if r, ok := p.handle.(interface{ Release() }); ok {
		r.Release()
	}
	p.handle = nil
}
