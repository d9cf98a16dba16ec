package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultSourceRoot is the directory shader paths are resolved against when no root or
// loader is supplied.
const DefaultSourceRoot = "examples/assets"

// builder is the implementation of the Builder interface.
type builder struct {
	label         string
	sourceRoot    string
	sourcePath    string
	vertexEntry   string
	fragmentEntry string
	format        wgpu.TextureFormat
	loader        shader.Loader
}

// Builder accumulates the shader and output format for the triangle pipeline and compiles it.
// Setters perform no I/O; all validation happens in Build.
type Builder interface {
	// SetShader records the shader file and its entry symbols.
	//
	// Parameters:
	//   - sourcePath: the WGSL file, relative to the source root
	//   - vertexEntry: the name of the @vertex function
	//   - fragmentEntry: the name of the @fragment function
	SetShader(sourcePath, vertexEntry, fragmentEntry string)

	// SetPixelFormat records the color target format. The default is wgpu.TextureFormatRGBA8Unorm.
	//
	// Parameters:
	//   - format: the surface pixel format
	SetPixelFormat(format wgpu.TextureFormat)

	// ShaderPath returns the recorded shader file.
	//
	// Returns:
	//   - string: the path relative to the source root, or "" if unset
	ShaderPath() string

	// PixelFormat returns the recorded color target format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format
	PixelFormat() wgpu.TextureFormat

	// Build reads the shader, checks both entry symbols and asks device to compile the pipeline.
	//
	// Parameters:
	//   - device: the device that compiles the descriptor
	//
	// Returns:
	//   - Pipeline: the compiled pipeline
	//   - error: ErrShaderNotSet, a shader.ErrShaderRead or shader.ErrEntryPointMissing error, or ErrPipelineRejected
	Build(device Device) (Pipeline, error)
}

var _ Builder = &builder{}

// NewBuilder creates a new Builder with all specified options applied.
//
// Parameters:
//   - options: variadic list of BuilderOption functions to configure the builder
//
// Returns:
//   - Builder: the configured builder
func NewBuilder(options ...BuilderOption) Builder {
	b := &builder{
		label:      "triangle pipeline",
		sourceRoot: DefaultSourceRoot,
		format:     wgpu.TextureFormatRGBA8Unorm,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *builder) SetShader(sourcePath, vertexEntry, fragmentEntry string) {
	b.sourcePath = sourcePath
	b.vertexEntry = vertexEntry
	b.fragmentEntry = fragmentEntry
}

func (b *builder) SetPixelFormat(format wgpu.TextureFormat) {
	b.format = format
}

func (b *builder) ShaderPath() string {
	return b.sourcePath
}

func (b *builder) PixelFormat() wgpu.TextureFormat {
	return b.format
}

func (b *builder) Build(device Device) (Pipeline, error) {
	if b.sourcePath == "" {
		return nil, ErrShaderNotSet
	}

	loader := b.loader
	if loader == nil {
		loader = shader.NewLoader(shader.WithRoot(b.sourceRoot), shader.WithWorkers(0))
		defer loader.Close()
	}

	sh, err := loader.Load(b.sourcePath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := shader.RequireEntryPoints(sh, b.vertexEntry, b.fragmentEntry); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	desc := Descriptor{
		Label:         b.label,
		Shader:        sh,
		VertexEntry:   b.vertexEntry,
		FragmentEntry: b.fragmentEntry,
		Format:        b.format,
		Topology:      wgpu.PrimitiveTopologyTriangleList,
		FrontFace:     wgpu.FrontFaceCCW,
		CullMode:      wgpu.CullModeBack,
		SampleCount:   1,
		SampleMask:    0xFFFFFFFF,
		Blend:         ReplaceBlend,
		WriteMask:     wgpu.ColorWriteMaskAll,
	}

	handle, err := device.CompilePipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPipelineRejected, sh.Path(), err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s: no pipeline returned", ErrPipelineRejected, sh.Path())
	}

	common.Logger().Debug("render pipeline built",
		"label", b.label,
		"shader", sh.Path(),
		"format", b.format.String(),
	)
	return &pipeline{desc: desc, handle: handle}, nil
}

// BuilderOption is a functional option used to configure a Builder during construction.
type BuilderOption func(*builder)

// WithShader records the shader file and entry symbols, equivalent to calling SetShader.
//
// Parameters:
//   - sourcePath: the WGSL file, relative to the source root
//   - vertexEntry: the name of the @vertex function
//   - fragmentEntry: the name of the @fragment function
//
// Returns:
//   - BuilderOption: a function that records the shader on the builder
func WithShader(sourcePath, vertexEntry, fragmentEntry string) BuilderOption {
	return func(b *builder) {
		b.SetShader(sourcePath, vertexEntry, fragmentEntry)
	}
}

// WithPixelFormat sets the color target format, equivalent to calling SetPixelFormat.
//
// Parameters:
//   - format: the surface pixel format
//
// Returns:
//   - BuilderOption: a function that records the format on the builder
func WithPixelFormat(format wgpu.TextureFormat) BuilderOption {
	return func(b *builder) {
		b.format = format
	}
}

// WithSourceRoot sets the directory shader paths are resolved against.
// It is ignored when a loader is supplied with WithLoader.
//
// Parameters:
//   - root: the source root directory
//
// Returns:
//   - BuilderOption: a function that sets the source root
func WithSourceRoot(root string) BuilderOption {
	return func(b *builder) {
		if root != "" {
			b.sourceRoot = root
		}
	}
}

// WithLabel sets the debug label passed to the device.
//
// Parameters:
//   - label: the pipeline label
//
// Returns:
//   - BuilderOption: a function that sets the label
func WithLabel(label string) BuilderOption {
	return func(b *builder) {
		b.label = label
	}
}

// WithLoader makes Build read shaders through l, sharing its cache and prefetches.
//
// Parameters:
//   - l: the shader loader
//
// Returns:
//   - BuilderOption: a function that sets the loader
func WithLoader(l shader.Loader) BuilderOption {
	return func(b *builder) {
		b.loader = l
	}
}
