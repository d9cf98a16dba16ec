package shader

import (
	"fmt"
	"os"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies the pipeline stage a WGSL entry point is declared for.
type Stage int

const (
	// StageVertex marks functions annotated with @vertex.
	StageVertex Stage = iota

	// StageFragment marks functions annotated with @fragment.
	StageFragment

	// StageCompute marks functions annotated with @compute.
	StageCompute
)

// String returns the WGSL attribute name for the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key         string
	path        string
	source      string
	entryPoints map[Stage][]string
	module      *wgpu.ShaderModuleDescriptor
}

// Shader is a loaded WGSL source file together with the entry points it declares.
// The source is treated as opaque text; only the stage attributes are inspected.
type Shader interface {
	// Key retrieves the identifier of this shader, the path relative to the loader root.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Path retrieves the file path the source was read from.
	//
	// Returns:
	//   - string: the resolved file path
	Path() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoints lists the function names declared for the given stage, in source order.
	//
	// Parameters:
	//   - stage: the pipeline stage to look up
	//
	// Returns:
	//   - []string: the declared entry point names, or nil if there are none
	EntryPoints(stage Stage) []string

	// HasEntryPoint reports whether name is declared as an entry point for stage.
	//
	// Parameters:
	//   - stage: the pipeline stage to look up
	//   - name: the function name
	//
	// Returns:
	//   - bool: true if the function exists and carries the stage attribute
	HasEntryPoint(stage Stage, name string) bool

	// Module returns the shader module descriptor built from the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a Shader from source text that has already been read.
//
// Parameters:
//   - key: the identifier used for caching and as the module label
//   - path: the file the source came from, kept for diagnostics
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key, path, source string) Shader {
	return &shader{
		key:         key,
		path:        path,
		source:      source,
		entryPoints: parseEntryPoints(source),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
}

// ReadShader reads the WGSL file at path and parses it.
//
// Parameters:
//   - key: the identifier used for caching and as the module label
//   - path: the file to read
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error wrapping ErrShaderRead if the file cannot be read
func ReadShader(key, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrShaderRead, path, err)
	}
	return NewShader(key, path, string(data)), nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoints(stage Stage) []string {
	return s.entryPoints[stage]
}

func (s *shader) HasEntryPoint(stage Stage, name string) bool {
	return slices.Contains(s.entryPoints[stage], name)
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// RequireEntryPoints verifies that sh declares vertex as a @vertex function and
// fragment as a @fragment function.
//
// Parameters:
//   - sh: the shader to check
//   - vertex: the vertex entry point name
//   - fragment: the fragment entry point name
//
// Returns:
//   - error: an error wrapping ErrEntryPointMissing naming the first missing symbol
func RequireEntryPoints(sh Shader, vertex, fragment string) error {
	if !sh.HasEntryPoint(StageVertex, vertex) {
		return fmt.Errorf("%w: %s entry %q in %s", ErrEntryPointMissing, StageVertex, vertex, sh.Path())
	}
	if !sh.HasEntryPoint(StageFragment, fragment) {
		return fmt.Errorf("%w: %s entry %q in %s", ErrEntryPointMissing, StageFragment, fragment, sh.Path())
	}
	return nil
}
