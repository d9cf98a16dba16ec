package shader

import "errors"

var (
	// ErrShaderRead is returned when a shader file cannot be read.
	ErrShaderRead = errors.New("shader: failed to read source")

	// ErrEntryPointMissing is returned when a required entry point is not declared.
	ErrEntryPointMissing = errors.New("shader: entry point not declared")

	// ErrLoaderClosed is returned by Load after Close.
	ErrLoaderClosed = errors.New("shader: loader closed")
)
