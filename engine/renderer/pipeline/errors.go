package pipeline

import "errors"

var (
	// ErrShaderNotSet is returned by Build when no shader path was recorded.
	ErrShaderNotSet = errors.New("pipeline: shader not set")

	// ErrPipelineRejected is returned by Build when the device refuses the descriptor.
	ErrPipelineRejected = errors.New("pipeline: rejected by device")
)
