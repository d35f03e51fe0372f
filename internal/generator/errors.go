package generator

import "errors"

var (
	ErrUnknownMode        = errors.New("unknown_generator_mode")
	ErrMissingPath        = errors.New("missing_path")
	ErrCheckpointMismatch = errors.New("checkpoint_mismatch")
	ErrOutputShort        = errors.New("output_short")
)
