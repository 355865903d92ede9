package terrain

import (
	"fmt"
)

// Stage names the pipeline phase an error occurred in, so every failure
// reports where it happened.
type Stage string

const (
	StageConfig   Stage = "config"
	StageSampling Stage = "sampling"
	StageEroding  Stage = "eroding"
)

// ConfigError reports an invalid Config field. Raised before any sampling
// begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// GenerationError reports an internal invariant violation during synthesis
// or erosion, tagged with the stage it occurred in. The partial grid is
// discarded; it never reaches the persistence boundary.
type GenerationError struct {
	Stage Stage
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
