package domain

import (
	"errors"
	"fmt"
)

// ErrToolMissing is returned when a required tool fails its version query.
var ErrToolMissing = errors.New("required tool missing")

// ErrArtifactMissing is returned when the package stage exits zero but the
// expected artifact file is not present in the working directory.
var ErrArtifactMissing = errors.New("expected artifact not produced")

// StageError reports a failed stage together with the exit code to surface.
type StageError struct {
	Stage    StageID
	ExitCode int
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
