package ports

import (
	"context"

	"github.com/hsp3-utils/extup/pkg/domain"
)

// CommandRunner executes an external command and reports what happened.
//
// A failed command is NOT an error return: the runner reports failures through
// CommandResult (exit code, Started flag) so the pipeline can apply its guard
// policy. The error return is reserved for runner-level problems (context
// cancelled, invocation rejected).
type CommandRunner interface {
	Run(ctx context.Context, inv domain.Invocation) (domain.CommandResult, error)
}

// ArtifactChecker reports whether a named artifact exists in the working
// directory. The process adapter implements it against the real filesystem;
// test doubles script it.
type ArtifactChecker interface {
	ArtifactExists(name string) bool
}
