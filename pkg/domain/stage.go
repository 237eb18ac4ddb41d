package domain

// StageID identifies one step of the install pipeline.
type StageID string

const (
	// StageCheckToolchain verifies that every required tool answers its
	// version query.
	StageCheckToolchain StageID = "check-toolchain"
	// StageInstallDeps runs the package manager's install command.
	StageInstallDeps StageID = "install-deps"
	// StagePackage produces the distributable extension artifact.
	StagePackage StageID = "package"
	// StageInstallExtension installs the artifact into the editor.
	StageInstallExtension StageID = "install-extension"
)

// PipelineOrder is the strict execution order of the pipeline.
// StageCheckToolchain always aborts the run on failure; the guard policy for
// the remaining stages is the engine's concern.
var PipelineOrder = []StageID{
	StageCheckToolchain,
	StageInstallDeps,
	StagePackage,
	StageInstallExtension,
}

// Stage describes one resolved step: what it is and what it will execute.
// StageCheckToolchain carries no Invocation of its own; it expands into one
// version query per ToolSpec.
type Stage struct {
	ID          StageID    `json:"id" yaml:"id"`
	Description string     `json:"description" yaml:"description"`
	Invocation  Invocation `json:"invocation" yaml:"invocation"`

	// Artifact is the fixed filename the stage is expected to leave in the
	// working directory (package stage only). Empty means no artifact check.
	Artifact string `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}
