package domain

import "time"

// StageStatus classifies the outcome of one stage.
type StageStatus string

const (
	StatusPassed  StageStatus = "passed"
	StatusFailed  StageStatus = "failed"
	StatusSkipped StageStatus = "skipped" // never reached because an earlier stage aborted
)

// Process exit codes of the CLI surface.
const (
	ExitSuccess     = 0 // all stages completed
	ExitFailure     = 1 // generic failure, including a missing toolchain
	ExitConfigError = 2 // manifest could not be loaded or is invalid
)

// StageResult records what one stage did.
type StageResult struct {
	Stage   StageID       `json:"stage"`
	Status  StageStatus   `json:"status"`
	Command CommandResult `json:"command"`
	Err     string        `json:"error,omitempty"`
}

// Failed reports whether the stage ran and failed.
func (r StageResult) Failed() bool {
	return r.Status == StatusFailed
}

// RunReport is the full record of one pipeline run. It is the only state the
// installer keeps; there is no persistence beyond the process.
type RunReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Stages     []StageResult `json:"stages"`
	LegacyExit bool          `json:"legacy_exit,omitempty"`
}

// Succeeded reports whether every executed stage passed.
func (r *RunReport) Succeeded() bool {
	for _, s := range r.Stages {
		if s.Status != StatusPassed {
			return false
		}
	}
	return len(r.Stages) > 0
}

// Result returns the result for a stage, if it was recorded.
func (r *RunReport) Result(id StageID) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == id {
			return s, true
		}
	}
	return StageResult{}, false
}

// ExitCode derives the process exit code the run should surface.
//
// Strict mode: the first failed stage wins; a failed stage whose process
// produced a real exit code propagates it, otherwise ExitFailure. Legacy mode
// reproduces the historical script, where only the last executed stage's exit
// code mattered.
func (r *RunReport) ExitCode() int {
	if r.LegacyExit {
		for i := len(r.Stages) - 1; i >= 0; i-- {
			s := r.Stages[i]
			if s.Status == StatusSkipped {
				continue
			}
			return stageExitCode(s)
		}
		return ExitSuccess
	}

	for _, s := range r.Stages {
		if s.Failed() {
			return stageExitCode(s)
		}
	}
	if !r.Succeeded() {
		return ExitFailure
	}
	return ExitSuccess
}

func stageExitCode(s StageResult) int {
	if s.Status == StatusPassed {
		return ExitSuccess
	}
	// A missing toolchain is always exit 1, whatever the probe reported.
	if s.Stage == StageCheckToolchain {
		return ExitFailure
	}
	if s.Command.Started && s.Command.ExitCode != 0 {
		return s.Command.ExitCode
	}
	return ExitFailure
}
