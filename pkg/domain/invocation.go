package domain

import "time"

// Invocation is a single external command the pipeline wants executed.
type Invocation struct {
	Command string            `json:"command" yaml:"command" mapstructure:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty" mapstructure:"env"`

	// Dir overrides the runner's working directory when non-empty.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"`
}

// String renders the invocation roughly as it would appear on a shell line.
func (inv Invocation) String() string {
	s := inv.Command
	for _, a := range inv.Args {
		s += " " + a
	}
	return s
}

// CommandResult is what came back from executing an Invocation.
type CommandResult struct {
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration"`

	// Started is false when the process could not be launched at all
	// (command not found, permission denied). ExitCode is meaningless then.
	Started bool `json:"started"`
}

// Ok reports whether the command ran and exited zero.
func (r CommandResult) Ok() bool {
	return r.Started && r.ExitCode == 0
}
