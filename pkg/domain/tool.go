package domain

// ToolSpec makes the ambient toolchain dependency explicit: instead of
// assuming a tool exists on the operator's machine, each required tool is
// declared with the command that proves its presence and the hint shown when
// it is missing.
type ToolSpec struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Command     string   `json:"command" yaml:"command" mapstructure:"command"`
	VersionArgs []string `json:"version_args" yaml:"version_args" mapstructure:"version_args"`

	// InstallHint is printed verbatim when the version query fails. It is
	// operator-facing text and may be localized in the manifest.
	InstallHint string `json:"install_hint" yaml:"install_hint" mapstructure:"install_hint"`
}

// VersionInvocation returns the invocation that checks this tool's presence.
func (t ToolSpec) VersionInvocation() Invocation {
	return Invocation{
		Command: t.Command,
		Args:    t.VersionArgs,
	}
}

// ToolCheck is the verdict of one tool's version query.
type ToolCheck struct {
	Tool    ToolSpec      `json:"tool"`
	Result  CommandResult `json:"result"`
	Missing bool          `json:"missing"`
}
