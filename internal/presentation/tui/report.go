package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/hsp3-utils/extup/pkg/domain"
)

var statusGlyphs = map[domain.StageStatus]string{
	domain.StatusPassed:  "✓",
	domain.StatusFailed:  "✗",
	domain.StatusSkipped: "−",
}

// ReportMarkdown renders a run report as markdown, suitable for glamour or a
// plain pipe.
func ReportMarkdown(r *domain.RunReport) string {
	var b strings.Builder

	if r.Succeeded() {
		b.WriteString("# Install complete\n\n")
	} else {
		b.WriteString("# Install failed\n\n")
	}

	b.WriteString("| Stage | Status | Time |\n|---|---|---|\n")
	for _, s := range r.Stages {
		dur := "—"
		if s.Status != domain.StatusSkipped {
			dur = s.Command.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintf(&b, "| %s | %s %s | %s |\n", s.Stage, statusGlyphs[s.Status], s.Status, dur)
	}

	for _, s := range r.Stages {
		if !s.Failed() {
			continue
		}
		fmt.Fprintf(&b, "\n**%s**: %s\n", s.Stage, s.Err)
		if stderr := strings.TrimSpace(s.Command.Stderr); stderr != "" {
			b.WriteString("\n```\n" + stderr + "\n```\n")
		}
	}

	return b.String()
}

// DoctorMarkdown renders toolchain check verdicts.
func DoctorMarkdown(checks []domain.ToolCheck) string {
	var b strings.Builder
	b.WriteString("# Toolchain\n\n")
	for _, c := range checks {
		if c.Missing {
			fmt.Fprintf(&b, "- ✗ **%s** — missing\n", c.Tool.Name)
			if hint := strings.TrimSpace(c.Tool.InstallHint); hint != "" {
				for _, line := range strings.Split(hint, "\n") {
					fmt.Fprintf(&b, "  > %s\n", line)
				}
			}
			continue
		}
		fmt.Fprintf(&b, "- ✓ **%s** %s\n", c.Tool.Name, firstLine(c.Result.Stdout))
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
