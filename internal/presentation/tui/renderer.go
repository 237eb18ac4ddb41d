package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// It auto-detects light/dark backgrounds.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTTY reports whether stdout is a terminal. Reports render as plain
// markdown when it is not (pipes, CI).
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
