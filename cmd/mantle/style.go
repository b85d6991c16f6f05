package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Prompt label styles. Colors render only on a real terminal; piped output
// stays plain so transcripts are clean.
var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// styledLabel renders label with style when stdout is a terminal, plain
// otherwise.
func styledLabel(style lipgloss.Style, label string) string {
	if !stdoutIsTTY() {
		return label
	}
	return style.Render(label)
}
