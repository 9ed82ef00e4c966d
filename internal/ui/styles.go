// Package ui renders console output: styled messages and tabular listings.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Accent styles file paths and other highlights.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted styles secondary information.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold styles table titles and emphasis.
	Bold = lipgloss.NewStyle().Bold(true)
)

// FilePath returns an accent-styled file path.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Header returns a styled section header.
func Header(msg string) string {
	return Bold.Render(msg)
}
