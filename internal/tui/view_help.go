package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	about := []string{
		"  Fill in the date, recipient, subject and details,",
		"  then generate. The body is written by the configured",
		"  backend and placed into the A4 letter layout.",
		"",
		"  Only the details field is required. An empty date",
		"  uses today.",
	}
	aboutBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(about, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, aboutBox))
	b.WriteString("\n\n")

	shortcuts := []string{
		"  Tab / Shift+Tab  Next / previous field",
		"  Ctrl+S           Generate letter",
		"  s                Save letter as HTML (result)",
		"  n                New letter (result, error)",
		"  r                Resubmit (error)",
		"  j/k, Up/Down     Scroll preview",
		"  F1               Help",
		"  F2               Settings",
		"  Esc              Back / Quit",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
