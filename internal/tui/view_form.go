package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderForm() string {
	var b strings.Builder

	header := styleLogo.Render("RailLetter")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n")
	sub := styleSubtitle.Render("Official letter generator")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, sub))
	b.WriteString("\n\n")

	s := a.state
	fields := []struct {
		label string
		view  string
	}{
		{"Date (dd-mm-yyyy)", s.dateInput.View()},
		{"To (recipient details)", s.recipientInput.View()},
		{"Subject", s.subjectInput.View()},
		{"Letter details (points)", s.detailsInput.View()},
	}

	var rows []string
	for i, f := range fields {
		label := styleLabel.Render(f.label)
		if i == s.focus {
			label = styleLabelFocused.Render("> " + f.label)
		}
		rows = append(rows, label, f.view, "")
	}

	formBox := styleBox.Copy().
		Width(min(72, a.width-4)).
		BorderForeground(colorPrimary).
		Render(strings.TrimRight(strings.Join(rows, "\n"), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, formBox))
	b.WriteString("\n\n")

	if s.formWarning != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleWarning.Render(s.formWarning)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.providerStatus()))
	b.WriteString("\n")

	status := styleStatusBar.Render("[Tab] Next field  [Ctrl+S] Generate  [F1] Help  [F2] Settings  [Esc] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

func (a *App) providerStatus() string {
	name := a.state.providerName
	if name == "" {
		name = a.state.config.Provider
	}
	model := a.state.config.ResolvedModel()

	switch {
	case a.state.providerError != nil:
		return styleWarning.Render(name + " / " + model + "  unreachable: " + truncate(a.state.providerError.Error(), 40))
	case a.state.providerReady:
		return lipgloss.NewStyle().Foreground(colorSuccess).Render(name + " / " + model)
	default:
		return styleSubtitle.Render(name + " / " + model)
	}
}
