package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/railletter/internal/pipeline"
)

func (a *App) renderProcessing() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(a.state.spinner.View() + " Generating letter...")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if subj := a.state.lastFields.Subject; strings.TrimSpace(subj) != "" {
		info := styleSubtitle.Render("Sub: " + truncate(strings.TrimSpace(subj), 55))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, info))
		b.WriteString("\n\n")
	}

	current := 0
	if a.state.progress != nil {
		current = a.state.progress.StageIndex
	}

	var stageLines []string
	for i, stage := range pipeline.Stages {
		var icon string
		var style lipgloss.Style

		switch {
		case i < current:
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		case i == current:
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
		default:
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(colorMuted)
		}
		stageLines = append(stageLines, style.Render(fmt.Sprintf("  %s  %-12s", icon, stage)))
	}

	stagesBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(stageLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, stagesBox))
	b.WriteString("\n\n")

	if a.state.progress != nil && a.state.progress.Message != "" {
		msg := styleSubtitle.Render(truncate(a.state.progress.Message, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, msg))
		b.WriteString("\n")
	}

	elapsed := time.Since(a.state.processingStart).Round(time.Second)
	status := styleStatusBar.Render(fmt.Sprintf("%s elapsed  [Ctrl+C] Quit", elapsed))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
