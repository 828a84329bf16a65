package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/railletter/internal/letter"
)

func (a *App) renderResult() string {
	var b strings.Builder

	res := a.state.result
	if res == nil {
		return a.renderForm()
	}

	title := lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true).
		Render("Letter generated successfully!")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n")

	info := fmt.Sprintf("%s  %s", res.Letter.Date.Format(letter.DateLayout), truncate(res.Letter.Subject, 50))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(info)))
	b.WriteString("\n\n")

	previewBox := styleBox.Copy().
		Width(min(72, a.width-4)).
		BorderForeground(colorPrimary).
		Render(a.state.preview.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, previewBox))
	b.WriteString("\n")

	var notes []string
	if res.Letter.SignatureMissing {
		notes = append(notes, styleWarning.Render("Signature image not found, placeholder used"))
	}
	switch {
	case a.state.saveError != nil:
		notes = append(notes, lipgloss.NewStyle().Foreground(colorError).Render("Save failed: "+a.state.saveError.Error()))
	case a.state.savedPath != "":
		notes = append(notes, lipgloss.NewStyle().Foreground(colorSuccess).Render("Saved to "+a.state.savedPath+" (open it and print)"))
	}
	for _, n := range notes {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, n))
		b.WriteString("\n")
	}

	meta := fmt.Sprintf("%s  %d tokens  %s", a.state.providerName, res.Usage.TotalTokens, res.Duration.Round(100*time.Millisecond))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(meta)))
	b.WriteString("\n\n")

	status := styleStatusBar.Render(fmt.Sprintf("%3.f%%  [j/k] Scroll  [s] Save  [n] New letter  [Esc] Quit", a.state.preview.ScrollPercent()*100))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
