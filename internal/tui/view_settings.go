package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/railletter/internal/config"
)

// maskKey keeps the first and last four characters of long keys.
func maskKey(k string) string {
	switch {
	case k == "":
		return "Not set"
	case len(k) > 8:
		return k[:4] + "****" + k[len(k)-4:]
	default:
		return "****"
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (a *App) renderSettings() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	cfg := a.state.config
	providerName := cfg.Provider
	if p := config.GetProvider(cfg.Provider); p != nil {
		providerName = p.Name
	}

	status := "checking..."
	switch {
	case a.state.providerError != nil:
		status = lipgloss.NewStyle().Foreground(colorWarning).Render(truncate(a.state.providerError.Error(), 36))
	case a.state.providerReady:
		status = lipgloss.NewStyle().Foreground(colorSuccess).Render("reachable")
	case a.state.pipeline == nil:
		status = "not connected"
	}

	backend := []string{
		fmt.Sprintf("  Provider:  %s", providerName),
		fmt.Sprintf("  Model:     %s", cfg.ResolvedModel()),
		fmt.Sprintf("  Base URL:  %s", orNone(cfg.ResolvedBaseURL())),
		fmt.Sprintf("  API Key:   %s", maskKey(cfg.APIKey)),
		fmt.Sprintf("  Status:    %s", status),
	}
	backendBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(backend, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, backendBox))
	b.WriteString("\n\n")

	outDir := cfg.OutputDir
	if a.writer != nil {
		outDir = a.writer.Dir()
	}
	layout := []string{
		fmt.Sprintf("  Header:     %s", orNone(cfg.Letter.Header)),
		fmt.Sprintf("  Signatory:  %s", cfg.Letter.SignatoryName),
		fmt.Sprintf("  Title:      %s", cfg.Letter.SignatoryTitle),
		fmt.Sprintf("  Signature:  %s", orNone(cfg.Letter.SignaturePath)),
		fmt.Sprintf("  Output dir: %s", outDir),
	}
	layoutBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(layout, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, layoutBox))
	b.WriteString("\n\n")

	hint := styleSubtitle.Render("Edit ~/.config/railletter/config.yaml to change these")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, hint))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
