package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderError() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// The backend's message is shown as-is
	errMsg := "Unknown error"
	if a.state.processingError != nil {
		errMsg = a.state.processingError.Error()
	}

	errBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		BorderForeground(colorError).
		Render("An error occurred: " + errMsg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	if suggestions := suggestionsFor(errMsg); len(suggestions) > 0 {
		suggBox := styleBox.Copy().
			Width(min(60, a.width-4)).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(suggestions, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	status := "[r] Resubmit  [n] Edit letter  [f2] Settings  [Esc] Quit"
	if a.state.pipeline == nil {
		status = "[f2] Settings  [Esc] Quit"
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(status)))

	return a.centerVertically(b.String())
}

func suggestionsFor(errMsg string) []string {
	errLower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(errLower, "api key") || strings.Contains(errLower, "401") ||
		strings.Contains(errLower, "unauthorized") || strings.Contains(errLower, "authentication"):
		return []string{
			"Check your API key in ~/.config/railletter/config.yaml",
			"Or set DEEPSEEK_API_KEY in your environment or .env file",
		}
	case strings.Contains(errLower, "ollama"):
		return []string{
			"Make sure Ollama is running: ollama serve",
			"Or switch to a cloud provider in the config file",
		}
	case strings.Contains(errLower, "connection") || strings.Contains(errLower, "connect") ||
		strings.Contains(errLower, "timeout") || strings.Contains(errLower, "deadline"):
		return []string{
			"Check your internet connection",
			"Or try using Ollama for offline mode",
		}
	case strings.Contains(errLower, "rate limit") || strings.Contains(errLower, "429"):
		return []string{
			"You've hit the API rate limit",
			"Wait a moment and press [r] to resubmit",
		}
	case strings.Contains(errLower, "insufficient") || strings.Contains(errLower, "402"):
		return []string{"Check the balance on your provider account"}
	}
	return nil
}
