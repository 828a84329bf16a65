package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/railletter/internal/config"
)

const logo = `
 ____       _ _ _          _   _
|  _ \ __ _(_) | |    ___| |_| |_ ___ _ __
| |_) / _` + "`" + ` | | | |   / _ \ __| __/ _ \ '__|
|  _ < (_| | | | |__|  __/ |_| ||  __/ |
|_| \_\__,_|_|_|_____\___|\__|\__\___|_|
`

func (a *App) renderSetup() string {
	switch a.state.setupStep {
	case 0:
		return a.renderProviderSelection()
	case 1:
		return a.renderAPIKeyEntry()
	default:
		return ""
	}
}

func (a *App) renderProviderSelection() string {
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n")
	sub := styleSubtitle.Render("Official letters for Indian Railways")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, sub))
	b.WriteString("\n\n")

	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Choose the backend that writes your letters:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	for i, p := range config.Providers {
		if i == a.state.selectedProvider {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				Render(fmt.Sprintf("> [x] %-12s %s", p.Name, p.Description)))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(colorMuted).
			Render(fmt.Sprintf("  [ ] %-12s %s", p.Name, p.Description)))
	}

	providerBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, providerBox))
	b.WriteString("\n\n")

	a.writeSetupError(&b)

	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Select  [Esc] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderAPIKeyEntry() string {
	var b strings.Builder

	provider := config.GetProvider(a.state.config.Provider)
	if provider == nil {
		return a.renderProviderSelection()
	}

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render(fmt.Sprintf("Enter your %s API key:", provider.Name))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if provider.SignupURL != "" {
		link := styleSubtitle.Render(fmt.Sprintf("Get one at: %s", provider.SignupURL))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, link))
		b.WriteString("\n")
	}
	if provider.APIKeyEnv != "" {
		env := styleSubtitle.Render(fmt.Sprintf("Or set %s in your environment or .env file", provider.APIKeyEnv))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, env))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	inputBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		BorderForeground(colorSecondary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	a.writeSetupError(&b)

	instructions := styleStatusBar.Render("[Enter] Continue  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) writeSetupError(b *strings.Builder) {
	if a.state.setupError == nil {
		return
	}
	msg := lipgloss.NewStyle().Foreground(colorError).Render(a.state.setupError.Error())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, msg))
	b.WriteString("\n\n")
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
