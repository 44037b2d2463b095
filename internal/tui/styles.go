package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/oauthflow"
)

type theme struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	label    lipgloss.Style
	input    lipgloss.Style
	focused  lipgloss.Style
	success  lipgloss.Style
	errorMsg lipgloss.Style
	muted    lipgloss.Style
	card     lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
	selected lipgloss.Style
	logLine  lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5F5F5")),
		subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")),
		input:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#555555")).Padding(0, 1).Width(36),
		focused:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#7C3AED")).Padding(0, 1).Width(36),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#374151")).Padding(0, 2).Width(24),
		button:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7C3AED")).Padding(0, 2),
		disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Background(lipgloss.Color("#374151")).Padding(0, 2),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		logLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	}
}

// providerAccent colors the consent screen after the provider's brand
func providerAccent(t oauthflow.Theme) lipgloss.Style {
	if t == oauthflow.ThemeGoogle {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4285F4"))
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F6FC")).Background(lipgloss.Color("#24292F")).Padding(0, 1)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "Healthy", "healthy", "Running", "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	case "Deploying", "deploying", "Building", "building":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	}
}
