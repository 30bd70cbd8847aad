package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/csrent/csrent-cli/internal/format"
)

// Palette readable on both light and dark terminal backgrounds.
var (
	csrentText    = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#f3f4f6"}
	csrentMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	csrentBorder  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#4b5563"}
	csrentAccent  = lipgloss.AdaptiveColor{Light: "#4338ca", Dark: "#a5b4fc"}
	csrentSuccess = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	csrentDanger  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(csrentText)
	mutedStyle   = lipgloss.NewStyle().Foreground(csrentMuted)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(csrentSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(csrentDanger)
	labelStyle   = lipgloss.NewStyle().Foreground(csrentMuted)
	focusLabel   = lipgloss.NewStyle().Bold(true).Foreground(csrentAccent)

	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(csrentAccent).Underline(true).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Foreground(csrentMuted).Padding(0, 1)
)

func panelStyle(focused bool) lipgloss.Style {
	border := csrentBorder
	if focused {
		border = csrentAccent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func buttonStyle(primary bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	if primary {
		return s.Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#111827"}).Background(csrentAccent)
	}
	return s.Foreground(csrentMuted)
}

func dangerButton() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#111827"}).
		Background(csrentDanger)
}

// tableStyles reuses the CLI table badges with TUI emphasis for the cursor.
func tableStyles() format.TableStyles {
	s := format.DefaultTableStyles()
	s.Header = lipgloss.NewStyle().Foreground(csrentMuted).Faint(true)
	s.Selected = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(csrentAccent)
	s.Border = lipgloss.NewStyle().Foreground(csrentBorder)
	return s
}

func helpStyles() help.Styles {
	h := help.New().Styles
	h.ShortKey = lipgloss.NewStyle().Foreground(csrentAccent)
	h.ShortDesc = lipgloss.NewStyle().Foreground(csrentMuted)
	h.FullKey = h.ShortKey
	h.FullDesc = h.ShortDesc
	return h
}
