package ui

import (
	"github.com/charmbracelet/lipgloss"

	"hwpanel/internal/model"
)

var (
	// Colors
	colorRed     = lipgloss.Color("#FF5555")
	colorYellow  = lipgloss.Color("#F1FA8C")
	colorGreen   = lipgloss.Color("#50FA7B")
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorWhite   = lipgloss.Color("#F8F8F2")
	colorGray    = lipgloss.Color("#6272A4")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	valueStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	headerStyle = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

// tempColor colors a temperature in °C.
func tempColor(c float64) lipgloss.Style {
	switch {
	case c >= 90:
		return critStyle
	case c >= 75:
		return warnStyle
	default:
		return okStyle
	}
}

func healthColor(h model.Health) lipgloss.Style {
	switch h {
	case model.HealthGood:
		return okStyle
	case model.HealthWarning:
		return warnStyle
	case model.HealthCritical:
		return critStyle
	default:
		return dimStyle
	}
}

func fanColor(s model.FanStatus) lipgloss.Style {
	switch s {
	case model.FanOK:
		return okStyle
	case model.FanWarning:
		return warnStyle
	default:
		return dimStyle
	}
}
