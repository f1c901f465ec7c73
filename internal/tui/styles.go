package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jade/jadeos/internal/service"
)

var (
	jade   = lipgloss.Color("#00A86B")
	muted  = lipgloss.Color("#7A7A7A")
	accent = lipgloss.Color("#7D56F4")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(jade).Padding(0, 1)
	subtleStyle = lipgloss.NewStyle().Foreground(muted)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle  = lipgloss.NewStyle().Bold(true)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)

	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	focusedStyle = lipgloss.NewStyle().Foreground(jade).Bold(true)
	metricStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(jade).Padding(0, 2)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498DB"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
)

func noticeStyle(k service.Kind) lipgloss.Style {
	switch k {
	case service.KindSuccess:
		return successStyle
	case service.KindValidationFailure, service.KindEmptyResult:
		return warnStyle
	case service.KindLoadFailure, service.KindExecutionFailure:
		return errorStyle
	default:
		return infoStyle
	}
}

func noticeIcon(k service.Kind) string {
	switch k {
	case service.KindSuccess:
		return "✔"
	case service.KindValidationFailure, service.KindEmptyResult:
		return "⚠"
	case service.KindLoadFailure, service.KindExecutionFailure:
		return "✖"
	default:
		return "ℹ"
	}
}

// focusMark prefixes a field label with a cursor when focused.
func focusMark(label string, focused bool) string {
	if focused {
		return focusedStyle.Render("▸ " + label)
	}
	return "  " + label
}
