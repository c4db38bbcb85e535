// ABOUTME: lipgloss styles for the panel screens
// ABOUTME: Card colors come from the view-model; these are the fixed chrome styles

package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#3b82f6")
	colorMuted   = lipgloss.Color("#64748b")
	colorDim     = lipgloss.Color("#334155")
	colorError   = lipgloss.Color("#ef4444")
	colorOnline  = lipgloss.Color("#10b981")
	colorWarning = lipgloss.Color("#f59e0b")
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleDemo = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	styleEditMarker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(colorWarning).
			Padding(0, 1)

	styleHelpKey = lipgloss.NewStyle().
			Foreground(colorPrimary)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(16)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
)
