package cli

import "github.com/charmbracelet/lipgloss"

// Semantic colors for terminal output. lipgloss degrades these
// automatically on terminals without true-color support.
var (
	colorInfo    = lipgloss.Color("#7AA2F7")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#E53935")
	colorTokens  = lipgloss.Color("#6B7089")
	colorCommand = lipgloss.Color("#8BC34A")
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	tokenStyle   = lipgloss.NewStyle().Foreground(colorTokens).Italic(true)
	commandStyle = lipgloss.NewStyle().Foreground(colorCommand)
)
