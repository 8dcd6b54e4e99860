package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors meet WCAG AA contrast (4.5:1) on dark terminal backgrounds
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	pendingStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	runningStyle = lipgloss.NewStyle().
			Foreground(successColor)

	doneStyle = lipgloss.NewStyle().
			Foreground(successColor)

	failedStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successMsgStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorMsgStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// statusIcon returns the checklist marker for a row status.
func statusIcon(s rowStatus) string {
	switch s {
	case statusRunning:
		return "●"
	case statusDone:
		return "✓"
	case statusFailed:
		return "✗"
	default:
		return "○"
	}
}

// statusStyle returns the style used to render a row's marker.
func statusStyle(s rowStatus) lipgloss.Style {
	switch s {
	case statusRunning:
		return runningStyle
	case statusDone:
		return doneStyle
	case statusFailed:
		return failedStyle
	default:
		return pendingStyle
	}
}
