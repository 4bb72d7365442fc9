package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/crucible-build/shrinkwrap/types"
)

// Color palette.
var (
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
)

// Styles for table output.
var (
	// SuccessStyle for successful run outcomes.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle for canceled runs.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle for failed runs.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// PlainStyle for everything else.
	PlainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))
)

// StatusStyle returns the style for a run outcome status.
func StatusStyle(status types.OutcomeStatus) lipgloss.Style {
	switch status {
	case types.OutcomeSuccess:
		return SuccessStyle
	case types.OutcomeCanceled:
		return WarningStyle
	case types.OutcomeToolFailure, types.OutcomeLaunchFailure:
		return ErrorStyle
	default:
		return PlainStyle
	}
}
