// Package cli renders reports, progress and messages for the terminal.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// primaryColor is the main theme color (coral).
	primaryColor = lipgloss.Color("#FF5A5F")
	// successColor indicates successful operations.
	successColor = lipgloss.Color("#4ECDC4") // Teal
	// warningColor indicates warnings or caution messages.
	warningColor = lipgloss.Color("#FFE66D") // Yellow
	// errorColor indicates errors or failure messages.
	errorColor = lipgloss.Color("#E63946") // Red
	// infoColor indicates informational messages.
	infoColor = lipgloss.Color("#95E1D3") // Light teal
	// subtleColor indicates less prominent UI elements.
	subtleColor = lipgloss.Color("#666666") // Gray

	// titleStyle is used for section titles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(subtleColor).
			MarginBottom(1)

	// successStyle formats success messages.
	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// warningStyle formats warning messages.
	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// errorStyle formats error messages.
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// infoStyle formats informational messages.
	infoStyle = lipgloss.NewStyle().
			Foreground(infoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// boxStyle is used for bordered content boxes.
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				PaddingRight(2)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	successIcon = "✓"
	infoIcon    = "ℹ️"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	HomeIcon    = "🏠"
	ChartIcon   = "📊"
	BroomIcon   = "🧹"
	PinIcon     = "📍"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(successIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(infoIcon + " " + message)
}

// FormatTitle formats a title with the home icon.
func FormatTitle(title string) string {
	return titleStyle.Render(HomeIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := titleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return boxStyle.Render(boxContent)
}
