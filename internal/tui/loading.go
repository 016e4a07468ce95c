package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// newSpinner returns the spinner used by every loading placeholder.
func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorBlue)),
	)
}

// renderLoadingPlaceholder renders an animated loading indicator centered in
// the given area.
func renderLoadingPlaceholder(sp spinner.Model, label string, width, height int) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	text := sp.View() + loadingStyle.Render(" "+label)

	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center, text)
}

// renderErrorPlaceholder renders the error indicator shown after a failed load.
func renderErrorPlaceholder(text string, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		errorStyle.Render("✗ "+text),
		helpStyle.Render("press r to retry"),
	)
	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center, body)
}
