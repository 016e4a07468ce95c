package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every page.
var (
	ColorNavy   = lipgloss.Color("#1B2A41")
	ColorBlue   = lipgloss.Color("#4C9AFF")
	ColorAccent = lipgloss.Color("#FFB454")
	ColorGreen  = lipgloss.Color("#3DDC84")
	ColorRed    = lipgloss.Color("#FF5F5F")
	ColorYellow = lipgloss.Color("#F5D76E")
	ColorGray   = lipgloss.Color("#7A8699")
	ColorWhite  = lipgloss.Color("#F4F6FA")
)

var (
	titleStyle            lipgloss.Style
	subtleStyle           lipgloss.Style
	errorStyle            lipgloss.Style
	helpStyle             lipgloss.Style
	sectionStyle          lipgloss.Style
	activeSectionStyle    lipgloss.Style
	highlightSectionStyle lipgloss.Style
	buttonStyle           lipgloss.Style
	disabledButtonStyle   lipgloss.Style
	badgeStyle            lipgloss.Style
)

func init() { buildStyles() }

// buildStyles derives every shared style from the current palette.
func buildStyles() {
	titleStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)

	subtleStyle = lipgloss.NewStyle().Foreground(ColorGray)

	errorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	sectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	activeSectionStyle = sectionStyle.BorderForeground(ColorBlue)

	highlightSectionStyle = sectionStyle.BorderForeground(ColorAccent)

	buttonStyle = lipgloss.NewStyle().
		Foreground(ColorNavy).
		Background(ColorBlue).
		Bold(true).
		Padding(0, 2)

	disabledButtonStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Background(lipgloss.Color("#2E3A4D")).
		Padding(0, 2)

	badgeStyle = lipgloss.NewStyle().
		Foreground(ColorNavy).
		Background(ColorAccent).
		Bold(true).
		Padding(0, 1)
}
