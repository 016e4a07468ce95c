package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderBranding renders "Paperlane" with a blue to amber gradient.
func renderBranding() string {
	colors := []string{
		"#4C9AFF", "#5E9FEF", "#70A4DF", "#82A9CF", "#94AEBF",
		"#A6B3AF", "#C8AE85", "#E4B26B", "#FFB454",
	}
	chars := []rune("Paperlane")

	var b strings.Builder
	for i, ch := range chars {
		style := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(colors[i%len(colors)])).Bold(true)
		b.WriteString(style.Render(string(ch)))
	}
	return b.String()
}

// renderNavBar renders the page tabs with the active page emphasized.
func (a *App) renderNavBar() string {
	base := lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorGray).Padding(0, 1)
	active := base.Foreground(ColorWhite).Bold(true).Underline(true)

	parts := []string{base.Render("") + renderBranding()}
	for i, id := range a.order {
		label := fmt.Sprintf("%d %s", i+1, a.pages[id].Title())
		if id == a.activePage {
			parts = append(parts, active.Render(label))
		} else {
			parts = append(parts, base.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return lipgloss.NewStyle().Background(ColorNavy).Width(a.width).Render(bar)
}

// renderStatusLine renders the status/help line at the bottom of the screen.
func (a *App) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	left := baseStyle.Foreground(ColorAccent).Render(" " + a.session.Email + " ")

	var hints []string
	if hp, ok := a.pages[a.activePage].(helpProvider); ok {
		for _, h := range hp.HelpKeys() {
			hints = append(hints, h[0]+": "+h[1])
		}
	}
	narrow := a.width < 80
	if !narrow {
		hints = append(hints, "tab: next page", "?: help", "q: quit")
	} else {
		hints = append(hints, "?: help")
	}
	right := baseStyle.Foreground(ColorGray).Render(strings.Join(hints, " | ") + " ")

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		right = ""
		gap = max(a.width-lipgloss.Width(left), 0)
	}
	return left + baseStyle.Render(strings.Repeat(" ", gap)) + right
}
