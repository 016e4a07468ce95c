package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// renderHelpModal renders the help overlay using the provided viewport.
func (a *App) renderHelpModal(vp *viewport.Model, width, height int) string {
	modalWidth := min(width-8, 72)
	modalHeight := height - 4

	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	vp.Width = contentWidth
	vp.Height = max(contentHeight, 1)
	vp.SetContent(a.renderHelpContent())

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(max(contentHeight, 1)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(vp.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Keyboard Shortcuts")

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render("up/down: Scroll | ?: Toggle Help | ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

func (a *App) renderHelpContent() string {
	var b strings.Builder
	b.WriteString("NAVIGATION:\n")
	for _, k := range []key.Binding{Keys.GoHome, Keys.GoPricing, Keys.GoSignup, Keys.GoLegal, Keys.GoAgency, Keys.NextPage, Keys.PrevPage} {
		writeBinding(&b, k)
	}
	b.WriteString("\nGENERAL:\n")
	for _, k := range []key.Binding{Keys.Help, Keys.Escape, Keys.Quit, Keys.ForceQuit} {
		writeBinding(&b, k)
	}
	for _, id := range a.order {
		hp, ok := a.pages[id].(helpProvider)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(a.pages[id].Title()))
		for _, h := range hp.HelpKeys() {
			fmt.Fprintf(&b, "  %-14s - %s\n", h[0], h[1])
		}
	}
	return b.String()
}

func writeBinding(b *strings.Builder, k key.Binding) {
	h := k.Help()
	fmt.Fprintf(b, "  %-14s - %s\n", h.Key, h.Desc)
}
