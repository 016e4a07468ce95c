package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmResult is the outcome of a key press routed to an open dialog.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmAccepted
	ConfirmCanceled
)

// ConfirmDialog renders a yes/no prompt. It holds no open/closed state of its
// own: the owning page decides whether it is shown and acts on the result.
type ConfirmDialog struct {
	Title   string
	Message string
	Accept  string
	Reject  string
}

// HandleKey maps a key press to a result. Keys other than confirm and cancel
// leave the dialog pending.
func (d ConfirmDialog) HandleKey(msg tea.KeyMsg) ConfirmResult {
	switch {
	case key.Matches(msg, Keys.Confirm):
		return ConfirmAccepted
	case key.Matches(msg, Keys.Cancel):
		return ConfirmCanceled
	}
	return ConfirmPending
}

// View renders the dialog centered in width x height.
func (d ConfirmDialog) View(width, height int) string {
	accept := d.Accept
	if accept == "" {
		accept = "Confirm"
	}
	reject := d.Reject
	if reject == "" {
		reject = "Cancel"
	}

	header := titleStyle.Render(d.Title)
	body := lipgloss.NewStyle().
		Foreground(ColorWhite).
		Width(min(56, max(width-12, 20))).
		Render(d.Message)
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render("y  "+accept),
		"  ",
		disabledButtonStyle.Render("n  "+reject),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", buttons))

	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center, modal)
}
