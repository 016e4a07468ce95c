package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/model"
)

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastFailure
	ToastInfo
)

// ToastMsg asks the App to show a transient notification.
type ToastMsg struct {
	Kind ToastKind
	Text string
}

// toastExpiredMsg removes a toast once its TTL elapses.
type toastExpiredMsg struct {
	id int
}

type toast struct {
	id   int
	kind ToastKind
	text string
}

// Toaster is the notification surface. Toasts stack newest-last and expire
// independently.
type Toaster struct {
	ttl    time.Duration
	nextID int
	items  []toast
}

// NewToaster returns a Toaster whose toasts auto-dismiss after ttl.
func NewToaster(ttl time.Duration) *Toaster {
	if ttl <= 0 {
		ttl = model.DefaultToastTTL
	}
	return &Toaster{ttl: ttl}
}

// Success returns a command that shows a success toast.
func Success(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Kind: ToastSuccess, Text: text} }
}

// Failure returns a command that shows a failure toast.
func Failure(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Kind: ToastFailure, Text: text} }
}

// Info returns a command that shows a neutral toast.
func Info(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Kind: ToastInfo, Text: text} }
}

// Push adds a toast and schedules its dismissal.
func (t *Toaster) Push(msg ToastMsg) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.items = append(t.items, toast{id: id, kind: msg.Kind, text: msg.Text})
	return tea.Tick(t.ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Dismiss removes the toast with the given id, if still shown.
func (t *Toaster) Dismiss(id int) {
	for i, it := range t.items {
		if it.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of visible toasts.
func (t *Toaster) Len() int { return len(t.items) }

// View renders the toast stack, or "" when empty.
func (t *Toaster) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}
	maxW := max(width/2, 28)
	lines := make([]string, 0, len(t.items))
	for _, it := range t.items {
		text := toastIcon(it.kind) + " " + it.text
		w := min(max(lipgloss.Width(text)+2, 28), maxW)
		lines = append(lines, toastStyle(it.kind).Width(w).Render(text))
	}
	return strings.Join(lines, "\n")
}

func toastStyle(kind ToastKind) lipgloss.Style {
	base := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	switch kind {
	case ToastSuccess:
		return base.BorderForeground(ColorGreen).Foreground(ColorGreen)
	case ToastFailure:
		return base.BorderForeground(ColorRed).Foreground(ColorRed)
	default:
		return base.BorderForeground(ColorBlue).Foreground(ColorWhite)
	}
}

func toastIcon(kind ToastKind) string {
	switch kind {
	case ToastSuccess:
		return "✓"
	case ToastFailure:
		return "✗"
	default:
		return "•"
	}
}
