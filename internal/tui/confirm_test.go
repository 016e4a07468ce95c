package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConfirmDialog_HandleKey(t *testing.T) {
	t.Parallel()

	d := ConfirmDialog{Title: "Download", Message: "Proceed?"}
	cases := []struct {
		key  tea.KeyMsg
		want ConfirmResult
	}{
		{keyRunes("y"), ConfirmAccepted},
		{keyType(tea.KeyEnter), ConfirmAccepted},
		{keyRunes("n"), ConfirmCanceled},
		{keyType(tea.KeyEsc), ConfirmCanceled},
		{keyRunes("x"), ConfirmPending},
		{keyRunes("q"), ConfirmPending},
	}
	for _, tc := range cases {
		if got := d.HandleKey(tc.key); got != tc.want {
			t.Fatalf("HandleKey(%q) = %v, want %v", tc.key.String(), got, tc.want)
		}
	}
}

func TestConfirmDialog_View(t *testing.T) {
	t.Parallel()

	view := ConfirmDialog{Title: "Download", Message: "Proceed?"}.View(80, 20)
	for _, want := range []string{"Download", "Proceed?", "Confirm", "Cancel"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}
