package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var homeFeatures = []struct{ title, body string }{
	{"Agency workspace", "Keep every partner agency, contact and template in one searchable table."},
	{"Spreadsheet round-trip", "Download the Excel template, fill it in offline and hand it back in one step."},
	{"Plans that scale", "Start free, move to Professional when the team grows. Switch billing any time."},
}

// HomePage is the marketing landing screen.
type HomePage struct{}

// NewHomePage returns the landing page.
func NewHomePage() *HomePage { return &HomePage{} }

func (p *HomePage) ID() string    { return PageHome }
func (p *HomePage) Title() string { return "Home" }
func (p *HomePage) Init() tea.Cmd { return nil }

func (p *HomePage) HelpKeys() [][2]string {
	return [][2]string{{"enter", "see pricing"}, {"s", "sign up"}}
}

func (p *HomePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(km, Keys.Enter):
		return nil, navigate(PagePricing, nil)
	case km.String() == "s":
		return nil, navigate(PageSignup, nil)
	}
	return nil, nil
}

func (p *HomePage) View(width, height int) string {
	hero := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Paperwork for agencies, without the paper."),
		subtleStyle.Render("Collect, search and share agency data from one place."),
	)

	cardWidth := max(min((width-8)/len(homeFeatures), 34), 20)
	cards := make([]string, 0, len(homeFeatures))
	for _, f := range homeFeatures {
		cards = append(cards, sectionStyle.Width(cardWidth).Render(
			lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render(f.title)+"\n"+
				lipgloss.NewStyle().Foreground(ColorWhite).Render(f.body),
		))
	}
	var row string
	if width >= (cardWidth+4)*len(cards) {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		row = strings.Join(cards, "\n")
	}

	cta := lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render("enter  See pricing"),
		"  ",
		disabledButtonStyle.Foreground(ColorWhite).Render("s  Start free"),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, hero, "", row, "", cta)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
