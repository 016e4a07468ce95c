package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/legal"
)

// LegalPage shows the bundled legal documents: a list on the left and the
// selected document in a scrollable viewport.
type LegalPage struct {
	docs    []legal.Document
	cursor  int
	reading bool
	vp      viewport.Model
	vpKey   string
}

// NewLegalPage returns the legal page with every bundled document.
func NewLegalPage() *LegalPage {
	return &LegalPage{docs: legal.List(), vp: viewport.New(0, 0)}
}

func (p *LegalPage) ID() string    { return PageLegal }
func (p *LegalPage) Title() string { return "Legal" }
func (p *LegalPage) Init() tea.Cmd { return nil }

// SetParams opens the document whose slug is given as a string.
func (p *LegalPage) SetParams(params any) {
	slug, ok := params.(string)
	if !ok {
		return
	}
	for i, d := range p.docs {
		if d.Slug == slug {
			p.cursor = i
			p.reading = true
			return
		}
	}
}

func (p *LegalPage) HelpKeys() [][2]string {
	if p.reading {
		return [][2]string{{"↑/↓", "scroll"}, {"←/esc", "documents"}}
	}
	return [][2]string{{"↑/↓", "select"}, {"enter", "read"}}
}

// Selected returns the highlighted document.
func (p *LegalPage) Selected() (legal.Document, bool) {
	if p.cursor >= len(p.docs) {
		return legal.Document{}, false
	}
	return p.docs[p.cursor], true
}

func (p *LegalPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.reading {
			var cmd tea.Cmd
			p.vp, cmd = p.vp.Update(msg)
			return cmd, nil
		}
		return nil, nil
	}

	if p.reading {
		switch {
		case key.Matches(km, Keys.Left), key.Matches(km, Keys.Escape):
			p.reading = false
			return nil, nil
		}
		var cmd tea.Cmd
		p.vp, cmd = p.vp.Update(km)
		return cmd, nil
	}

	switch {
	case key.Matches(km, Keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(km, Keys.Down):
		if p.cursor < len(p.docs)-1 {
			p.cursor++
		}
	case key.Matches(km, Keys.Enter), key.Matches(km, Keys.Right):
		p.reading = true
	}
	return nil, nil
}

func (p *LegalPage) View(width, height int) string {
	listWidth := min(28, max(width/4, 18))
	var items []string
	for i, d := range p.docs {
		style := lipgloss.NewStyle().Foreground(ColorWhite).Width(listWidth - 4)
		prefix := "  "
		if i == p.cursor {
			style = style.Foreground(ColorNavy).Background(ColorBlue).Bold(true)
			prefix = "› "
		}
		items = append(items, style.Render(prefix+d.Title))
	}

	listStyle := activeSectionStyle
	docStyle := sectionStyle
	if p.reading {
		listStyle, docStyle = sectionStyle, activeSectionStyle
	}
	innerHeight := max(height-2, 3)
	list := listStyle.Width(listWidth - 2).Height(innerHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))

	docWidth := max(width-listWidth-4, 20)
	p.vp.Width = docWidth - 2
	p.vp.Height = innerHeight
	if d, ok := p.Selected(); ok {
		if k := d.Slug + ":" + strconv.Itoa(p.vp.Width); k != p.vpKey {
			p.vp.SetContent(lipgloss.NewStyle().Width(p.vp.Width).Render(legal.Text(d)))
			if !strings.HasPrefix(p.vpKey, d.Slug+":") {
				p.vp.GotoTop()
			}
			p.vpKey = k
		}
	}
	doc := docStyle.Width(docWidth).Height(innerHeight).Render(p.vp.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, list, doc)
}
