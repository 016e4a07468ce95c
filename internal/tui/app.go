package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

// addressedMsg is implemented by async result messages that belong to a
// specific page. They are delivered to that page even when it is not active.
type addressedMsg interface {
	pageID() string
}

// SessionChangedMsg is emitted when the stored session changes.
type SessionChangedMsg struct {
	Session model.Session
}

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int

	toaster  *Toaster
	session  model.Session
	showHelp bool
	helpVP   viewport.Model
	lggr     logger.Logger
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(sess model.Session, toastTTL time.Duration, lggr logger.Logger, pages ...Page) *App {
	if lggr == nil {
		lggr = logger.Nop()
	}
	if sess.Email == "" {
		sess.Email = model.PlaceholderEmail
	}
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	var first string
	if len(order) > 0 {
		first = order[0]
	}
	return &App{
		pages:      pageMap,
		order:      order,
		activePage: first,
		toaster:    NewToaster(toastTTL),
		session:    sess,
		helpVP:     viewport.New(0, 0),
		lggr:       lggr.Named("tui"),
	}
}

// ActivePage returns the id of the page currently shown.
func (a *App) ActivePage() string { return a.activePage }

// Toasts returns the notification surface.
func (a *App) Toasts() *Toaster { return a.toaster }

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case ToastMsg:
		if msg.Kind == ToastFailure {
			a.lggr.Debugw("failure toast", "page", a.activePage, "text", msg.Text)
		}
		return a, a.toaster.Push(msg)
	case toastExpiredMsg:
		a.toaster.Dismiss(msg.id)
		return a, nil
	case SessionChangedMsg:
		a.session = msg.Session
		if a.session.Email == "" {
			a.session.Email = model.PlaceholderEmail
		}
		return a, nil
	case addressedMsg:
		p, ok := a.pages[msg.pageID()]
		if !ok {
			return a, nil
		}
		cmd, nav := p.Update(msg)
		if nav != nil && msg.pageID() == a.activePage {
			return a, tea.Batch(cmd, a.switchTo(nav))
		}
		return a, cmd
	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)
	if nav != nil {
		return a, tea.Batch(cmd, a.switchTo(nav))
	}
	return a, cmd
}

// handleKey processes global keys. It reports false when the key should be
// forwarded to the active page.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, Keys.ForceQuit) {
		return tea.Quit, true
	}

	if a.showHelp {
		switch {
		case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Help):
			a.showHelp = false
		default:
			var cmd tea.Cmd
			a.helpVP, cmd = a.helpVP.Update(msg)
			return cmd, true
		}
		return nil, true
	}

	if ic, ok := a.pages[a.activePage].(inputCapturer); ok && ic.CapturesInput() {
		return nil, false
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, Keys.Help):
		a.showHelp = true
		a.helpVP.GotoTop()
		return nil, true
	case key.Matches(msg, Keys.NextPage):
		return a.switchTo(navigate(a.relativePage(1), nil)), true
	case key.Matches(msg, Keys.PrevPage):
		return a.switchTo(navigate(a.relativePage(-1), nil)), true
	}

	for i, b := range []key.Binding{Keys.GoHome, Keys.GoPricing, Keys.GoSignup, Keys.GoLegal, Keys.GoAgency} {
		if key.Matches(msg, b) && i < len(a.order) {
			return a.switchTo(navigate(a.order[i], nil)), true
		}
	}
	return nil, false
}

func (a *App) relativePage(delta int) string {
	for i, id := range a.order {
		if id == a.activePage {
			n := len(a.order)
			return a.order[((i+delta)%n+n)%n]
		}
	}
	return a.activePage
}

// switchTo leaves the current page and initializes the target. Re-selecting
// the active page without params is a no-op.
func (a *App) switchTo(nav *PageNav) tea.Cmd {
	target, ok := a.pages[nav.PageID]
	if !ok {
		return nil
	}
	if nav.PageID == a.activePage && nav.Params == nil {
		return nil
	}
	if l, ok := a.pages[a.activePage].(leaver); ok {
		l.Leave()
	}
	if pr, ok := target.(paramReceiver); ok && nav.Params != nil {
		pr.SetParams(nav.Params)
	}
	a.activePage = nav.PageID
	a.lggr.Debugw("page switch", "page", nav.PageID)
	return target.Init()
}

func (a *App) View() string {
	p, ok := a.pages[a.activePage]
	if !ok {
		return "No active page"
	}

	nav := a.renderNavBar()
	status := a.renderStatusLine()
	bodyHeight := max(a.height-lipgloss.Height(nav)-lipgloss.Height(status), 1)

	if a.showHelp {
		body := a.renderHelpModal(&a.helpVP, a.width, bodyHeight)
		return lipgloss.JoinVertical(lipgloss.Left, nav, body, status)
	}

	toasts := a.toaster.View(a.width)
	if toasts != "" {
		bodyHeight = max(bodyHeight-lipgloss.Height(toasts), 1)
	}

	body := lipgloss.NewStyle().
		Width(a.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(p.View(a.width, bodyHeight))

	parts := []string{nav, body}
	if toasts != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(a.width, lipgloss.Right, toasts))
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
