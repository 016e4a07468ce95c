package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen (home, pricing, sign-up, ...).
type Page interface {
	ID() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch. Params are
// handed to the target page before its Init runs.
type PageNav struct {
	PageID string
	Params any
}

// paramReceiver is implemented by pages that accept PageNav params.
type paramReceiver interface {
	SetParams(params any)
}

// leaver is implemented by pages that release in-flight work when the user
// navigates away.
type leaver interface {
	Leave()
}

// inputCapturer is implemented by pages that own a focused text input; while
// it reports true the App does not interpret global shortcut keys.
type inputCapturer interface {
	CapturesInput() bool
}

// helpProvider lists page-specific key bindings for the status and help views.
type helpProvider interface {
	HelpKeys() [][2]string
}

// Page identifiers.
const (
	PageHome    = "home"
	PagePricing = "pricing"
	PageSignup  = "signup"
	PageLegal   = "legal"
	PageAgency  = "agency"
)

// navigate returns a PageNav for id.
func navigate(id string, params any) *PageNav {
	return &PageNav{PageID: id, Params: params}
}
