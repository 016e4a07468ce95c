package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/loadstate"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

const (
	agencyFailedText   = "Failed to load agency data. Please try again."
	downloadFailedText = "Failed to download template. Please try again."
)

// AgencyBackend is the part of the gateway the agency page uses.
type AgencyBackend interface {
	model.AgencySource
	model.TemplateSource
}

// TemplateSaver stores a downloaded template and returns where it went.
type TemplateSaver interface {
	SaveTemplate(payload []byte) (string, error)
}

type agenciesSyncedMsg struct {
	ticket loadstate.Ticket
	count  int
	err    error
}

type agencyPageMsg struct {
	ticket loadstate.Ticket
	page   model.AgencyPage
	err    error
}

type templateSavedMsg struct {
	ticket loadstate.Ticket
	path   string
	err    error
}

func (agenciesSyncedMsg) pageID() string { return PageAgency }
func (agencyPageMsg) pageID() string     { return PageAgency }
func (templateSavedMsg) pageID() string  { return PageAgency }

// AgencyConfig wires the agency page to its collaborators.
type AgencyConfig struct {
	Backend  AgencyBackend
	Store    model.AgencyQuerier
	Saver    TemplateSaver
	Token    string
	PageSize int
	Timeout  time.Duration
	Logger   logger.Logger
}

// AgencyPage shows the agency dataset as a searchable, paged table and
// offers the spreadsheet template download.
type AgencyPage struct {
	cfg  AgencyConfig
	lggr logger.Logger

	sync     loadstate.State[int]
	results  loadstate.State[model.AgencyPage]
	download loadstate.State[string]

	syncCancel context.CancelFunc

	search    textinput.Model
	searching bool
	query     string
	page      int

	table       table.Model
	spinner     spinner.Model
	confirmOpen bool
	dialog      ConfirmDialog
	dropArmed   bool
}

// NewAgencyPage returns the agency page.
func NewAgencyPage(cfg AgencyConfig) *AgencyPage {
	if cfg.PageSize <= 0 {
		cfg.PageSize = model.DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = model.DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	search := textinput.New()
	search.Placeholder = "name, region, contact or email"
	search.Prompt = "/ "
	search.CharLimit = 64

	t := table.New(
		table.WithColumns(agencyColumns(100)),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		BorderBottom(true).
		Foreground(ColorBlue).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(ColorNavy).
		Background(ColorBlue).
		Bold(false)
	t.SetStyles(st)

	return &AgencyPage{
		cfg:     cfg,
		lggr:    cfg.Logger.Named("agency"),
		search:  search,
		page:    1,
		table:   t,
		spinner: newSpinner(),
		dialog: ConfirmDialog{
			Title:   "Download template",
			Message: "Download the agency data template as " + model.TemplateFileName + "?",
			Accept:  "Download",
			Reject:  "Cancel",
		},
	}
}

func (p *AgencyPage) ID() string    { return PageAgency }
func (p *AgencyPage) Title() string { return "Agency data" }

// Init syncs from the backend until a sync has succeeded and re-queries the
// local store afterwards. A download still in flight keeps its spinner.
func (p *AgencyPage) Init() tea.Cmd {
	var cmd tea.Cmd
	if p.sync.Phase() != loadstate.Ready {
		cmd = p.startSync()
	} else {
		cmd = p.runQuery()
	}
	if p.download.Loading() {
		cmd = tea.Batch(cmd, p.spinner.Tick)
	}
	return cmd
}

// Leave cancels an unfinished sync so the next visit starts over.
func (p *AgencyPage) Leave() {
	if p.sync.Loading() {
		if p.syncCancel != nil {
			p.syncCancel()
		}
		p.sync.Reset()
	}
	p.confirmOpen = false
	p.searching = false
	p.search.Blur()
}

// CapturesInput is true while the search box or the confirm dialog is open.
func (p *AgencyPage) CapturesInput() bool {
	return p.searching || p.confirmOpen
}

func (p *AgencyPage) HelpKeys() [][2]string {
	switch {
	case p.confirmOpen:
		return [][2]string{{"y/enter", "download"}, {"n/esc", "cancel"}}
	case p.searching:
		return [][2]string{{"enter/esc", "done"}}
	}
	return [][2]string{{"/", "search"}, {"[ ]", "page"}, {"d", "template"}, {"u", "upload"}, {"r", "resync"}}
}

// ConfirmOpen reports whether the download dialog is shown.
func (p *AgencyPage) ConfirmOpen() bool { return p.confirmOpen }

// Results exposes the current page of rows.
func (p *AgencyPage) Results() *loadstate.State[model.AgencyPage] { return &p.results }

// DropArmed reports whether the upload drop target is active.
func (p *AgencyPage) DropArmed() bool { return p.dropArmed }

func (p *AgencyPage) startSync() tea.Cmd {
	if p.syncCancel != nil {
		p.syncCancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	p.syncCancel = cancel
	ticket := p.sync.Begin()
	p.results.Reset()

	backend, store, token := p.cfg.Backend, p.cfg.Store, p.cfg.Token
	run := func() tea.Msg {
		defer cancel()
		records, err := backend.ListAgencies(ctx, token)
		if err != nil {
			return agenciesSyncedMsg{ticket: ticket, err: err}
		}
		if err := store.Replace(records); err != nil {
			return agenciesSyncedMsg{ticket: ticket, err: err}
		}
		return agenciesSyncedMsg{ticket: ticket, count: len(records)}
	}
	return tea.Batch(run, p.spinner.Tick)
}

func (p *AgencyPage) runQuery() tea.Cmd {
	ticket := p.results.Begin()
	store, query, page, size := p.cfg.Store, p.query, p.page, p.cfg.PageSize
	return func() tea.Msg {
		res, err := store.Search(query, page, size)
		return agencyPageMsg{ticket: ticket, page: res, err: err}
	}
}

func (p *AgencyPage) startDownload() tea.Cmd {
	ticket := p.download.Begin()
	backend, saver, token, timeout := p.cfg.Backend, p.cfg.Saver, p.cfg.Token, p.cfg.Timeout
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		payload, err := backend.DownloadTemplate(ctx, token)
		if err != nil {
			return templateSavedMsg{ticket: ticket, err: err}
		}
		path, err := saver.SaveTemplate(payload)
		return templateSavedMsg{ticket: ticket, path: path, err: err}
	}
	return tea.Batch(run, p.spinner.Tick)
}

func (p *AgencyPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case agenciesSyncedMsg:
		return p.handleSynced(msg), nil
	case agencyPageMsg:
		p.handlePage(msg)
		return nil, nil
	case templateSavedMsg:
		return p.handleSaved(msg), nil
	case spinner.TickMsg:
		if !p.sync.Loading() && !p.download.Loading() {
			return nil, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, nil
	case tea.KeyMsg:
		return p.handleKey(msg), nil
	}

	if p.searching {
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return cmd, nil
	}
	return nil, nil
}

func (p *AgencyPage) handleSynced(msg agenciesSyncedMsg) tea.Cmd {
	if msg.err != nil {
		if !p.sync.Fail(msg.ticket, msg.err) {
			return nil
		}
		p.results.Reset()
		p.table.SetRows(nil)
		p.lggr.Warnw("agency sync failed", "err", msg.err)
		return Failure(agencyFailedText)
	}
	if !p.sync.Resolve(msg.ticket, msg.count) {
		return nil
	}
	p.lggr.Debugw("agency sync complete", "records", msg.count)
	p.page = 1
	return p.runQuery()
}

func (p *AgencyPage) handlePage(msg agencyPageMsg) {
	if msg.err != nil {
		if p.results.Fail(msg.ticket, msg.err) {
			p.table.SetRows(nil)
			p.lggr.Warnw("agency query failed", "err", msg.err)
		}
		return
	}
	if !p.results.Resolve(msg.ticket, msg.page) {
		return
	}
	p.page = msg.page.Page
	p.table.SetRows(agencyRows(msg.page.Rows))
	p.table.GotoTop()
}

func (p *AgencyPage) handleSaved(msg templateSavedMsg) tea.Cmd {
	if msg.err != nil {
		if !p.download.Fail(msg.ticket, msg.err) {
			return nil
		}
		p.lggr.Warnw("template download failed", "err", msg.err)
		return Failure(downloadFailedText)
	}
	if !p.download.Resolve(msg.ticket, msg.path) {
		return nil
	}
	p.lggr.Infow("template saved", "path", msg.path)
	return Success("Template saved to " + msg.path)
}

func (p *AgencyPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.confirmOpen {
		switch p.dialog.HandleKey(msg) {
		case ConfirmAccepted:
			p.confirmOpen = false
			return p.startDownload()
		case ConfirmCanceled:
			p.confirmOpen = false
		}
		return nil
	}

	if p.searching {
		switch msg.String() {
		case "enter", "esc":
			p.searching = false
			p.search.Blur()
			return nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		if v := p.search.Value(); v != p.query {
			p.query = v
			p.page = 1
			return tea.Batch(cmd, p.runQuery())
		}
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Search):
		p.searching = true
		p.dropArmed = false
		return p.search.Focus()
	case key.Matches(msg, Keys.Escape):
		if p.query != "" {
			p.query = ""
			p.search.SetValue("")
			p.page = 1
			return p.runQuery()
		}
		p.dropArmed = false
	case key.Matches(msg, Keys.PrevPageOfRows):
		if p.page > 1 {
			p.page--
			return p.runQuery()
		}
	case key.Matches(msg, Keys.NextPageOfRows):
		if p.page < p.results.Data().PageCount {
			p.page++
			return p.runQuery()
		}
	case key.Matches(msg, Keys.Download):
		if !p.download.Loading() {
			p.confirmOpen = true
		}
	case key.Matches(msg, Keys.Upload):
		p.dropArmed = !p.dropArmed
		p.lggr.Debugw("upload drop target toggled", "armed", p.dropArmed)
	case key.Matches(msg, Keys.Refresh):
		return p.startSync()
	default:
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd
	}
	return nil
}

func (p *AgencyPage) View(width, height int) string {
	header := p.renderToolbar(width)
	footer := p.renderFooter(width)
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 3)

	var body string
	switch {
	case p.confirmOpen:
		body = p.dialog.View(width, bodyHeight)
	case p.sync.Loading():
		body = renderLoadingPlaceholder(p.spinner, "Syncing agency data...", width, bodyHeight)
	case p.sync.Phase() == loadstate.Failed:
		body = renderErrorPlaceholder("Unable to load agency data", width, bodyHeight)
	case p.results.Phase() == loadstate.Failed:
		body = renderErrorPlaceholder("Search failed", width, bodyHeight)
	case p.results.Phase() == loadstate.Ready && len(p.results.Data().Rows) == 0:
		msg := "No agencies yet."
		if p.query != "" {
			msg = fmt.Sprintf("No agencies match %q.", p.query)
		}
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, subtleStyle.Render(msg))
	default:
		p.table.SetColumns(agencyColumns(width - 2))
		p.table.SetWidth(width)
		p.table.SetHeight(bodyHeight)
		body = p.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (p *AgencyPage) renderToolbar(width int) string {
	var search string
	if p.searching || p.query != "" {
		search = p.search.View()
	} else {
		search = helpStyle.Render("press / to search")
	}

	download := buttonStyle.Render("d  Download template")
	if p.download.Loading() {
		download = disabledButtonStyle.Render(p.spinner.View() + " Downloading...")
	}
	uploadStyle := disabledButtonStyle.Foreground(ColorWhite)
	if p.dropArmed {
		uploadStyle = buttonStyle.Background(ColorAccent)
	}
	upload := uploadStyle.Render("u  Upload data set")

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, download, " ", upload)
	gap := max(width-lipgloss.Width(search)-lipgloss.Width(buttons)-2, 1)
	line := " " + search + lipgloss.NewStyle().Width(gap).Render("") + buttons

	if !p.dropArmed {
		return line
	}
	drop := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorAccent).
		Foreground(ColorAccent).
		Width(max(width-4, 10)).
		Align(lipgloss.Center).
		Render("Drop a completed " + model.TemplateFileName + " here")
	return lipgloss.JoinVertical(lipgloss.Left, line, drop)
}

func (p *AgencyPage) renderFooter(width int) string {
	data := p.results.Data()
	if p.results.Phase() != loadstate.Ready {
		return subtleStyle.Width(width).Render(" ")
	}
	text := fmt.Sprintf(" Page %d of %d  ·  %d agencies", max(data.Page, 1), max(data.PageCount, 1), data.Total)
	if p.sync.Phase() == loadstate.Ready {
		text += fmt.Sprintf("  ·  %d synced", p.sync.Data())
	}
	return subtleStyle.Width(width).Render(text)
}

func agencyColumns(width int) []table.Column {
	fixed := 10 + 12 // templates + updated
	flex := max(width-fixed-12, 40)
	return []table.Column{
		{Title: "Name", Width: flex * 30 / 100},
		{Title: "Region", Width: flex * 15 / 100},
		{Title: "Contact", Width: flex * 20 / 100},
		{Title: "Email", Width: flex * 35 / 100},
		{Title: "Templates", Width: 10},
		{Title: "Updated", Width: 12},
	}
}

func agencyRows(records []model.AgencyRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		updated := "—"
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			r.Name, r.Region, r.Contact, r.Email, strconv.Itoa(r.Templates), updated,
		})
	}
	return rows
}
