package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/catalog"
	"github.com/paperlane/storefront/internal/loadstate"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

const plansFailedText = "Failed to load plans. Please try again."

// plansLoadedMsg carries the result of one FetchPlans call.
type plansLoadedMsg struct {
	ticket loadstate.Ticket
	plans  []model.Plan
	err    error
}

func (plansLoadedMsg) pageID() string { return PagePricing }

// SignupParams pre-selects a plan on the sign-up page.
type SignupParams struct {
	PlanID    string
	PlanTitle string
	Yearly    bool
}

// PricingPage lists the remote plans as cards with a monthly/yearly toggle.
type PricingPage struct {
	source  model.PlanSource
	timeout time.Duration
	lggr    logger.Logger

	plans   loadstate.State[[]model.Plan]
	views   []catalog.PlanView
	yearly  bool
	cursor  int
	cancel  context.CancelFunc
	spinner spinner.Model
}

// NewPricingPage returns the pricing page backed by source.
func NewPricingPage(source model.PlanSource, timeout time.Duration, lggr logger.Logger) *PricingPage {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &PricingPage{
		source:  source,
		timeout: timeout,
		lggr:    lggr.Named("pricing"),
		spinner: newSpinner(),
	}
}

func (p *PricingPage) ID() string    { return PagePricing }
func (p *PricingPage) Title() string { return "Pricing" }

// Init fetches the plan list every time the page is shown.
func (p *PricingPage) Init() tea.Cmd {
	return p.fetch()
}

// Leave cancels an in-flight fetch; its result will be discarded.
func (p *PricingPage) Leave() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.plans.Reset()
}

func (p *PricingPage) HelpKeys() [][2]string {
	return [][2]string{{"t", "monthly/yearly"}, {"←/→", "select"}, {"enter", "choose plan"}, {"r", "reload"}}
}

// Yearly reports whether yearly prices are shown.
func (p *PricingPage) Yearly() bool { return p.yearly }

// Cards returns the plan cards currently rendered.
func (p *PricingPage) Cards() []catalog.PlanView { return p.views }

// State exposes the plan load state.
func (p *PricingPage) State() *loadstate.State[[]model.Plan] { return &p.plans }

func (p *PricingPage) fetch() tea.Cmd {
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	p.cancel = cancel
	ticket := p.plans.Begin()
	p.views = nil
	p.cursor = 0

	src := p.source
	load := func() tea.Msg {
		defer cancel()
		plans, err := src.FetchPlans(ctx)
		return plansLoadedMsg{ticket: ticket, plans: plans, err: err}
	}
	return tea.Batch(load, p.spinner.Tick)
}

func (p *PricingPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		return p.handleLoaded(msg), nil
	case spinner.TickMsg:
		if !p.plans.Loading() {
			return nil, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, nil
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil, nil
}

func (p *PricingPage) handleLoaded(msg plansLoadedMsg) tea.Cmd {
	if msg.err != nil {
		if !p.plans.Fail(msg.ticket, msg.err) {
			p.lggr.Debugw("stale plan failure dropped", "ticket", msg.ticket)
			return nil
		}
		p.views = nil
		p.lggr.Warnw("plan fetch failed", "err", msg.err)
		return Failure(plansFailedText)
	}
	if !p.plans.Resolve(msg.ticket, msg.plans) {
		p.lggr.Debugw("stale plan response dropped", "ticket", msg.ticket)
		return nil
	}
	p.views = catalog.Views(msg.plans)
	p.cursor = 0
	for i, v := range p.views {
		if v.Highlighted {
			p.cursor = i
			break
		}
	}
	return nil
}

func (p *PricingPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, Keys.Toggle):
		p.yearly = !p.yearly
	case key.Matches(msg, Keys.Refresh):
		return p.fetch(), nil
	case key.Matches(msg, Keys.Left), key.Matches(msg, Keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, Keys.Right), key.Matches(msg, Keys.Down):
		if p.cursor < len(p.views)-1 {
			p.cursor++
		}
	case key.Matches(msg, Keys.Enter):
		if p.cursor >= len(p.views) {
			return nil, nil
		}
		v := p.views[p.cursor]
		if v.Disabled {
			return nil, nil
		}
		return nil, navigate(PageSignup, SignupParams{PlanID: v.Plan.ID, PlanTitle: v.Plan.Title, Yearly: p.yearly})
	}
	return nil, nil
}

func (p *PricingPage) View(width, height int) string {
	header := p.renderHeader(width)
	bodyHeight := max(height-lipgloss.Height(header)-1, 1)

	var body string
	switch p.plans.Phase() {
	case loadstate.Loading, loadstate.Idle:
		body = renderLoadingPlaceholder(p.spinner, "Loading plans...", width, bodyHeight)
	case loadstate.Failed:
		body = renderErrorPlaceholder("Unable to load plans", width, bodyHeight)
	default:
		if len(p.views) == 0 {
			body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
				subtleStyle.Render("No plans are available right now."))
			break
		}
		cards := p.renderCards(width)
		chartHeight := bodyHeight - lipgloss.Height(cards) - 2
		if chartHeight >= 6 {
			body = lipgloss.JoinVertical(lipgloss.Left, cards, "", p.renderChart(width, min(chartHeight, 12)))
		} else {
			body = cards
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func (p *PricingPage) renderHeader(width int) string {
	on := lipgloss.NewStyle().Foreground(ColorNavy).Background(ColorAccent).Bold(true).Padding(0, 1)
	off := lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)
	monthly, yearly := off.Render("Monthly"), off.Render("Yearly")
	if p.yearly {
		yearly = on.Render("Yearly")
	} else {
		monthly = on.Render("Monthly")
	}
	toggle := lipgloss.JoinHorizontal(lipgloss.Top, monthly, yearly)
	title := titleStyle.Render("Choose your plan")
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(toggle)-2, 1)
	return " " + title + strings.Repeat(" ", gap) + toggle
}

func (p *PricingPage) renderCards(width int) string {
	const minCard = 26
	perRow := max(min(len(p.views), width/(minCard+2)), 1)
	cardWidth := max(width/perRow-4, minCard-4)

	var rows, row []string
	for i, v := range p.views {
		row = append(row, p.renderCard(v, i == p.cursor, cardWidth))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (p *PricingPage) renderCard(v catalog.PlanView, selected bool, width int) string {
	style := sectionStyle
	switch {
	case selected:
		style = activeSectionStyle
	case v.Highlighted:
		style = highlightSectionStyle
	}

	var lines []string
	name := lipgloss.NewStyle().Foreground(ColorWhite).Bold(true).Render(v.Plan.Title)
	if v.Highlighted {
		name += " " + badgeStyle.Render("Most popular")
	}
	lines = append(lines, name)

	price := v.MonthlyDisplay
	if p.yearly {
		price = v.YearlyDisplay
	}
	lines = append(lines,
		lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render("$"+price)+
			subtleStyle.Render(catalog.PeriodLabel(p.yearly)))

	if v.Plan.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGray).Width(width).Render(v.Plan.Description))
	}
	lines = append(lines, "")
	for _, f := range v.Plan.Features {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGreen).Render("✓ ")+f)
	}
	lines = append(lines, "")
	if v.Disabled {
		lines = append(lines, disabledButtonStyle.Render("Not available"))
	} else {
		lines = append(lines, buttonStyle.Render("Get started"))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// renderChart draws a bar per plan for the selected billing period.
func (p *PricingPage) renderChart(width, height int) string {
	barWidth := 6
	gap := 2
	chartWidth := min(len(p.views)*(barWidth+gap)+2, width-4)

	bc := barchart.New(chartWidth, height,
		barchart.WithBarGap(gap),
		barchart.WithBarWidth(barWidth),
	)
	for _, v := range p.views {
		color := ColorBlue
		if v.Highlighted {
			color = ColorAccent
		}
		price := v.Plan.Monthly
		if p.yearly {
			price = v.Plan.Yearly
		}
		bc.Push(barchart.BarData{
			Label: shortLabel(v.Plan.Title, barWidth),
			Values: []barchart.BarValue{{
				Name:  v.Plan.Title,
				Value: price.InexactFloat64(),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	bc.Draw()

	var legend []string
	for _, v := range p.views {
		price := v.MonthlyDisplay
		if p.yearly {
			price = v.YearlyDisplay
		}
		legend = append(legend, fmt.Sprintf("%-*s $%s", barWidth, shortLabel(v.Plan.Title, barWidth), price))
	}

	title := subtleStyle.Render("Price per " + strings.TrimPrefix(catalog.PeriodLabel(p.yearly), "/"))
	chart := lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), "  ", strings.Join(legend, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, " "+title, chart)
}

func shortLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
