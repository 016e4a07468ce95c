package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/catalog"
	"github.com/paperlane/storefront/internal/loadstate"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
	"github.com/paperlane/storefront/internal/session"
	"github.com/paperlane/storefront/internal/signup"
)

const (
	signupFailedText  = "Sign-up failed. Please try again."
	signupSuccessText = "Account created. Welcome aboard!"
)

type signupSubmittedMsg struct {
	ticket  loadstate.Ticket
	session model.Session
	err     error
}

func (signupSubmittedMsg) pageID() string { return PageSignup }

// signupField binds a text input to a SignupRequest field.
type signupField struct {
	name  string
	label string
	input textinput.Model
}

// SignupPage walks the user through the sign-up steps and submits the
// completed request.
type SignupPage struct {
	submitter   model.SignupSubmitter
	sessionPath string
	timeout     time.Duration
	lggr        logger.Logger

	flow      *signup.Flow
	planTitle string
	fields    map[signup.Step][]*signupField
	focus     int
	errs      signup.FieldErrors
	submit    loadstate.State[struct{}]
	spinner   spinner.Model
}

// NewSignupPage returns the sign-up page. A successful sign-up stores the
// email in the session file at sessionPath.
func NewSignupPage(submitter model.SignupSubmitter, sessionPath string, timeout time.Duration, lggr logger.Logger) *SignupPage {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	if lggr == nil {
		lggr = logger.Nop()
	}
	p := &SignupPage{
		submitter:   submitter,
		sessionPath: sessionPath,
		timeout:     timeout,
		lggr:        lggr.Named("signup"),
		spinner:     newSpinner(),
	}
	p.reset("", "", false)
	return p
}

func (p *SignupPage) reset(planID, planTitle string, yearly bool) {
	p.flow = signup.NewFlow(planID, yearly)
	p.planTitle = planTitle
	p.errs = nil
	p.focus = 0
	p.submit.Reset()

	email := newField("Email", "Work email", "you@company.com")
	password := newField("Password", "Password", "at least 8 characters")
	password.input.EchoMode = textinput.EchoPassword
	password.input.EchoCharacter = '•'
	plan := newField("PlanID", "Plan", "plan id from the pricing page")
	plan.input.SetValue(planID)

	p.fields = map[signup.Step][]*signupField{
		signup.StepAccount: {
			email,
			password,
			newField("FullName", "Full name", "Ada Lovelace"),
		},
		signup.StepOrganization: {
			newField("Company", "Company", "Acme Agency"),
			newField("TeamSize", "Team size", "1"),
		},
		signup.StepPlan: {plan},
	}
	p.focusField(0)
}

func newField(name, label, placeholder string) *signupField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 128
	in.Width = 40
	return &signupField{name: name, label: label, input: in}
}

func (p *SignupPage) ID() string    { return PageSignup }
func (p *SignupPage) Title() string { return "Sign up" }

func (p *SignupPage) Init() tea.Cmd {
	return textinput.Blink
}

// SetParams pre-selects the plan chosen on the pricing page.
func (p *SignupPage) SetParams(params any) {
	sp, ok := params.(SignupParams)
	if !ok {
		return
	}
	if p.flow.Step() == signup.StepDone {
		p.reset(sp.PlanID, sp.PlanTitle, sp.Yearly)
		return
	}
	p.flow.Request.PlanID = sp.PlanID
	p.flow.Request.Yearly = sp.Yearly
	p.planTitle = sp.PlanTitle
	p.fields[signup.StepPlan][0].input.SetValue(sp.PlanID)
}

// CapturesInput is true while a text field has focus.
func (p *SignupPage) CapturesInput() bool {
	return len(p.fields[p.flow.Step()]) > 0
}

func (p *SignupPage) HelpKeys() [][2]string {
	switch p.flow.Step() {
	case signup.StepReview:
		return [][2]string{{"space", "accept terms"}, {"enter", "create account"}, {"esc", "back"}}
	case signup.StepDone:
		return [][2]string{{"enter", "home"}}
	case signup.StepPlan:
		return [][2]string{{"ctrl+t", "monthly/yearly"}, {"enter", "continue"}, {"esc", "back"}}
	default:
		return [][2]string{{"tab", "next field"}, {"enter", "continue"}, {"esc", "back"}}
	}
}

// Flow exposes the underlying sign-up flow.
func (p *SignupPage) Flow() *signup.Flow { return p.flow }

// Errors returns the validation messages of the last attempt.
func (p *SignupPage) Errors() signup.FieldErrors { return p.errs }

func (p *SignupPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case signupSubmittedMsg:
		return p.handleSubmitted(msg), nil
	case spinner.TickMsg:
		if !p.submit.Loading() {
			return nil, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, nil
	case tea.KeyMsg:
		if p.submit.Loading() {
			return nil, nil
		}
		if p.CapturesInput() {
			return p.handleInputKey(msg)
		}
		return p.handleKey(msg)
	}

	if fields := p.fields[p.flow.Step()]; p.focus < len(fields) {
		var cmd tea.Cmd
		fields[p.focus].input, cmd = fields[p.focus].input.Update(msg)
		return cmd, nil
	}
	return nil, nil
}

func (p *SignupPage) handleInputKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	fields := p.fields[p.flow.Step()]
	switch msg.String() {
	case "tab", "down":
		return p.focusField((p.focus + 1) % len(fields)), nil
	case "shift+tab", "up":
		return p.focusField((p.focus - 1 + len(fields)) % len(fields)), nil
	case "esc":
		if p.flow.Step() == signup.StepAccount {
			return nil, navigate(PagePricing, nil)
		}
		p.apply()
		p.errs = nil
		p.flow.Back()
		return p.focusField(0), nil
	case "ctrl+t":
		if p.flow.Step() == signup.StepPlan {
			p.flow.Request.Yearly = !p.flow.Request.Yearly
		}
		return nil, nil
	case "enter":
		if p.focus < len(fields)-1 {
			return p.focusField(p.focus + 1), nil
		}
		return p.advance(), nil
	}

	var cmd tea.Cmd
	fields[p.focus].input, cmd = fields[p.focus].input.Update(msg)
	return cmd, nil
}

func (p *SignupPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch p.flow.Step() {
	case signup.StepReview:
		switch {
		case msg.Type == tea.KeySpace, msg.String() == " ":
			p.flow.Request.AcceptTerms = !p.flow.Request.AcceptTerms
		case key.Matches(msg, Keys.Enter):
			return p.startSubmit(), nil
		case key.Matches(msg, Keys.Back), msg.String() == "backspace":
			p.errs = nil
			p.flow.Back()
			return p.focusField(0), nil
		}
	case signup.StepDone:
		if key.Matches(msg, Keys.Enter) {
			return nil, navigate(PageHome, nil)
		}
	}
	return nil, nil
}

// advance copies the inputs into the request and moves to the next step when
// the current one validates.
func (p *SignupPage) advance() tea.Cmd {
	p.apply()
	if err := p.flow.Next(); err != nil {
		p.setErrors(err)
		return nil
	}
	p.errs = nil
	return p.focusField(0)
}

func (p *SignupPage) apply() {
	for _, f := range p.fields[p.flow.Step()] {
		v := f.input.Value()
		r := &p.flow.Request
		switch f.name {
		case "Email":
			r.Email = v
		case "Password":
			r.Password = v
		case "FullName":
			r.FullName = v
		case "Company":
			r.Company = v
		case "TeamSize":
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				n = 0
			}
			r.TeamSize = n
		case "PlanID":
			r.PlanID = strings.TrimSpace(v)
		}
	}
}

func (p *SignupPage) setErrors(err error) {
	var fe signup.FieldErrors
	if errors.As(err, &fe) {
		p.errs = fe
		return
	}
	p.errs = signup.FieldErrors{"": err.Error()}
}

func (p *SignupPage) focusField(i int) tea.Cmd {
	fields := p.fields[p.flow.Step()]
	for j, f := range fields {
		if j != i {
			f.input.Blur()
		}
	}
	p.focus = i
	if i < len(fields) {
		return fields[i].input.Focus()
	}
	return nil
}

func (p *SignupPage) startSubmit() tea.Cmd {
	if err := p.flow.Validate(); err != nil {
		p.setErrors(err)
		return nil
	}
	if err := p.flow.Complete(); err != nil {
		p.setErrors(err)
		return nil
	}
	p.errs = nil

	ticket := p.submit.Begin()
	req := p.flow.Request
	submitter, path, timeout := p.submitter, p.sessionPath, p.timeout
	lggr := p.lggr

	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := submitter.SubmitSignup(ctx, req); err != nil {
			return signupSubmittedMsg{ticket: ticket, err: err}
		}
		sess := model.Session{Email: req.Email}
		if path != "" {
			stored, err := session.ReadFile(path)
			if err != nil {
				lggr.Debugw("session read failed", "err", err)
			}
			stored.Email = req.Email
			if err := session.Save(path, stored); err != nil {
				lggr.Warnw("session save failed", "err", err)
			}
			sess = session.Load(path)
			sess.Email = req.Email
		}
		return signupSubmittedMsg{ticket: ticket, session: sess}
	}
	return tea.Batch(run, p.spinner.Tick)
}

func (p *SignupPage) handleSubmitted(msg signupSubmittedMsg) tea.Cmd {
	if msg.err != nil {
		if !p.submit.Fail(msg.ticket, msg.err) {
			return nil
		}
		p.lggr.Warnw("signup failed", "err", msg.err)
		return Failure(signupFailedText)
	}
	if !p.submit.Resolve(msg.ticket, struct{}{}) {
		return nil
	}
	if err := p.flow.Next(); err != nil {
		p.lggr.Debugw("signup flow did not advance", "err", err)
	}
	sess := msg.session
	return tea.Batch(
		Success(signupSuccessText),
		func() tea.Msg { return SessionChangedMsg{Session: sess} },
	)
}

func (p *SignupPage) View(width, height int) string {
	step := p.flow.Step()
	header := p.renderProgress()

	var body string
	switch step {
	case signup.StepReview:
		body = p.renderReview()
	case signup.StepDone:
		body = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).Render("✓ You're all set"),
			"",
			"We sent a confirmation to "+p.flow.Request.Email+".",
			helpStyle.Render("press enter to return home"),
		)
	default:
		body = p.renderFields(step)
	}

	if p.submit.Loading() {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", p.spinner.View()+subtleStyle.Render(" Creating your account..."))
	}
	if len(p.errs) > 0 {
		var lines []string
		for _, f := range []string{"Email", "Password", "FullName", "Company", "TeamSize", "PlanID", "AcceptTerms", ""} {
			if m, ok := p.errs[f]; ok {
				lines = append(lines, errorStyle.Render("• "+m))
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", strings.Join(lines, "\n"))
	}

	form := activeSectionStyle.Width(min(max(width-8, 40), 64)).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}

func (p *SignupPage) renderProgress() string {
	var parts []string
	for i, s := range signup.Steps {
		label := strconv.Itoa(i+1) + " " + s.String()
		switch {
		case s == p.flow.Step():
			parts = append(parts, lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render(label))
		case s < p.flow.Step():
			parts = append(parts, lipgloss.NewStyle().Foreground(ColorGreen).Render("✓ "+s.String()))
		default:
			parts = append(parts, subtleStyle.Render(label))
		}
	}
	return titleStyle.Render("Create your account") + "\n" + strings.Join(parts, subtleStyle.Render(" › "))
}

func (p *SignupPage) renderFields(step signup.Step) string {
	var lines []string
	for i, f := range p.fields[step] {
		label := subtleStyle.Render(f.label)
		if i == p.focus {
			label = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(f.label)
		}
		lines = append(lines, label, "  "+f.input.View(), "")
	}
	if step == signup.StepPlan {
		period := "Monthly billing"
		if p.flow.Request.Yearly {
			period = "Yearly billing"
		}
		if p.planTitle != "" {
			lines = append(lines, subtleStyle.Render("Selected: ")+p.planTitle)
		}
		lines = append(lines, subtleStyle.Render("Billing: ")+period+helpStyle.Render("  (ctrl+t to switch)"))
	}
	return strings.Join(lines, "\n")
}

func (p *SignupPage) renderReview() string {
	r := p.flow.Request
	row := func(k, v string) string {
		return lipgloss.NewStyle().Foreground(ColorGray).Width(12).Render(k) + v
	}
	plan := r.PlanID
	if p.planTitle != "" {
		plan = p.planTitle
	}
	terms := "[ ] I accept the Terms of Service and Privacy Policy"
	if r.AcceptTerms {
		terms = "[x] I accept the Terms of Service and Privacy Policy"
	}
	return strings.Join([]string{
		row("Email", r.Email),
		row("Name", r.FullName),
		row("Company", r.Company),
		row("Team size", strconv.Itoa(r.TeamSize)),
		row("Plan", plan+" "+subtleStyle.Render(catalog.PeriodLabel(r.Yearly))),
		"",
		terms,
	}, "\n")
}
