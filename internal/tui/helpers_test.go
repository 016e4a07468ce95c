package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paperlane/storefront/internal/model"
	"github.com/shopspring/decimal"
)

var errBackend = errors.New("backend unavailable")

// fakeGateway counts every backend call.
type fakeGateway struct {
	mu sync.Mutex

	plans    [][]model.Plan
	plansErr error
	planCall int

	agencies    []model.AgencyRecord
	agenciesErr error
	listCalls   int

	payload     []byte
	downloadErr error
	downloads   int
	lastToken   string
	signupErr   error
	signups     []model.SignupRequest
}

func (g *fakeGateway) FetchPlans(context.Context) ([]model.Plan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.planCall
	g.planCall++
	if g.plansErr != nil {
		return nil, g.plansErr
	}
	if len(g.plans) == 0 {
		return nil, nil
	}
	return g.plans[min(i, len(g.plans)-1)], nil
}

func (g *fakeGateway) DownloadTemplate(_ context.Context, token string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.downloads++
	g.lastToken = token
	if g.downloadErr != nil {
		return nil, g.downloadErr
	}
	return g.payload, nil
}

func (g *fakeGateway) ListAgencies(_ context.Context, token string) ([]model.AgencyRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	g.lastToken = token
	if g.agenciesErr != nil {
		return nil, g.agenciesErr
	}
	return g.agencies, nil
}

func (g *fakeGateway) SubmitSignup(_ context.Context, req model.SignupRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signups = append(g.signups, req)
	return g.signupErr
}

func (g *fakeGateway) downloadCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.downloads
}

// fakeSaver records saved payloads.
type fakeSaver struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (s *fakeSaver) SaveTemplate(payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saves++
	return "/tmp/" + model.TemplateFileName, nil
}

// memStore is an in-memory AgencyQuerier.
type memStore struct {
	mu   sync.Mutex
	rows []model.AgencyRecord
}

func (s *memStore) Replace(records []model.AgencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]model.AgencyRecord(nil), records...)
	return nil
}

func (s *memStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func (s *memStore) Search(query string, page, pageSize int) (model.AgencyPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var matched []model.AgencyRecord
	for _, r := range s.rows {
		hay := strings.ToLower(r.Name + " " + r.Region + " " + r.Contact + " " + r.Email)
		if q == "" || strings.Contains(hay, q) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	pages := max((len(matched)+pageSize-1)/pageSize, 1)
	page = min(max(page, 1), pages)
	lo := min((page-1)*pageSize, len(matched))
	hi := min(lo+pageSize, len(matched))
	return model.AgencyPage{
		Rows:      matched[lo:hi],
		Total:     len(matched),
		Page:      page,
		PageSize:  pageSize,
		PageCount: pages,
	}, nil
}

func samplePlans() []model.Plan {
	return []model.Plan{
		{ID: "free", Title: "Free", Monthly: decimal.Zero, Yearly: decimal.Zero, Features: []string{"1 seat"}},
		{ID: "pro", Title: "Professional", Monthly: decimal.RequireFromString("12.5"), Yearly: decimal.RequireFromString("120"), Features: []string{"10 seats"}},
		{ID: "ent", Title: "Enterprise", Monthly: decimal.RequireFromString("49"), Yearly: decimal.RequireFromString("490")},
	}
}

func sampleAgencies(n int) []model.AgencyRecord {
	out := make([]model.AgencyRecord, 0, n)
	for i := 0; i < n; i++ {
		region := "North"
		if i%2 == 1 {
			region = "South"
		}
		out = append(out, model.AgencyRecord{
			ID:        fmt.Sprintf("a%02d", i),
			Name:      fmt.Sprintf("Agency %02d", i),
			Region:    region,
			Contact:   fmt.Sprintf("Contact %02d", i),
			Email:     fmt.Sprintf("agency%02d@example.com", i),
			Templates: i,
			UpdatedAt: time.Date(2024, 1, 1+i%28, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

// drain runs cmd and flattens batches into the resulting messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch m := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds the page's own async results back into it until no more
// arrive and returns the toasts and other messages produced along the way.
func settle(t *testing.T, p Page, cmd tea.Cmd) (toasts []ToastMsg, other []tea.Msg) {
	t.Helper()
	queue := drain(cmd)
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("settle did not converge")
		}
		msg := queue[0]
		queue = queue[1:]
		switch m := msg.(type) {
		case ToastMsg:
			toasts = append(toasts, m)
		case addressedMsg:
			next, _ := p.Update(m)
			queue = append(queue, drain(next)...)
		default:
			other = append(other, msg)
		}
	}
	return toasts, other
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}
