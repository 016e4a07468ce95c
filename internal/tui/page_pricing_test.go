package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paperlane/storefront/internal/loadstate"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

func loadedPricing(t *testing.T, gw *fakeGateway) *PricingPage {
	t.Helper()
	p := NewPricingPage(gw, 0, logger.Test(t))
	if toasts, _ := settle(t, p, p.Init()); len(toasts) != 0 {
		t.Fatalf("unexpected toasts on load: %+v", toasts)
	}
	return p
}

func TestPricing_OneCardPerPlan(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{plans: [][]model.Plan{samplePlans()}}
	p := loadedPricing(t, gw)

	if got := len(p.Cards()); got != 3 {
		t.Fatalf("cards = %d, want 3", got)
	}
	if got := p.State().Phase(); got != loadstate.Ready {
		t.Fatalf("phase = %s, want Ready", got)
	}
	view := p.View(120, 40)
	for _, title := range []string{"Free", "Professional", "Enterprise"} {
		if !strings.Contains(view, title) {
			t.Fatalf("view missing %q", title)
		}
	}
}

func TestPricing_PriceFollowsToggle(t *testing.T) {
	t.Parallel()

	p := loadedPricing(t, &fakeGateway{plans: [][]model.Plan{samplePlans()}})

	monthly := p.View(120, 40)
	if !strings.Contains(monthly, "$12.50") || !strings.Contains(monthly, "/month") {
		t.Fatalf("monthly view missing $12.50/month")
	}

	p.Update(keyRunes("t"))
	if !p.Yearly() {
		t.Fatal("toggle did not switch to yearly")
	}
	yearly := p.View(120, 40)
	if !strings.Contains(yearly, "$120.00") || !strings.Contains(yearly, "/year") {
		t.Fatalf("yearly view missing $120.00/year")
	}

	p.Update(keyRunes("t"))
	if got := p.View(120, 40); got != monthly {
		t.Fatal("monthly -> yearly -> monthly did not restore the original view")
	}
}

func TestPricing_ToggleDoesNotRefetch(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{plans: [][]model.Plan{samplePlans()}}
	p := loadedPricing(t, gw)

	for i := 0; i < 4; i++ {
		if cmd, _ := p.Update(keyRunes("t")); cmd != nil {
			t.Fatal("toggle returned a command")
		}
	}
	if gw.planCall != 1 {
		t.Fatalf("FetchPlans calls = %d, want 1", gw.planCall)
	}
}

func TestPricing_DisabledAndHighlightedCards(t *testing.T) {
	t.Parallel()

	p := loadedPricing(t, &fakeGateway{plans: [][]model.Plan{samplePlans()}})

	cards := p.Cards()
	if !cards[0].Disabled {
		t.Fatal("free plan action should be disabled")
	}
	if cards[1].Disabled || cards[2].Disabled {
		t.Fatal("paid plans should be enabled")
	}
	for i, c := range cards {
		if want := c.Plan.Title == "Professional"; c.Highlighted != want {
			t.Fatalf("card %d highlighted = %v, want %v", i, c.Highlighted, want)
		}
	}
}

func TestPricing_EnterStartsSignupWithPlan(t *testing.T) {
	t.Parallel()

	p := loadedPricing(t, &fakeGateway{plans: [][]model.Plan{samplePlans()}})
	p.Update(keyRunes("t"))

	// Cursor starts on the highlighted plan.
	_, nav := p.Update(keyType(tea.KeyEnter))
	if nav == nil || nav.PageID != PageSignup {
		t.Fatalf("nav = %+v, want signup", nav)
	}
	params, ok := nav.Params.(SignupParams)
	if !ok || params.PlanID != "pro" || !params.Yearly {
		t.Fatalf("params = %+v, want pro yearly", nav.Params)
	}

	// The free card ignores enter.
	p.Update(keyRunes("h"))
	if _, nav := p.Update(keyType(tea.KeyEnter)); nav != nil {
		t.Fatalf("disabled plan navigated to %+v", nav)
	}
}

func TestPricing_FailureShowsErrorAndClearsList(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{plans: [][]model.Plan{samplePlans()}}
	p := loadedPricing(t, gw)

	gw.plansErr = errBackend
	cmd, _ := p.Update(keyRunes("r"))
	if len(p.Cards()) != 0 {
		t.Fatal("cards kept while reloading")
	}
	toasts, _ := settle(t, p, cmd)

	if got := len(p.Cards()); got != 0 {
		t.Fatalf("cards after failure = %d, want 0", got)
	}
	if got := p.State().Phase(); got != loadstate.Failed {
		t.Fatalf("phase = %s, want Failed", got)
	}
	if len(toasts) != 1 || toasts[0].Kind != ToastFailure || toasts[0].Text != plansFailedText {
		t.Fatalf("toasts = %+v, want one failure toast", toasts)
	}
	if view := p.View(100, 30); !strings.Contains(view, "Unable to load plans") {
		t.Fatal("error indicator missing from view")
	}
}

func TestPricing_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	older := samplePlans()[:1]
	newer := samplePlans()
	gw := &fakeGateway{plans: [][]model.Plan{older, newer}}
	p := NewPricingPage(gw, 0, logger.Test(t))

	first := drain(p.Init())
	second := drain(p.fetch())

	for _, m := range second {
		if _, ok := m.(plansLoadedMsg); ok {
			p.Update(m)
		}
	}
	for _, m := range first {
		if _, ok := m.(plansLoadedMsg); ok {
			if cmd, _ := p.Update(m); cmd != nil {
				t.Fatal("stale response produced a command")
			}
		}
	}

	if got := len(p.Cards()); got != 3 {
		t.Fatalf("cards = %d, want 3 from the newer response", got)
	}
}

func TestPricing_LeaveDropsInflightResult(t *testing.T) {
	t.Parallel()

	p := NewPricingPage(&fakeGateway{plans: [][]model.Plan{samplePlans()}}, 0, logger.Test(t))
	msgs := drain(p.Init())
	p.Leave()
	for _, m := range msgs {
		p.Update(m)
	}
	if got := p.State().Phase(); got != loadstate.Idle {
		t.Fatalf("phase = %s, want Idle after leave", got)
	}
}
