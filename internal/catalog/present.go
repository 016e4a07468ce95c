package catalog

import (
	"strings"

	"github.com/paperlane/storefront/internal/model"
)

// DisplayPrice returns the price for the selected billing period with two
// decimal places.
func DisplayPrice(p model.Plan, yearly bool) string {
	if yearly {
		return p.Yearly.StringFixed(2)
	}
	return p.Monthly.StringFixed(2)
}

// PeriodLabel is the suffix shown after a price.
func PeriodLabel(yearly bool) string {
	if yearly {
		return "/year"
	}
	return "/month"
}

// ActionDisabled reports whether the plan's call to action is inert: free
// tiers cannot be purchased.
func ActionDisabled(p model.Plan) bool {
	if p.Monthly.IsZero() && p.Yearly.IsZero() {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), "free")
}

// Highlighted reports whether the plan gets the featured treatment.
func Highlighted(p model.Plan) bool {
	return strings.Contains(strings.ToLower(p.Title), "professional")
}

// PlanView is the JSON shape served to the web shell.
type PlanView struct {
	model.Plan
	MonthlyDisplay string `json:"monthly_display"`
	YearlyDisplay  string `json:"yearly_display"`
	Disabled       bool   `json:"disabled"`
	Highlighted    bool   `json:"highlighted"`
}

// Views decorates plans with their presentation flags.
func Views(plans []model.Plan) []PlanView {
	out := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanView{
			Plan:           p,
			MonthlyDisplay: DisplayPrice(p, false),
			YearlyDisplay:  DisplayPrice(p, true),
			Disabled:       ActionDisabled(p),
			Highlighted:    Highlighted(p),
		})
	}
	return out
}
