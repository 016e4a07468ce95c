// Package catalog turns upstream plan listings into model.Plan values and
// holds the presentation rules the pricing surfaces share.
package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/paperlane/storefront/internal/model"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned when the plan listing is not valid JSON.
var ErrInvalidPayload = errors.New("catalog: invalid plan payload")

// Upstream field-name variants, first match wins.
var (
	idKeys          = []string{"id", "_id", "planId", "plan_id", "uuid"}
	titleKeys       = []string{"title", "name", "planName", "plan_name"}
	monthlyKeys     = []string{"monthly", "monthlyPrice", "monthly_price", "price_monthly", "price.monthly", "prices.monthly"}
	yearlyKeys      = []string{"yearly", "yearlyPrice", "yearly_price", "annualPrice", "annual_price", "price_yearly", "price.yearly", "prices.yearly"}
	descriptionKeys = []string{"description", "desc", "summary"}
	featureKeys     = []string{"features", "featureList", "feature_list", "benefits"}

	// envelopes lists where the plan array may live in the response body.
	envelopes = []string{"data.plans", "data", "plans", "items"}
)

// NewID produces the identifier used when an upstream plan has none.
// Tests may replace it.
var NewID = func() string { return uuid.NewString() }

// NormalizePlans decodes a plan listing in any of the accepted shapes.
// Absent fields default to empty or zero values.
func NormalizePlans(raw []byte) ([]model.Plan, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPayload
	}
	root := gjson.ParseBytes(raw)
	list := planArray(root)

	plans := make([]model.Plan, 0, len(list))
	for _, item := range list {
		if !item.IsObject() {
			continue
		}
		plans = append(plans, NormalizePlan(item))
	}
	return plans, nil
}

// NormalizePlan maps one upstream object onto the canonical shape.
func NormalizePlan(item gjson.Result) model.Plan {
	id := strings.TrimSpace(first(item, idKeys).String())
	if id == "" {
		id = NewID()
	}
	return model.Plan{
		ID:          id,
		Title:       strings.TrimSpace(first(item, titleKeys).String()),
		Monthly:     price(first(item, monthlyKeys)),
		Yearly:      price(first(item, yearlyKeys)),
		Description: strings.TrimSpace(first(item, descriptionKeys).String()),
		Features:    features(first(item, featureKeys)),
	}
}

func planArray(root gjson.Result) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	for _, path := range envelopes {
		if v := root.Get(path); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

func first(item gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func price(v gjson.Result) decimal.Decimal {
	switch v.Type {
	case gjson.Number:
		if d, err := decimal.NewFromString(v.Raw); err == nil {
			return d
		}
		return decimal.NewFromFloat(v.Num)
	case gjson.String:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v.Str), "$"))
		s = strings.ReplaceAll(s, ",", "")
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func features(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		v.ForEach(func(_, f gjson.Result) bool {
			var text string
			if f.IsObject() {
				text = first(f, []string{"name", "title", "text", "label"}).String()
			} else {
				text = f.String()
			}
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, text)
			}
			return true
		})
	case v.Type == gjson.String:
		for _, part := range strings.FieldsFunc(v.Str, func(r rune) bool { return r == ',' || r == '\n' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
