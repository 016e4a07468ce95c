// Package signup drives the multi-step sign-up form. Each step validates only
// its own fields; the request is complete once Review passes.
package signup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paperlane/storefront/internal/model"
)

// Step is one screen of the flow.
type Step int

const (
	StepAccount Step = iota
	StepOrganization
	StepPlan
	StepReview
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAccount:
		return "Account"
	case StepOrganization:
		return "Organization"
	case StepPlan:
		return "Plan"
	case StepReview:
		return "Review"
	case StepDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Steps lists the user-visible steps in order.
var Steps = []Step{StepAccount, StepOrganization, StepPlan, StepReview}

// stepFields names the SignupRequest fields each step owns.
var stepFields = map[Step][]string{
	StepAccount:      {"Email", "Password", "FullName"},
	StepOrganization: {"Company", "TeamSize"},
	StepPlan:         {"PlanID"},
	StepReview:       {"AcceptTerms"},
}

// FieldErrors maps a field name to a human message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range orderedFields() {
		if msg, ok := fe[f]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

// ErrFinished is returned when Next is called after the last step.
var ErrFinished = errors.New("signup: flow already finished")

// Flow holds the in-progress request and current step.
type Flow struct {
	Request model.SignupRequest
	step    Step
	v       *validator.Validate
}

// NewFlow starts at the account step, pre-selecting planID when given.
func NewFlow(planID string, yearly bool) *Flow {
	return &Flow{
		Request: model.SignupRequest{PlanID: planID, Yearly: yearly},
		v:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Step returns the current step.
func (f *Flow) Step() Step { return f.step }

// Index returns the 1-based position of the current step among Steps.
func (f *Flow) Index() int { return int(min(f.step, StepReview)) + 1 }

// Validate checks the fields owned by the current step.
func (f *Flow) Validate() error {
	fields, ok := stepFields[f.step]
	if !ok {
		return nil
	}
	f.normalize()
	err := f.v.StructPartial(f.Request, fields...)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

// Next validates the current step and advances.
func (f *Flow) Next() error {
	if f.step >= StepDone {
		return ErrFinished
	}
	if err := f.Validate(); err != nil {
		return err
	}
	f.step++
	return nil
}

// Back returns to the previous step. It is a no-op on the first step and
// once the flow is done.
func (f *Flow) Back() {
	if f.step > StepAccount && f.step < StepDone {
		f.step--
	}
}

// Ready reports whether every step has validated.
func (f *Flow) Ready() bool { return f.step == StepDone }

// Complete validates every step at once; used before submission.
func (f *Flow) Complete() error {
	f.normalize()
	if err := f.v.Struct(f.Request); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := FieldErrors{}
			for _, fe := range verrs {
				out[fe.Field()] = message(fe)
			}
			return out
		}
		return err
	}
	return nil
}

func (f *Flow) normalize() {
	f.Request.Email = strings.TrimSpace(strings.ToLower(f.Request.Email))
	f.Request.FullName = strings.TrimSpace(f.Request.FullName)
	f.Request.Company = strings.TrimSpace(f.Request.Company)
}

func orderedFields() []string {
	var out []string
	for _, s := range Steps {
		out = append(out, stepFields[s]...)
	}
	return out
}

var labels = map[string]string{
	"Email":       "Email",
	"Password":    "Password",
	"FullName":    "Full name",
	"Company":     "Company",
	"TeamSize":    "Team size",
	"PlanID":      "Plan",
	"AcceptTerms": "Terms",
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		if fe.Field() == "PlanID" {
			return "Choose a plan"
		}
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		if fe.Field() == "TeamSize" {
			return fmt.Sprintf("%s must be at least %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		if fe.Field() == "TeamSize" {
			return fmt.Sprintf("%s must be at most %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "eq":
		return "You must accept the terms to continue"
	default:
		return label + " is invalid"
	}
}
