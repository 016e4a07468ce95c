package model

import "context"

// PlanSource lists the pricing plans.
type PlanSource interface {
	FetchPlans(ctx context.Context) ([]Plan, error)
}

// TemplateSource downloads the agency spreadsheet template.
type TemplateSource interface {
	DownloadTemplate(ctx context.Context, token string) ([]byte, error)
}

// AgencySource lists agency records from the backend.
type AgencySource interface {
	ListAgencies(ctx context.Context, token string) ([]AgencyRecord, error)
}

// SignupSubmitter submits a completed sign-up.
type SignupSubmitter interface {
	SubmitSignup(ctx context.Context, req SignupRequest) error
}

// Gateway is the full set of backend calls used by the client.
type Gateway interface {
	PlanSource
	TemplateSource
	AgencySource
	SignupSubmitter
}

// AgencyQuerier provides search and paging over the local agency dataset.
type AgencyQuerier interface {
	Replace(records []AgencyRecord) error
	Search(query string, page, pageSize int) (AgencyPage, error)
	Count() (int, error)
}
