package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is one normalized pricing tier. Values are never mutated after
// normalization; pages copy the slice they receive.
type Plan struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Monthly     decimal.Decimal `json:"monthly"`
	Yearly      decimal.Decimal `json:"yearly"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
}

// AgencyRecord is one row of the agency data table.
type AgencyRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Templates int       `json:"templates"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgencyPage is one page of agency search results.
type AgencyPage struct {
	Rows      []AgencyRecord `json:"rows"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageSize  int            `json:"page_size"`
	PageCount int            `json:"page_count"`
}

// SignupRequest is the payload submitted at the end of the sign-up flow.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	FullName    string `json:"full_name" validate:"required,max=120"`
	Company     string `json:"company" validate:"required,max=120"`
	TeamSize    int    `json:"team_size" validate:"required,min=1,max=10000"`
	PlanID      string `json:"plan_id" validate:"required"`
	Yearly      bool   `json:"yearly"`
	AcceptTerms bool   `json:"accept_terms" validate:"eq=true"`
}

// Session holds the client-local credential values read at render time.
type Session struct {
	Token string `yaml:"token"`
	Email string `yaml:"email"`
}
