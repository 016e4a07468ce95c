package model

import "time"

// Shared defaults used by both the TUI and the preview server.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultToastTTL       = 4 * time.Second
	DefaultPageSize       = 10
	MaxPageSize           = 100
	DefaultSkin           = "default"
	DefaultAPIPort        = 3000

	// PlaceholderEmail is shown when no session email is stored.
	PlaceholderEmail = "guest@example.com"

	// TemplateFileName is the fixed name the agency template is saved under.
	TemplateFileName = "template.xlsx"
)
