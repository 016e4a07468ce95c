// Package gateway is the client for the product backend. Pages only see the
// narrow interfaces in internal/model; every failure collapses to
// ErrRequestFailed so callers can show a generic message.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/paperlane/storefront/internal/catalog"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

// ErrRequestFailed marks any unsuccessful backend call.
var ErrRequestFailed = errors.New("gateway: request failed")

// Endpoints holds the backend paths relative to the base URL.
type Endpoints struct {
	Plans    string `mapstructure:"plans"`
	Template string `mapstructure:"template"`
	Agencies string `mapstructure:"agencies"`
	Signup   string `mapstructure:"signup"`
}

// DefaultEndpoints are used for any path left empty.
var DefaultEndpoints = Endpoints{
	Plans:    "/api/plans",
	Template: "/api/agency/template",
	Agencies: "/api/agency",
	Signup:   "/api/signup",
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Endpoints Endpoints
	Debug     bool
}

// Client talks to the backend over HTTP.
type Client struct {
	http      *resty.Client
	endpoints Endpoints
	lggr      logger.Logger
}

var _ model.Gateway = (*Client)(nil)

// New builds a Client. A nil logger discards output.
func New(cfg Config, lggr logger.Logger) *Client {
	if lggr == nil {
		lggr = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = model.DefaultRequestTimeout
	}
	lggr = lggr.Named("gateway")
	return &Client{
		http: resty.New().
			SetLogger(restyLogger{lggr}).
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetDebug(cfg.Debug).
			SetHeader("Accept", "application/json"),
		endpoints: withDefaults(cfg.Endpoints),
		lggr:      lggr,
	}
}

// restyLogger sends resty's own output, including debug dumps, to zap so
// nothing is written to the terminal.
type restyLogger struct {
	lggr logger.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.lggr.Errorw(fmt.Sprintf(format, v...)) }
func (l restyLogger) Warnf(format string, v ...any)  { l.lggr.Warnw(fmt.Sprintf(format, v...)) }
func (l restyLogger) Debugf(format string, v ...any) { l.lggr.Debugw(fmt.Sprintf(format, v...)) }

func withDefaults(e Endpoints) Endpoints {
	if e.Plans == "" {
		e.Plans = DefaultEndpoints.Plans
	}
	if e.Template == "" {
		e.Template = DefaultEndpoints.Template
	}
	if e.Agencies == "" {
		e.Agencies = DefaultEndpoints.Agencies
	}
	if e.Signup == "" {
		e.Signup = DefaultEndpoints.Signup
	}
	return e
}

// FetchPlans lists the pricing plans, normalized.
func (c *Client) FetchPlans(ctx context.Context) ([]model.Plan, error) {
	body, err := c.get(ctx, c.endpoints.Plans, "")
	if err != nil {
		return nil, err
	}
	plans, err := catalog.NormalizePlans(body)
	if err != nil {
		c.lggr.Warnw("plans payload rejected", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	c.lggr.Debugw("plans fetched", "count", len(plans))
	return plans, nil
}

// DownloadTemplate fetches the agency spreadsheet template. The token is sent
// as a bearer credential when present.
func (c *Client) DownloadTemplate(ctx context.Context, token string) ([]byte, error) {
	body, err := c.get(ctx, c.endpoints.Template, token, "application/octet-stream")
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		c.lggr.Warnw("template download returned no content")
		return nil, fmt.Errorf("%w: empty template", ErrRequestFailed)
	}
	return body, nil
}

// ListAgencies returns the agency records visible to token.
func (c *Client) ListAgencies(ctx context.Context, token string) ([]model.AgencyRecord, error) {
	body, err := c.get(ctx, c.endpoints.Agencies, token)
	if err != nil {
		return nil, err
	}
	records, err := decodeAgencies(body)
	if err != nil {
		c.lggr.Warnw("agency payload rejected", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return records, nil
}

// SubmitSignup posts a completed sign-up.
func (c *Client) SubmitSignup(ctx context.Context, req model.SignupRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.endpoints.Signup)
	return c.check(resp, err, c.endpoints.Signup)
}

func (c *Client) get(ctx context.Context, path, token string, accept ...string) ([]byte, error) {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	if len(accept) > 0 {
		r.SetHeader("Accept", accept[0])
	}
	resp, err := r.Get(path)
	if err := c.check(resp, err, path); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Client) check(resp *resty.Response, err error, path string) error {
	if err != nil {
		c.lggr.Warnw("request error", "path", path, "err", err)
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, path, err)
	}
	if resp.IsError() {
		c.lggr.Warnw("request rejected", "path", path, "status", resp.StatusCode())
		return fmt.Errorf("%w: %s: status %d", ErrRequestFailed, path, resp.StatusCode())
	}
	return nil
}
