package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paperlane/storefront/internal/agency"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBackend struct {
	plans    []model.Plan
	plansErr error
	agencies []model.AgencyRecord
	listErr  error
	token    string
}

func (b *fakeBackend) FetchPlans(context.Context) ([]model.Plan, error) {
	return b.plans, b.plansErr
}

func (b *fakeBackend) ListAgencies(_ context.Context, token string) ([]model.AgencyRecord, error) {
	b.token = token
	return b.agencies, b.listErr
}

func newTestServer(t *testing.T, backend *fakeBackend) (*Server, *agency.Store, http.Handler) {
	t.Helper()
	store, err := agency.NewStore("", logger.Test(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := NewServer(Options{Backend: backend, Store: store, Token: "tok", Logger: logger.Test(t)})
	srv.startTime = time.Now()
	return srv, store, srv.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func agencies(n int) []model.AgencyRecord {
	out := make([]model.AgencyRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.AgencyRecord{
			ID:     fmt.Sprintf("a%02d", i),
			Name:   fmt.Sprintf("Agency %02d", i),
			Region: []string{"North", "South"}[i%2],
			Email:  fmt.Sprintf("a%02d@example.com", i),
		})
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	_, store, h := newTestServer(t, &fakeBackend{})
	require.NoError(t, store.Replace(agencies(3)))

	w := get(t, h, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["agency_count"])
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	// Gin returns 404 unless HandleMethodNotAllowed is enabled.
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestPlansEndpoint_DecoratesPlans(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{plans: []model.Plan{
		{ID: "free", Title: "Free", Features: []string{}},
		{ID: "pro", Title: "Professional", Monthly: decimal.RequireFromString("12.5"), Yearly: decimal.RequireFromString("120"), Features: []string{"SSO"}},
	}})

	w := get(t, h, "/api/plans")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Count int `json:"count"`
		Plans []struct {
			ID             string `json:"id"`
			MonthlyDisplay string `json:"monthly_display"`
			YearlyDisplay  string `json:"yearly_display"`
			Disabled       bool   `json:"disabled"`
			Highlighted    bool   `json:"highlighted"`
		} `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.True(t, body.Plans[0].Disabled)
	assert.False(t, body.Plans[0].Highlighted)
	assert.Equal(t, "12.50", body.Plans[1].MonthlyDisplay)
	assert.Equal(t, "120.00", body.Plans[1].YearlyDisplay)
	assert.True(t, body.Plans[1].Highlighted)
}

func TestPlansEndpoint_UpstreamFailure(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{plansErr: errors.New("down")})

	w := get(t, h, "/api/plans")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "down")
}

func TestAgencyEndpoint_SearchAndPaging(t *testing.T) {
	_, store, h := newTestServer(t, &fakeBackend{})
	require.NoError(t, store.Replace(agencies(15)))

	w := get(t, h, "/api/agency?q=south&page=2&page_size=5")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res model.AgencyPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.PageCount)
	assert.Len(t, res.Rows, 2)
}

func TestAgencyEndpoint_EmptyStoreReturnsEmptyRows(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{})

	w := get(t, h, "/api/agency")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rows":[]`)
}

func TestAgencyEndpoint_BadPage(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{})

	w := get(t, h, "/api/agency?page=two")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAgencySync(t *testing.T) {
	backend := &fakeBackend{agencies: agencies(4)}
	_, store, h := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/api/agency/sync", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"synced":4}`, w.Body.String())
	assert.Equal(t, "tok", backend.token)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestAgencySync_UpstreamFailureKeepsData(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("down")}
	srv, store, _ := newTestServer(t, backend)
	require.NoError(t, store.Replace(agencies(2)))

	_, err := srv.Sync(context.Background())
	require.Error(t, err)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLegalIndex(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{})

	w := get(t, h, "/legal")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), `href="/legal/terms"`)
}

func TestLegalDocument(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{})

	w := get(t, h, "/legal/privacy")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>")
}

func TestPageTemplate_EscapesTitleKeepsBody(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, pageTemplate.Execute(&buf, pageData(`Terms <script>`, "<h1>Terms</h1>")))

	out := buf.String()
	assert.Contains(t, out, "<title>Terms &lt;script&gt;</title>")
	assert.Contains(t, out, "<h1>Terms</h1>")
}

func TestLegalDocument_Unknown(t *testing.T) {
	_, _, h := newTestServer(t, &fakeBackend{})

	for _, target := range []string{"/legal/missing", "/legal/terms.md"} {
		w := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestStartStop(t *testing.T) {
	store, err := agency.NewStore("", logger.Test(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := NewServer(Options{Addr: "127.0.0.1:0", Backend: &fakeBackend{}, Store: store, Logger: logger.Test(t)})
	require.NoError(t, srv.Start())
	require.NoError(t, srv.Stop())
}
