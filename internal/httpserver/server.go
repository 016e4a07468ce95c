package httpserver

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paperlane/storefront/internal/catalog"
	"github.com/paperlane/storefront/internal/legal"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

// Backend is the part of the gateway the preview server proxies.
type Backend interface {
	model.PlanSource
	model.AgencySource
}

// Options configures a Server.
type Options struct {
	Addr    string
	Backend Backend
	Store   model.AgencyQuerier
	Token   string
	Timeout time.Duration
	Logger  logger.Logger
}

// Server is the preview server: legal pages as HTML plus normalized plan and
// agency data as JSON.
type Server struct {
	addr      string
	backend   Backend
	store     model.AgencyQuerier
	token     string
	timeout   time.Duration
	lggr      logger.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new preview server.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = fmt.Sprintf("0.0.0.0:%d", model.DefaultAPIPort)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = model.DefaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    opts.Addr,
		backend: opts.Backend,
		store:   opts.Store,
		token:   opts.Token,
		timeout: opts.Timeout,
		lggr:    opts.Logger.Named("http"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/plans", s.handlePlans)
	r.GET("/api/agency", s.handleAgencies)
	r.POST("/api/agency/sync", s.handleAgencySync)
	r.GET("/legal", s.handleLegalIndex)
	r.GET("/legal/:slug", s.handleLegalDoc)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.lggr.Infow("preview server listening", "addr", listener.Addr().String())

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.lggr.Errorw("serve failed", "err", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Sync pulls the agency list from the backend into the local store and
// returns the number of records.
func (s *Server) Sync(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	records, err := s.backend.ListAgencies(ctx, s.token)
	if err != nil {
		return 0, err
	}
	if err := s.store.Replace(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Server) handleHealth(c *gin.Context) {
	count, err := s.store.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"uptime":       time.Since(s.startTime).String(),
		"agency_count": count,
	})
}

func (s *Server) handlePlans(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	plans, err := s.backend.FetchPlans(ctx)
	if err != nil {
		s.lggr.Warnw("plans upstream failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load plans"})
		return
	}

	views := catalog.Views(plans)
	c.JSON(http.StatusOK, gin.H{
		"plans": views,
		"count": len(views),
	})
}

func (s *Server) handleAgencies(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return
	}
	size, err := intQuery(c, "page_size", model.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_size must be an integer"})
		return
	}

	res, err := s.store.Search(c.Query("q"), page, size)
	if err != nil {
		s.lggr.Warnw("agency search failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search agencies"})
		return
	}
	if res.Rows == nil {
		res.Rows = []model.AgencyRecord{}
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleAgencySync(c *gin.Context) {
	n, err := s.Sync(c.Request.Context())
	if err != nil {
		s.lggr.Warnw("agency sync failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to sync agencies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": n})
}

func (s *Server) handleLegalIndex(c *gin.Context) {
	body, err := legal.IndexHTML("/legal")
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to render index")
		return
	}
	c.HTML(http.StatusOK, "page", pageData("Legal", body))
}

func (s *Server) handleLegalDoc(c *gin.Context) {
	slug := c.Param("slug")
	doc, err := legal.Get(slug)
	if errors.Is(err, legal.ErrNotFound) {
		c.HTML(http.StatusNotFound, "page", pageData("Not found", "<h1>Not found</h1>"))
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load document")
		return
	}
	body, err := legal.HTML(slug)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to render document")
		return
	}
	c.HTML(http.StatusOK, "page", pageData(doc.Title, body))
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head><body>
{{.Body}}</body></html>
`))

// pageData wraps markdown rendered by goldmark, which escapes raw HTML, for
// pageTemplate.
func pageData(title, body string) gin.H {
	return gin.H{"Title": title, "Body": template.HTML(body)}
}
