package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"barkboard/internal/board"
	"barkboard/internal/config"
	"barkboard/internal/grants"
	"barkboard/internal/portal"
	"barkboard/internal/view"
	"barkboard/internal/wallet"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const pageCookie = "barkboard_page"

type Server struct {
	cfg         *config.AppConfig
	board       *board.Client
	renderer    *view.Renderer
	pages       *pageStore
	metrics     *metricsRegistry
	log         *zap.Logger
	router      chi.Router
	httpServer  *http.Server
	rpcHealthFn func(context.Context) error
	dbHealthFn  func(context.Context) error
}

// NewServer wires the page and API routes. provider and store are only
// inspected for health checks and may be nil.
func NewServer(cfg *config.AppConfig, client *board.Client, provider wallet.Provider, store grants.Store, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "parse page template")
	}
	pages, err := newPageStore(cfg.Service.PageTTL)
	if err != nil {
		return nil, errors.Wrap(err, "page store")
	}

	metrics := newMetricsRegistry()

	s := &Server{
		cfg:      cfg,
		board:    client,
		renderer: renderer,
		pages:    pages,
		metrics:  metrics,
		log:      log,
	}

	if checker, ok := provider.(wallet.HealthChecker); ok {
		s.rpcHealthFn = checker.Ping
	}
	if checker, ok := store.(interface{ Ping(context.Context) error }); ok {
		s.dbHealthFn = checker.Ping
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/connect", s.handleConnect)
	r.Post("/bark", s.handleSubmit(portal.Bark))
	r.Post("/meow", s.handleSubmit(portal.Meow))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/health", s.handleHealth)
		r.Handle("/metrics", metrics.handler())
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Service.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	s.log.Info("board listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if closeErr := s.pages.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// handleIndex is a page load: every load starts a new page session, so a
// reload is the only way to drop the connected account.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := s.board.CheckExistingSession(r.Context(), board.NewState())
	if st.Connected() {
		s.metrics.incPageLoad("restored")
	} else {
		s.metrics.incPageLoad("none")
	}

	p, err := s.openPage(w, st)
	if err != nil {
		s.log.Error("open page session", zap.Error(err))
		http.Error(w, "failed to open page", http.StatusInternalServerError)
		return
	}
	s.render(w, p)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pageFor(w, r)
	if !ok {
		return
	}
	draft := r.FormValue("message")
	p.update(func(st *board.State) { st.Draft = draft })

	conn, err := s.board.Connect(r.Context())
	switch {
	case err == nil:
		p.update(func(st *board.State) { *st = conn.Apply(*st) })
		s.metrics.incConnect("connected")
	case errors.Is(err, board.ErrNoProvider):
		p.update(func(st *board.State) { st.Alert = board.MissingProviderAlert })
		s.metrics.incConnect("no_provider")
	default:
		s.metrics.incConnect("failed")
	}
	s.render(w, p)
}

func (s *Server) handleSubmit(kind portal.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.pageFor(w, r)
		if !ok {
			return
		}
		draft := r.FormValue("message")
		p.update(func(st *board.State) { st.Draft = draft })

		sub, err := s.board.Send(r.Context(), kind, draft)
		switch {
		case err == nil:
			p.update(func(st *board.State) { *st = sub.Apply(*st) })
			s.metrics.incSubmission(kind.String(), "confirmed")
		case errors.Is(err, board.ErrNoProvider):
			s.metrics.incSubmission(kind.String(), "no_provider")
		default:
			s.metrics.incSubmission(kind.String(), "failed")
		}
		s.render(w, p)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	p, ok := s.existingPage(r)
	if !ok {
		http.Error(w, "no page session", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p.snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overallHealthy := true

	rpcInfo := struct {
		Configured bool    `json:"configured"`
		Connected  bool    `json:"connected"`
		LatencyMs  float64 `json:"latency_ms"`
		Error      string  `json:"error,omitempty"`
	}{Configured: s.board.HasProvider()}

	if s.rpcHealthFn != nil {
		start := time.Now()
		rpcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.rpcHealthFn(rpcCtx); err != nil {
			rpcInfo.Error = err.Error()
			overallHealthy = false
		} else {
			rpcInfo.Connected = true
			rpcInfo.LatencyMs = float64(time.Since(start).Microseconds()) / 1000.0
		}
	} else {
		rpcInfo.Connected = rpcInfo.Configured
	}

	dbInfo := struct {
		Connected bool   `json:"connected"`
		Error     string `json:"error,omitempty"`
	}{Connected: true}

	if s.dbHealthFn != nil {
		dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.dbHealthFn(dbCtx); err != nil {
			dbInfo.Connected = false
			dbInfo.Error = err.Error()
			overallHealthy = false
		}
	}

	pages := s.pages.count()
	s.metrics.setPageSessions(pages)

	status := "healthy"
	if !overallHealthy {
		status = "degraded"
	}

	resp := struct {
		Status       string      `json:"status"`
		RPC          interface{} `json:"rpc"`
		Grants       interface{} `json:"grants"`
		PageSessions int         `json:"page_sessions"`
	}{
		Status:       status,
		RPC:          rpcInfo,
		Grants:       dbInfo,
		PageSessions: pages,
	}

	w.Header().Set("Content-Type", "application/json")
	if !overallHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) openPage(w http.ResponseWriter, st board.State) (*page, error) {
	id, p, err := s.pages.open(st)
	if err != nil {
		return nil, err
	}
	s.metrics.setPageSessions(s.pages.count())
	http.SetCookie(w, &http.Cookie{
		Name:     pageCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return p, nil
}

func (s *Server) existingPage(r *http.Request) (*page, bool) {
	c, err := r.Cookie(pageCookie)
	if err != nil {
		return nil, false
	}
	return s.pages.get(c.Value)
}

// pageFor finds the caller's page. An expired or unknown page behaves like a
// fresh load without the silent session check.
func (s *Server) pageFor(w http.ResponseWriter, r *http.Request) (*page, bool) {
	if p, ok := s.existingPage(r); ok {
		return p, true
	}
	p, err := s.openPage(w, board.NewState())
	if err != nil {
		s.log.Error("open page session", zap.Error(err))
		http.Error(w, "failed to open page", http.StatusInternalServerError)
		return nil, false
	}
	return p, true
}

func (s *Server) render(w http.ResponseWriter, p *page) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, view.Page(p.take())); err != nil {
		s.log.Error("render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}
