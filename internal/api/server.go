// Package api provides the HTTP API for stored gauge panels: panel CRUD,
// reading ingestion, computed layouts and SVG/PNG renders.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/storage"
	"github.com/jwulff/gauge-go/internal/theme"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// DefaultTimeout bounds reads, writes and shutdown.
const DefaultTimeout = 30 * time.Second

// Config holds the HTTP server settings.
type Config struct {
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

// ApplyDefaults applies default values to zero fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Options are the dependencies of a Server.
type Options struct {
	Store    storage.Store
	Memo     *gauge.Memo
	Theme    *theme.Theme         // default theme, also the source of contrast settings
	Logger   *zap.Logger          // nil disables logging
	Registry *prometheus.Registry // nil creates a private registry
}

// Server is the HTTP API server.
type Server struct {
	store   storage.Store
	memo    *gauge.Memo
	theme   *theme.Theme
	logger  *zap.Logger
	reg     *prometheus.Registry
	metrics *Metrics
	router  chi.Router

	mu        sync.Mutex
	panelKeys map[string]map[uint64]struct{} // memo keys served per panel
	keyPanels map[uint64]map[string]struct{} // reverse of panelKeys
}

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("api: store is required")
	}
	if opts.Memo == nil {
		memo, err := gauge.NewMemo(gauge.DefaultMemoSize, nil)
		if err != nil {
			return nil, err
		}
		opts.Memo = memo
	}
	if opts.Theme == nil {
		opts.Theme = theme.Dark()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		store:     opts.Store,
		memo:      opts.Memo,
		theme:     opts.Theme,
		logger:    opts.Logger.Named("api"),
		reg:       opts.Registry,
		metrics:   NewMetrics(opts.Registry, opts.Memo),
		panelKeys: make(map[string]map[uint64]struct{}),
		keyPanels: make(map[uint64]map[string]struct{}),
	}
	opts.Memo.OnEvict(s.forgetKey)
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg Config) error {
	cfg.ApplyDefaults()
	httpSrv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  2 * cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/panels", s.handleListPanels)
		r.Post("/panels", s.handleCreatePanel)

		r.Route("/panels/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPanel)
			r.Put("/", s.handleUpdatePanel)
			r.Delete("/", s.handleDeletePanel)

			r.Get("/readings", s.handleListReadings)
			r.Post("/readings", s.handleAddReadings)

			r.Get("/layout", s.handleLayout)
			r.Get("/render.svg", s.handleRenderSVG)
			r.Get("/render.png", s.handleRenderPNG)
		})
	})

	return r
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// rememberKey records that a memo key was served for a panel. Keys the memo
// no longer holds are skipped, so the index never outgrows the memo.
func (s *Server) rememberKey(panelID string, key uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.memo.Contains(key) {
		return
	}
	keys, ok := s.panelKeys[panelID]
	if !ok {
		keys = make(map[uint64]struct{})
		s.panelKeys[panelID] = keys
	}
	keys[key] = struct{}{}

	panels, ok := s.keyPanels[key]
	if !ok {
		panels = make(map[string]struct{})
		s.keyPanels[key] = panels
	}
	panels[panelID] = struct{}{}
}

// forgetKey drops a key that left the memo from every panel that served it.
func (s *Server) forgetKey(key uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for panelID := range s.keyPanels[key] {
		keys := s.panelKeys[panelID]
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.panelKeys, panelID)
		}
	}
	delete(s.keyPanels, key)
}

// invalidatePanel drops the memo entries and cached renders of a panel.
func (s *Server) invalidatePanel(ctx context.Context, panelID string) {
	s.mu.Lock()
	keys := make([]uint64, 0, len(s.panelKeys[panelID]))
	for key := range s.panelKeys[panelID] {
		keys = append(keys, key)
	}
	delete(s.panelKeys, panelID)
	s.mu.Unlock()

	// forgetKey clears the reverse index as each entry leaves the memo
	for _, key := range keys {
		s.memo.Invalidate(key)
	}
	n, err := s.store.InvalidateRenders(ctx, panelID)
	if err != nil {
		s.logger.Warn("failed to invalidate renders", zap.String("panel", panelID), zap.Error(err))
		return
	}
	s.logger.Debug("panel invalidated",
		zap.String("panel", panelID),
		zap.Int("layouts", len(keys)),
		zap.Int64("renders", n))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
	})
}
