package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/render"
	"github.com/jwulff/gauge-go/internal/storage"
	"github.com/jwulff/gauge-go/internal/theme"
)

// MaxRenderSize caps the width and height a render may request.
const MaxRenderSize = 2048

// DefaultHistoryWindow is how far back GET .../readings looks without ?since.
const DefaultHistoryWindow = 24 * time.Hour

// PanelRequest is the body for POST and PUT on panels.
type PanelRequest struct {
	Title   string              `json:"title"`
	Theme   string              `json:"theme,omitempty"`
	Options domain.GaugeOptions `json:"options"`
	Field   domain.FieldConfig  `json:"field"`
}

// ReadingsRequest is the body for POST .../readings. Either a single value or
// a batch of readings; readings without a timestamp are stamped now.
type ReadingsRequest struct {
	Value    *float64         `json:"value,omitempty"`
	Readings []domain.Reading `json:"readings,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Panels

func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	panels, err := s.store.ListPanels(r.Context())
	if err != nil {
		s.internalError(w, "failed to list panels", err)
		return
	}
	if panels == nil {
		panels = []*domain.Panel{}
	}
	writeData(w, http.StatusOK, panels)
}

func (s *Server) handleCreatePanel(w http.ResponseWriter, r *http.Request) {
	var req PanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	panel := domain.NewPanel(uuid.NewString(), req.Title)
	panel.Theme = req.Theme
	panel.Options = req.Options
	panel.Field = req.Field
	panel.ApplyDefaults()
	if err := s.validatePanel(panel); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SavePanel(r.Context(), panel); err != nil {
		s.internalError(w, "failed to save panel", err)
		return
	}
	s.logger.Info("panel created", zap.String("panel", panel.ID), zap.String("title", panel.Title))
	writeData(w, http.StatusCreated, panel)
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.loadPanel(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, panel)
}

func (s *Server) handleUpdatePanel(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.loadPanel(w, r)
	if !ok {
		return
	}

	var req PanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	panel.Title = req.Title
	panel.Theme = req.Theme
	panel.Options = req.Options
	panel.Field = req.Field
	panel.ApplyDefaults()
	panel.Touch()
	if err := s.validatePanel(panel); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SavePanel(r.Context(), panel); err != nil {
		s.internalError(w, "failed to save panel", err)
		return
	}
	s.invalidatePanel(r.Context(), panel.ID)
	writeData(w, http.StatusOK, panel)
}

func (s *Server) handleDeletePanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeletePanel(r.Context(), id); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, "failed to delete panel", err)
		return
	}
	s.invalidatePanel(r.Context(), id)
	s.logger.Info("panel deleted", zap.String("panel", id))
	w.WriteHeader(http.StatusNoContent)
}

// Readings

func (s *Server) handleAddReadings(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.loadPanel(w, r)
	if !ok {
		return
	}

	var req ReadingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	readings := req.Readings
	if req.Value != nil {
		readings = append(readings, domain.NewReading(*req.Value))
	}
	if len(readings) == 0 {
		writeError(w, http.StatusBadRequest, "no readings in request")
		return
	}
	now := time.Now()
	for i := range readings {
		if math.IsNaN(readings[i].Value) || math.IsInf(readings[i].Value, 0) {
			writeError(w, http.StatusBadRequest, "reading values must be finite")
			return
		}
		if readings[i].Timestamp.IsZero() {
			readings[i].Timestamp = now
		}
	}

	if err := s.store.StoreReadings(r.Context(), panel.ID, readings); err != nil {
		s.internalError(w, "failed to store readings", err)
		return
	}
	writeData(w, http.StatusCreated, map[string]int{"stored": len(readings)})
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.loadPanel(w, r)
	if !ok {
		return
	}

	window := DefaultHistoryWindow
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid since %q", v))
			return
		}
		window = d
	}

	now := time.Now()
	readings, err := s.store.QueryHistory(r.Context(), panel.ID, now.Add(-window), now)
	if err != nil {
		s.internalError(w, "failed to query readings", err)
		return
	}
	if readings == nil {
		readings = []domain.Reading{}
	}
	writeData(w, http.StatusOK, readings)
}

// Layout and renders

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, _, _, ok := s.prepareLayout(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, l)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.serveRender(w, r, "svg", "image/svg+xml", func(l gauge.Layout) ([]byte, error) {
		var buf bytes.Buffer
		if err := render.RenderSVG(&buf, l); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	s.serveRender(w, r, "png", "image/png", func(l gauge.Layout) ([]byte, error) {
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, render.RenderFrame(l)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// serveRender answers from the render cache or renders, caches and answers.
func (s *Server) serveRender(w http.ResponseWriter, r *http.Request, format, contentType string, fn func(gauge.Layout) ([]byte, error)) {
	l, key, panel, ok := s.prepareLayout(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	cacheKey := strconv.FormatUint(key, 16)

	if cached, err := s.store.GetCachedRender(ctx, cacheKey, format); err == nil {
		s.metrics.RenderCacheHit.WithLabelValues(format).Inc()
		writeRender(w, contentType, cached.Data)
		return
	} else if !storage.IsNotFound(err) {
		s.logger.Warn("failed to read render cache", zap.String("panel", panel.ID), zap.Error(err))
	}

	start := time.Now()
	data, err := fn(l)
	if err != nil {
		s.internalError(w, "failed to render "+format, err)
		return
	}
	s.metrics.Renders.WithLabelValues(format).Inc()
	s.metrics.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	err = s.store.CacheRender(ctx, &storage.CachedRender{
		Key:         cacheKey,
		PanelID:     panel.ID,
		Format:      format,
		Data:        data,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to cache render", zap.String("panel", panel.ID), zap.Error(err))
	}
	writeRender(w, contentType, data)
}

func writeRender(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// prepareLayout loads the panel, resolves value, theme and size from the
// query string and returns the memoized layout. On failure it has already
// written the response.
func (s *Server) prepareLayout(w http.ResponseWriter, r *http.Request) (gauge.Layout, uint64, *domain.Panel, bool) {
	panel, ok := s.loadPanel(w, r)
	if !ok {
		return gauge.Layout{}, 0, nil, false
	}
	q := r.URL.Query()

	th, err := s.themeFor(q.Get("theme"), panel.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return gauge.Layout{}, 0, nil, false
	}

	value, err := s.valueFor(r, panel, q.Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return gauge.Layout{}, 0, nil, false
	}

	opts := panel.Options
	for _, dim := range []struct {
		name string
		dst  *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		v := q.Get(dim.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > MaxRenderSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s %q, want 1..%d", dim.name, v, MaxRenderSize))
			return gauge.Layout{}, 0, nil, false
		}
		*dim.dst = float64(n)
	}

	fd := gauge.DisplayValue(panel.Field, value, th)
	l, key, hit := s.memo.Layout(opts, fd, th)
	s.rememberKey(panel.ID, key)
	s.logger.Debug("layout",
		zap.String("panel", panel.ID),
		zap.Float64("value", value),
		zap.Bool("memo_hit", hit))
	return l, key, panel, true
}

// valueFor picks the value to display: ?value=, else the latest reading,
// else the bottom of the panel's range.
func (s *Server) valueFor(r *http.Request, panel *domain.Panel, raw string) (float64, error) {
	if raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid value %q", raw)
		}
		return v, nil
	}
	latest, err := s.store.LatestReading(r.Context(), panel.ID)
	if err == nil {
		return latest.Value, nil
	}
	if !storage.IsNotFound(err) {
		s.logger.Warn("failed to load latest reading", zap.String("panel", panel.ID), zap.Error(err))
	}
	return panel.Field.Min, nil
}

// themeFor resolves the query theme, then the panel theme, then the server
// default. Named themes inherit the server's contrast settings.
func (s *Server) themeFor(query, panelTheme string) (*theme.Theme, error) {
	name := query
	if name == "" {
		name = panelTheme
	}
	if name == "" || name == s.theme.Name {
		return s.theme, nil
	}
	th, err := theme.ByName(name)
	if err != nil {
		return nil, err
	}
	return th.WithContrast(s.theme.Contrast), nil
}

func (s *Server) validatePanel(panel *domain.Panel) error {
	if err := panel.Validate(); err != nil {
		return err
	}
	if panel.Theme != "" {
		if _, err := theme.ByName(panel.Theme); err != nil {
			return err
		}
	}
	return nil
}

// loadPanel fetches the panel named by the {id} URL parameter.
func (s *Server) loadPanel(w http.ResponseWriter, r *http.Request) (*domain.Panel, bool) {
	id := chi.URLParam(r, "id")
	panel, err := s.store.GetPanel(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		s.internalError(w, "failed to load panel", err)
		return nil, false
	}
	return panel, true
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}
