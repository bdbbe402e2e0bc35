package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/storage/sqlite"
)

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func testServer(t *testing.T) (*Server, *gauge.Memo) {
	t.Helper()
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	memo, err := gauge.NewMemo(16, nil)
	require.NoError(t, err)

	srv, err := NewServer(Options{Store: store, Memo: memo})
	require.NoError(t, err)
	return srv, memo
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func createPanel(t *testing.T, srv *Server, req PanelRequest) *domain.Panel {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/v1/panels", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var panel domain.Panel
	decode(t, rec, &panel)
	return &panel
}

func TestNewServerRequiresStore(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec, nil)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Data))
}

func TestCreateAndListPanels(t *testing.T) {
	srv, _ := testServer(t)

	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})
	assert.NotEmpty(t, panel.ID)
	assert.Equal(t, domain.ShapeGauge, panel.Options.Shape)
	assert.Equal(t, 100.0, panel.Field.Max)

	rec := do(t, srv, http.MethodGet, "/api/v1/panels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var panels []domain.Panel
	decode(t, rec, &panels)
	require.Len(t, panels, 1)
	assert.Equal(t, panel.ID, panels[0].ID)
}

func TestListPanelsEmpty(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/panels", nil)
	resp := decode(t, rec, nil)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestCreatePanelValidation(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/panels", PanelRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", decode(t, rec, nil).Error)

	rec = do(t, srv, http.MethodPost, "/api/v1/panels", PanelRequest{Title: "CPU", Theme: "sepia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/panels", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPanelNotFound(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/panels/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode(t, rec, nil).Success)
}

func TestLayout(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU", Field: domain.FieldConfig{Unit: "%"}})

	rec := do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID+"/layout?value=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var l gauge.Layout
	decode(t, rec, &l)

	assert.Equal(t, 50.0, l.Field.Value)
	assert.InDelta(t, 0.5, l.Field.Percent, 1e-9)
	assert.Equal(t, "dark", l.Theme)
	assert.NotEmpty(t, l.TrackPath)
	assert.NotEmpty(t, l.ValuePath)
}

func TestLayoutQueryOverrides(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})

	rec := do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID+"/layout?value=10&theme=light&width=64&height=64", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var l gauge.Layout
	decode(t, rec, &l)
	assert.Equal(t, "light", l.Theme)
	assert.Equal(t, 64.0, l.Options.Width)

	for _, q := range []string{"value=abc", "theme=sepia", "width=0", "height=99999"} {
		rec = do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID+"/layout?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestLayoutUsesLatestReading(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})
	base := "/api/v1/panels/" + panel.ID

	// no readings yet: the bottom of the range
	var l gauge.Layout
	decode(t, do(t, srv, http.MethodGet, base+"/layout", nil), &l)
	assert.Equal(t, 0.0, l.Field.Value)

	value := 75.0
	rec := do(t, srv, http.MethodPost, base+"/readings", ReadingsRequest{Value: &value})
	require.Equal(t, http.StatusCreated, rec.Code)

	decode(t, do(t, srv, http.MethodGet, base+"/layout", nil), &l)
	assert.Equal(t, 75.0, l.Field.Value)

	rec = do(t, srv, http.MethodGet, base+"/readings?since=1h", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var readings []domain.Reading
	decode(t, rec, &readings)
	require.Len(t, readings, 1)
	assert.Equal(t, 75.0, readings[0].Value)
}

func TestAddReadingsValidation(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})

	rec := do(t, srv, http.MethodPost, "/api/v1/panels/"+panel.ID+"/readings", ReadingsRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID+"/readings?since=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderSVGCached(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})
	path := "/api/v1/panels/" + panel.ID + "/render.svg?value=42"

	first := do(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "image/svg+xml", first.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(first.Body.String(), "<?xml"))
	assert.Contains(t, first.Body.String(), "<title>42</title>")

	second := do(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	metrics := do(t, srv, http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, metrics, `gauge_renders_total{format="svg"} 1`)
	assert.Contains(t, metrics, `gauge_render_cache_hits_total{format="svg"} 1`)
	assert.Contains(t, metrics, "gauge_layout_memo_hits_total 1")
	assert.Contains(t, metrics, "gauge_layout_memo_misses_total 1")
}

func TestRenderPNG(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})

	rec := do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID+"/render.png?value=42&width=64&height=64", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestUpdatePanelInvalidates(t *testing.T) {
	srv, memo := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})
	base := "/api/v1/panels/" + panel.ID

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, base+"/render.svg?value=10", nil).Code)
	require.Equal(t, 1, memo.Len())

	rec := do(t, srv, http.MethodPut, base, PanelRequest{
		Title:   "CPU (all cores)",
		Options: domain.GaugeOptions{Shape: domain.ShapeCircle},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Panel
	decode(t, rec, &updated)
	assert.Equal(t, "CPU (all cores)", updated.Title)
	assert.Equal(t, domain.ShapeCircle, updated.Options.Shape)
	assert.Equal(t, 0, memo.Len())

	// the update already dropped the cached svg
	n, err := srv.store.InvalidateRenders(context.Background(), panel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestPanelKeysBoundedByMemo(t *testing.T) {
	srv, memo := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})
	other := createPanel(t, srv, PanelRequest{
		Title:   "Memory",
		Options: domain.GaugeOptions{Shape: domain.ShapeCircle},
	})

	for v := 0; v < 100; v++ {
		q := "/layout?value=" + strconv.Itoa(v)
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID+q, nil).Code)
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/panels/"+other.ID+q, nil).Code)
	}
	assert.Equal(t, 16, memo.Len())

	srv.mu.Lock()
	tracked := len(srv.panelKeys[panel.ID]) + len(srv.panelKeys[other.ID])
	reverse := len(srv.keyPanels)
	srv.mu.Unlock()
	assert.Equal(t, memo.Len(), tracked)
	assert.Equal(t, memo.Len(), reverse)

	rec := do(t, srv, http.MethodPut, "/api/v1/panels/"+panel.ID, PanelRequest{Title: "CPU"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, memo.Len())

	srv.mu.Lock()
	assert.Empty(t, srv.panelKeys[panel.ID])
	assert.Len(t, srv.panelKeys[other.ID], 8)
	assert.Len(t, srv.keyPanels, 8)
	srv.mu.Unlock()
}

func TestDeletePanel(t *testing.T) {
	srv, _ := testServer(t)
	panel := createPanel(t, srv, PanelRequest{Title: "CPU"})

	rec := do(t, srv, http.MethodDelete, "/api/v1/panels/"+panel.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/panels/"+panel.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/v1/panels/"+panel.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
