package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwulff/gauge-go/internal/gauge"
)

// Metrics holds the collectors the server reports at /metrics.
type Metrics struct {
	Renders        *prometheus.CounterVec
	RenderCacheHit *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
}

// NewMetrics registers the server collectors with reg. The memo counters read
// the memo's own hit and miss totals at scrape time.
func NewMetrics(reg prometheus.Registerer, memo *gauge.Memo) *Metrics {
	f := promauto.With(reg)

	m := &Metrics{
		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gauge_renders_total",
			Help: "Rendered gauge outputs by format",
		}, []string{"format"}),
		RenderCacheHit: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gauge_render_cache_hits_total",
			Help: "Renders served from the render cache by format",
		}, []string{"format"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gauge_render_duration_seconds",
			Help:    "Time spent producing a rendered gauge",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"format"}),
	}

	if memo != nil {
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "gauge_layout_memo_hits_total",
			Help: "Layouts served from the in-process memo",
		}, func() float64 {
			hits, _ := memo.Stats()
			return float64(hits)
		})
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "gauge_layout_memo_misses_total",
			Help: "Layouts computed on a memo miss",
		}, func() float64 {
			_, misses := memo.Stats()
			return float64(misses)
		})
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gauge_layout_memo_entries",
			Help: "Layouts currently held by the memo",
		}, func() float64 {
			return float64(memo.Len())
		})
	}
	return m
}
