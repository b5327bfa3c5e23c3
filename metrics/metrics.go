// Package metrics holds the Prometheus instruments of pubindex. All
// collectors are registered with the global registry; the server exposes
// them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PostsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubindex_posts_loaded",
			Help: "Number of posts in the current corpus snapshot, drafts included.",
		})

	ReloadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubindex_reload_total",
			Help: "Corpus reloads by result (ok, error).",
		}, []string{"result"})

	ImageRenderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubindex_image_render_total",
			Help: "Preview image renders by kind (site, post) and result (ok, error).",
		}, []string{"kind", "result"})

	ImageRenderSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pubindex_image_render_seconds",
			Help:    "Time spent rendering one preview image.",
			Buckets: prometheus.DefBuckets,
		})

	ImageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubindex_image_cache_total",
			Help: "Preview image cache lookups by result (hit, miss, error).",
		}, []string{"result"})

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pubindex_rate_limited_total",
			Help: "Preview image requests rejected by the render limiter.",
		})
)

func init() {
	prometheus.MustRegister(
		PostsLoaded,
		ReloadTotal,
		ImageRenderTotal,
		ImageRenderSeconds,
		ImageCacheTotal,
		RateLimitedTotal,
	)
}
