// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the catalog client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_upstream_requests_total",
			Help: "Catalog API calls, by endpoint group and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_cache_hits_total",
			Help: "Catalog responses served from cache.",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_cache_misses_total",
			Help: "Catalog responses not found in cache.",
		},
	)

	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_fallbacks_total",
			Help: "Times built-in content was served instead of catalog data, by operation.",
		},
		[]string{"operation"},
	)

	WatchlistSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_watchlist_items",
			Help: "Items currently on the watchlist.",
		},
	)
)

// Register adds every collector to reg. Call once at startup.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		RequestDuration,
		RequestsInFlight,
		UpstreamRequests,
		CacheHits,
		CacheMisses,
		Fallbacks,
		WatchlistSize,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
