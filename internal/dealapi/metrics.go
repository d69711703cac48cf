package dealapi

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealdesk_api_requests_total",
		Help: "Total requests to the deal backend",
	}, []string{"method", "route", "status"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dealdesk_api_request_duration_seconds",
		Help:    "Deal backend request latency",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	apiCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealdesk_api_cache_hits_total",
		Help: "Render cache hits",
	})
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// routeLabel collapses numeric path segments to keep label cardinality flat.
func routeLabel(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}
