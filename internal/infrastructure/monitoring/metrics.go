// Package monitoring exposes Prometheus metrics for the HTTP layer and the
// toggle relations.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RelationToggles     *prometheus.CounterVec
	ShoppingListBuilds  prometheus.Counter
}

// NewMetrics registers the collectors on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodgram",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "foodgram",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RelationToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodgram",
			Name:      "relation_toggles_total",
			Help:      "Toggle relation operations by kind, direction, and outcome.",
		}, []string{"kind", "direction", "changed"}),
		ShoppingListBuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "foodgram",
			Name:      "shopping_list_builds_total",
			Help:      "Shopping list downloads served.",
		}),
	}
}
