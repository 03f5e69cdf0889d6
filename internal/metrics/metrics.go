// Package metrics holds the Prometheus collectors shared by the stats API
// and the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts query-service requests by route pattern and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridiron_http_requests_total",
		Help: "HTTP requests served by route and status",
	}, []string{"route", "status"})

	// HTTPDuration observes request latency by route pattern
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridiron_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CacheLookups counts response cache lookups by kind and result (hit, miss, error)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridiron_cache_lookups_total",
		Help: "Response cache lookups by kind and result",
	}, []string{"kind", "result"})

	// ActiveSessions is the number of connected dashboard sessions
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridiron_dashboard_sessions_active",
		Help: "Dashboard sessions currently connected",
	})

	// PlannerFetches counts fetch completions by pipeline and outcome (committed, stale, failed)
	PlannerFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridiron_planner_fetches_total",
		Help: "Planner fetch completions by pipeline and outcome",
	}, []string{"pipeline", "outcome"})

	// FramesSent counts render frames pushed to browsers
	FramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridiron_frames_sent_total",
		Help: "Render frames sent to dashboard clients",
	})

	// DroppedMessages counts server messages dropped because a client send buffer was full
	DroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridiron_dropped_messages_total",
		Help: "Messages dropped for slow dashboard clients",
	})
)
