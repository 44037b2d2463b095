package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Gateway metrics
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of backend requests by outcome status (0 = no response)",
		},
		[]string{"method", "path", "status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "missioncontrol",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Auth form metrics
	authSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Subsystem: "auth",
			Name:      "submissions_total",
			Help:      "Credential form submissions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// Mock OAuth metrics
	oauthTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Subsystem: "oauth",
			Name:      "transitions_total",
			Help:      "Mock consent flow state transitions",
		},
		[]string{"from", "to"},
	)

	// Dashboard metrics
	dashboardRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Subsystem: "dashboard",
			Name:      "refresh_total",
			Help:      "Dashboard fetches by part (stats, logs) and outcome",
		},
		[]string{"part", "outcome"},
	)

	dashboardTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Subsystem: "dashboard",
			Name:      "triggers_total",
			Help:      "Manual build triggers by request outcome",
		},
		[]string{"outcome"},
	)

	dashboardActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "missioncontrol",
			Subsystem: "dashboard",
			Name:      "active",
			Help:      "Number of dashboards currently polling",
		},
	)
)

// ObserveRequest records one gateway request. Its signature matches client.Observer.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	gatewayRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	gatewayRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordAuthSubmission records a form submission outcome
func RecordAuthSubmission(mode, outcome string) {
	authSubmissionsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordOAuthTransition records a consent flow state change
func RecordOAuthTransition(from, to string) {
	oauthTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordRefresh records a dashboard fetch outcome
func RecordRefresh(part, outcome string) {
	dashboardRefreshTotal.WithLabelValues(part, outcome).Inc()
}

// RecordTrigger records a manual build trigger outcome
func RecordTrigger(outcome string) {
	dashboardTriggersTotal.WithLabelValues(outcome).Inc()
}

// DashboardActivated tracks polling lifetimes
func DashboardActivated() {
	dashboardActive.Inc()
}

// DashboardDeactivated tracks polling lifetimes
func DashboardDeactivated() {
	dashboardActive.Dec()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer returns an HTTP server exposing /metrics on addr
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
