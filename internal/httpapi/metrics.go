package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsStore keeps all collectors on a private registry so tests can run
// handlers side by side without global-registry collisions.
type metricsStore struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	appErrorsTotal  *prometheus.CounterVec
	convertDuration *prometheus.HistogramVec
}

func newMetricsStore() *metricsStore {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metricsStore{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clashsub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by ServeMux pattern and status.",
		}, []string{"pattern", "status"}),
		appErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clashsub",
			Name:      "app_errors_total",
			Help:      "Application errors returned to clients, by stage and code.",
		}, []string{"stage", "code"}),
		convertDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clashsub",
			Name:      "convert_duration_seconds",
			Help:      "Duration of one subscription conversion, by policy.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"policy"}),
	}
}

var metrics = newMetricsStore()

func metricsIncRequest(pattern string, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	if pattern == "" {
		pattern = "(unknown)"
	}
	metrics.requestsTotal.WithLabelValues(pattern, httpStatusLabel(status)).Inc()
}

func metricsIncAppError(stage, code string) {
	if stage == "" {
		stage = "(unknown)"
	}
	if code == "" {
		code = "(unknown)"
	}
	metrics.appErrorsTotal.WithLabelValues(stage, code).Inc()
}

func metricsObserveConvert(policy string, seconds float64) {
	metrics.convertDuration.WithLabelValues(policy).Observe(seconds)
}

func httpStatusLabel(status int) string {
	// Keep cardinality bounded even if a handler writes a weird code.
	if status < 100 || status > 599 {
		return "(invalid)"
	}
	const digits = "0123456789"
	return string([]byte{digits[status/100], digits[status/10%10], digits[status%10]})
}

func metricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}
