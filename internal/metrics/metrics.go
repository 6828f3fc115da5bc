// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "site"

var (
	rateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Rate limiter decisions by limiter class and outcome.",
	}, []string{"class", "outcome"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Public submissions by kind and outcome.",
	}, []string{"kind", "outcome"})

	authRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Bearer token rejections by internal reason.",
	}, []string{"reason"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_logins_total",
		Help:      "Admin login attempts by outcome.",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func RateLimitDecision(class string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	rateLimitDecisions.WithLabelValues(class, outcome).Inc()
}

func Submission(kind, outcome string) {
	submissions.WithLabelValues(kind, outcome).Inc()
}

func AuthRejection(reason string) {
	authRejections.WithLabelValues(reason).Inc()
}

func Login(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}

func ObserveRequest(method, route, status string, seconds float64) {
	requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
