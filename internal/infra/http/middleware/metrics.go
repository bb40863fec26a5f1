package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_submitted_total",
			Help: "Lead submissions by result",
		},
		[]string{"result"},
	)

	stageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_stage_transitions_total",
			Help: "Lead stage transitions",
		},
		[]string{"to"},
	)

	leadsStaled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_staled_total",
			Help: "Leads moved to stale by the sweep",
		},
	)

	rateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_rate_limit_rejections_total",
			Help: "Lead submissions rejected by the per-IP limiter",
		},
	)

	notificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_notification_failures_total",
			Help: "Notifications that could not be enqueued or sent",
		},
		[]string{"kind"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps label cardinality bounded by using the chi pattern
// instead of the raw path (lead ids, onboarding tokens).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordLeadSubmission(result string) {
	leadsSubmitted.WithLabelValues(result).Inc()
}

func RecordStageTransition(to string) {
	stageTransitions.WithLabelValues(to).Inc()
}

func RecordLeadsStaled(n int) {
	leadsStaled.Add(float64(n))
}

func RecordRateLimitRejection() {
	rateLimitRejections.Inc()
}

func RecordNotificationFailure(kind string) {
	notificationFailures.WithLabelValues(kind).Inc()
}

type meteredNotifier struct {
	next usecase.Notifier
}

// MeterNotifier counts failed notifications by kind.
func MeterNotifier(n usecase.Notifier) usecase.Notifier {
	return meteredNotifier{next: n}
}

func (m meteredNotifier) Notify(ctx context.Context, n usecase.Notification) error {
	err := m.next.Notify(ctx, n)
	if err != nil {
		RecordNotificationFailure(string(n.Kind))
	}
	return err
}
