package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/smartwallet/bff-go/internal/domain"
)

// Metrics holds all Prometheus metrics for the wallet backend.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	externalErrors     *prometheus.CounterVec
	mockFallbacks      *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	tokensUsed         *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	remindersTotal     *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		mockFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_mock_fallbacks_total",
				Help: "Total calls served from locally generated mock data.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
		remindersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_reminders_total",
				Help: "Reminder scheduling outcomes.",
			},
			[]string{"outcome"}, // scheduled, skipped, cancelled
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_notifications_total",
				Help: "Notification delivery outcomes.",
			},
			[]string{"outcome"}, // delivered, denied, failed
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrMockFallback increments the mock-data fallback counter.
func (m *Metrics) IncrMockFallback(service string) {
	m.mockFallbacks.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// IncrReminder increments the reminder counter with an outcome label.
func (m *Metrics) IncrReminder(outcome string) {
	m.remindersTotal.WithLabelValues(outcome).Inc()
}

// IncrNotification increments the notification counter with an outcome label.
func (m *Metrics) IncrNotification(outcome string) {
	m.notificationsTotal.WithLabelValues(outcome).Inc()
}

// GetAgentSnapshot returns a snapshot of assistant-related metrics suitable
// for the GET /v1/metrics/agent endpoint.
func (m *Metrics) GetAgentSnapshot() *domain.AgentMetrics {
	// Prometheus counters expose cumulative values.
	promptTokens := getCounterValue(m.tokensUsed, "prompt")
	completionTokens := getCounterValue(m.tokensUsed, "completion")
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error")
	errorCount := getCounterValue(m.requestsTotal, "error")
	fallbacks := getCounterValue(m.mockFallbacks, "agent")
	cacheHits := getCounterValue(m.cacheHits, "rates") + getCounterValue(m.cacheHits, "quotes")
	cacheMisses := getCounterValue(m.cacheMisses, "rates") + getCounterValue(m.cacheMisses, "quotes")

	totalTokens := promptTokens + completionTokens
	avgTokens := float64(0)
	errorRate := float64(0)
	fallbackRate := float64(0)
	cacheHitRate := float64(0)

	if totalRequests > 0 {
		avgTokens = totalTokens / totalRequests
		errorRate = errorCount / totalRequests
		fallbackRate = fallbacks / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.AgentMetrics{
		TotalRequests:       int64(totalRequests),
		ErrorRate:           errorRate,
		FallbackRate:        fallbackRate,
		AvgTokensPerRequest: avgTokens,
		CacheHitRate:        cacheHitRate,
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
