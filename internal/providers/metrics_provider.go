package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"renewalpulse/internal/structures"
)

// RecordCounter is the slice of the subscription service the gauges need.
// Declared here so the metrics provider does not depend on the services
// package.
type RecordCounter interface {
	Count() int
	CountDueSoon() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncReminder(channel string, delivered bool)
	IncRateRefresh(success bool)
	IncRolledForward()
	ObserveSweepDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	remindersTotal      *prometheus.CounterVec
	rateRefreshTotal    *prometheus.CounterVec
	rolledForwardTotal  prometheus.Counter
	sweepDuration       prometheus.Histogram
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncReminder(channel string, delivered bool) {
	m.remindersTotal.WithLabelValues(channel, outcomeLabel(delivered)).Inc()
}

func (m *MetricsProvider) IncRateRefresh(success bool) {
	m.rateRefreshTotal.WithLabelValues(outcomeLabel(success)).Inc()
}

func (m *MetricsProvider) IncRolledForward() {
	m.rolledForwardTotal.Inc()
}

func (m *MetricsProvider) ObserveSweepDuration(duration time.Duration) {
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func outcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, counter RecordCounter) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "renewalpulse_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "renewalpulse_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "renewalpulse_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "renewalpulse_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		remindersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "renewalpulse_reminders_total",
			Help: "Reminder delivery attempts per channel and outcome",
		}, []string{"channel", "outcome"}),

		rateRefreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "renewalpulse_rate_refresh_total",
			Help: "Exchange-rate refresh attempts by outcome",
		}, []string{"outcome"}),

		rolledForwardTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "renewalpulse_rolled_forward_total",
			Help: "Expiry dates auto-advanced past due",
		}),

		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "renewalpulse_sweep_duration_seconds",
			Help:    "Duration of daily reminder sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "renewalpulse_persistence_duration_seconds",
			Help:    "Duration of snapshot saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "renewalpulse_subscriptions_total",
		Help: "Current number of subscription records",
	}, func() float64 {
		return float64(counter.Count())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "renewalpulse_subscriptions_due_soon",
		Help: "Enabled records inside their reminder window",
	}, func() float64 {
		return float64(counter.CountDueSoon())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncReminder(_ string, _ bool)                     {}
func (n *noopMetrics) IncRateRefresh(_ bool)                            {}
func (n *noopMetrics) IncRolledForward()                                {}
func (n *noopMetrics) ObserveSweepDuration(_ time.Duration)             {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
