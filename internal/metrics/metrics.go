package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "srsbot"

// Metrics exposes Prometheus collectors for reviews, tracking, reminders,
// the catalog cache and bot traffic. A nil *Metrics is a no-op.
type Metrics struct {
	reviews       *prometheus.CounterVec
	intervalDays  prometheus.Histogram
	tracked       *prometheus.CounterVec
	reminders     *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
	updates       *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns metrics registered with the global Prometheus registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNewMetrics constructs Metrics on reg. Collectors already registered
// under the same name are reused; any other registration error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Metrics{
		reviews: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reviews_total",
				Help:      "Reviews submitted, by rating.",
			},
			[]string{"rating"},
		)),
		intervalDays: register(reg, prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "review_interval_days",
				Help:      "Interval in days assigned by the scheduler.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		)),
		tracked: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tracked_questions_total",
				Help:      "Questions added to users' schedules, by source.",
			},
			[]string{"source"},
		)),
		reminders: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminders_total",
				Help:      "Reminder delivery attempts, by result.",
			},
			[]string{"result"},
		)),
		cacheRequests: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Catalog cache lookups, by cache and result.",
			},
			[]string{"cache", "result"},
		)),
		updates: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bot_updates_total",
				Help:      "Telegram updates handled, by kind.",
			},
			[]string{"kind"},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveReview counts a review and records the interval it produced
func (m *Metrics) ObserveReview(rating string, intervalDays int) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(rating).Inc()
	m.intervalDays.Observe(float64(intervalDays))
}

// AddTracked counts questions added from source ("question" or "study_list")
func (m *Metrics) AddTracked(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tracked.WithLabelValues(source).Add(float64(n))
}

// IncReminder counts a reminder attempt with result "sent" or "failed"
func (m *Metrics) IncReminder(result string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(result).Inc()
}

// CacheHit counts a cache hit
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(cache, "hit").Inc()
}

// CacheMiss counts a cache miss
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(cache, "miss").Inc()
}

// IncUpdate counts a Telegram update of kind ("message" or "callback")
func (m *Metrics) IncUpdate(kind string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
}
