package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.ObserveReview("good", 25)
	m.ObserveReview("good", 2)
	m.ObserveReview("again", 1)
	m.AddTracked("study_list", 3)
	m.AddTracked("question", 0)
	m.IncReminder("sent")
	m.CacheHit("topics")
	m.CacheMiss("topics")
	m.CacheMiss("topics")
	m.IncUpdate("callback")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reviews.WithLabelValues("good")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviews.WithLabelValues("again")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tracked.WithLabelValues("study_list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminders.WithLabelValues("sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("topics", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.updates.WithLabelValues("callback")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMustNewMetricsReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	first.IncReminder("failed")
	second.IncReminder("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(first.reminders.WithLabelValues("failed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReview("good", 1)
		m.AddTracked("question", 1)
		m.IncReminder("sent")
		m.CacheHit("x")
		m.CacheMiss("x")
		m.IncUpdate("message")
	})
}
