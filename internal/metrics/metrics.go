// Package metrics exposes streak gauges and refresh counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/huangsam/gitstreak/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gitstreak"

// Collector holds the metrics published by watch mode.
type Collector struct {
	registry       *prometheus.Registry
	currentStreak  *prometheus.GaugeVec
	longestStreak  *prometheus.GaugeVec
	contributions  *prometheus.GaugeVec
	unread         *prometheus.GaugeVec
	refreshTotal   *prometheus.CounterVec
	refreshSeconds prometheus.Histogram
}

// NewCollector constructs a collector backed by its own registry.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	currentStreak := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_streak_days",
		Help:      "Length of the running contribution streak.",
	}, []string{"login"})

	longestStreak := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "longest_streak_days",
		Help:      "Length of the longest contribution streak on record.",
	}, []string{"login"})

	contributions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "total_contributions",
		Help:      "Sum of contributions over the recorded activity log.",
	}, []string{"login"})

	unread := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "unread_notifications",
		Help:      "Unread participating notifications seen by the last inbox poll.",
	}, []string{"login"})

	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_total",
		Help:      "Number of refresh attempts by outcome.",
	}, []string{"status"})

	refreshSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Latency distribution of refresh attempts.",
		Buckets:   prometheus.DefBuckets,
	})

	for _, c := range []prometheus.Collector{currentStreak, longestStreak, contributions, unread, refreshTotal, refreshSeconds} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:       registry,
		currentStreak:  currentStreak,
		longestStreak:  longestStreak,
		contributions:  contributions,
		unread:         unread,
		refreshTotal:   refreshTotal,
		refreshSeconds: refreshSeconds,
	}, nil
}

// ObserveStats publishes the latest summary of a login.
func (c *Collector) ObserveStats(login string, stats schema.StreakStats) {
	c.currentStreak.WithLabelValues(login).Set(float64(stats.CurrentStreak.Length))
	c.longestStreak.WithLabelValues(login).Set(float64(stats.LongestStreak.Length))
	c.contributions.WithLabelValues(login).Set(float64(stats.TotalContributions))
}

// ObserveNotifications publishes the unread inbox count of a login.
func (c *Collector) ObserveNotifications(login string, unread int) {
	c.unread.WithLabelValues(login).Set(float64(unread))
}

// ObserveRefresh counts one refresh attempt and records how long it took.
func (c *Collector) ObserveRefresh(status schema.RunStatus, seconds float64) {
	c.refreshTotal.WithLabelValues(string(status)).Inc()
	c.refreshSeconds.Observe(seconds)
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
