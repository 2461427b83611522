package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics records the outcome of catalog maintenance sweeps.
type SweepMetrics struct {
	duration *prometheus.HistogramVec
	updated  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewSweepMetrics registers the sweep metrics on the provided registerer.
func NewSweepMetrics(reg prometheus.Registerer) *SweepMetrics {
	if reg == nil {
		return &SweepMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sweep_duration_seconds",
		Help:    "Duration of catalog sweeps in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"sweep"})
	updated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_items_updated",
		Help: "Items rewritten by catalog sweeps.",
	}, []string{"sweep"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_items_skipped",
		Help: "Items left untouched by catalog sweeps.",
	}, []string{"sweep"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_item_errors",
		Help: "Items that failed during catalog sweeps.",
	}, []string{"sweep"})
	reg.MustRegister(duration, updated, skipped, errors)
	return &SweepMetrics{
		duration: duration,
		updated:  updated,
		skipped:  skipped,
		errors:   errors,
	}
}

// ObserveDuration records the wall time of the named sweep.
func (s *SweepMetrics) ObserveDuration(sweep string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(sweep)).Observe(duration.Seconds())
}

// AddUpdated adds to the updated counter for the named sweep.
func (s *SweepMetrics) AddUpdated(sweep string, count int) {
	if s == nil || s.updated == nil {
		return
	}
	s.updated.WithLabelValues(normalizeLabel(sweep)).Add(float64(count))
}

// AddSkipped adds to the skipped counter for the named sweep.
func (s *SweepMetrics) AddSkipped(sweep string, count int) {
	if s == nil || s.skipped == nil {
		return
	}
	s.skipped.WithLabelValues(normalizeLabel(sweep)).Add(float64(count))
}

// AddErrors adds to the error counter for the named sweep.
func (s *SweepMetrics) AddErrors(sweep string, count int) {
	if s == nil || s.errors == nil {
		return
	}
	s.errors.WithLabelValues(normalizeLabel(sweep)).Add(float64(count))
}

func normalizeLabel(sweep string) string {
	if sweep == "" {
		return "unknown"
	}
	return sweep
}
