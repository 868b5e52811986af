package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"angleYield/internal/angle"
)

// Metrics holds the per-run gauges of one adapter invocation.
type Metrics struct {
	RecordsTotal   prometheus.Gauge
	PoolsEmitted   prometheus.Gauge
	RecordsSkipped *prometheus.GaugeVec
	RunDuration    prometheus.Gauge
	LastSuccess    prometheus.Gauge
	RunFailures    prometheus.Counter

	registry *prometheus.Registry
}

// New creates the metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		RecordsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "angle_incentive_records",
			Help: "Raw incentive records in the last snapshot",
		}),
		PoolsEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "angle_pools_emitted",
			Help: "Pools published by the last run",
		}),
		RecordsSkipped: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "angle_records_skipped",
				Help: "Records dropped by the last run by reason",
			},
			[]string{"reason"},
		),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "angle_run_duration_seconds",
			Help: "Wall time of the last fetch and normalize",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "angle_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "angle_run_failures_total",
			Help: "Runs that returned an error",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RecordsTotal,
		m.PoolsEmitted,
		m.RecordsSkipped,
		m.RunDuration,
		m.LastSuccess,
		m.RunFailures,
	)
	return m
}

// Observe records the counters of a finished normalization pass.
func (m *Metrics) Observe(stats angle.Stats, elapsed time.Duration) {
	m.RecordsTotal.Set(float64(stats.Total))
	m.PoolsEmitted.Set(float64(stats.Emitted))
	m.RecordsSkipped.WithLabelValues("deprecated").Set(float64(stats.Deprecated))
	m.RecordsSkipped.WithLabelValues("unknown_chain").Set(float64(stats.UnknownChain))
	m.RunDuration.Set(elapsed.Seconds())
}

// MarkSuccess stamps the last successful run.
func (m *Metrics) MarkSuccess(at time.Time) {
	m.LastSuccess.Set(float64(at.Unix()))
}

// MarkFailure counts a failed run.
func (m *Metrics) MarkFailure() {
	m.RunFailures.Inc()
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
