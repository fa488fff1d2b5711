package relay

import "github.com/prometheus/client_golang/prometheus"

// collectors holds the relay's Prometheus instrumentation. Registration
// with a registry is left to the hosting process.
type collectors struct {
	flushCycles     *prometheus.CounterVec
	summariesPushed prometheus.Counter
	pendingReadings prometheus.Gauge
	flushDuration   prometheus.Histogram
}

func newCollectors() *collectors {
	return &collectors{
		flushCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarstats_flush_submissions_total",
				Help: "Per-statistic flush submissions by result.",
			},
			[]string{"result"},
		),
		summariesPushed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "solarstats_summaries_pushed_total",
				Help: "Hourly summaries accepted by the statistics store.",
			},
		),
		pendingReadings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "solarstats_pending_readings",
				Help: "Readings buffered and awaiting flush.",
			},
		),
		flushDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "solarstats_flush_duration_seconds",
				Help:    "Wall time of a full flush cycle.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Collectors returns the relay's metrics for registration, e.g.
// prometheus.MustRegister(r.Collectors()...).
func (r *Relay) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		r.metrics.flushCycles,
		r.metrics.summariesPushed,
		r.metrics.pendingReadings,
		r.metrics.flushDuration,
	}
}
