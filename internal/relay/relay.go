// Package relay buffers timestamped readings per statistic identifier and
// periodically flushes them to the platform's long-term statistics store
// as hourly summaries. Failed submissions re-queue the original readings
// for the next cycle (at-least-once; duplicates are possible when a
// success response is lost in transit).
package relay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mhagen/solarstats/internal/models"
)

// StatisticsClient is the outbound surface the relay needs from the
// platform API.
type StatisticsClient interface {
	RegisterStatistic(ctx context.Context, meta models.StatisticMetadata) error
	PushStatistics(ctx context.Context, statisticID string, summaries []models.HourlySummary) error
}

// Relay is the in-memory pending queue plus its flush machinery. One
// instance is owned by the hosting process and driven by the scheduler;
// Record may be called from any goroutine.
type Relay struct {
	mu      sync.Mutex
	pending map[string][]models.Reading

	client  StatisticsClient
	logger  *logrus.Logger
	metrics *collectors
	now     func() time.Time
}

func New(client StatisticsClient, logger *logrus.Logger) *Relay {
	return &Relay{
		pending: make(map[string][]models.Reading),
		client:  client,
		logger:  logger,
		metrics: newCollectors(),
		now:     time.Now,
	}
}

// RegisterCatalog upserts every catalog statistic's metadata with the
// external store. Failures are logged and swallowed: registration is
// retried on the next process start, not here.
func (r *Relay) RegisterCatalog(ctx context.Context) {
	for _, meta := range models.Catalog() {
		if err := r.client.RegisterStatistic(ctx, meta); err != nil {
			r.logger.WithFields(logrus.Fields{
				"statistic_id": meta.StatisticID,
				"error":        err,
			}).Error("Failed to register statistic metadata")
		}
	}
}

// Record appends a reading to the named statistic's pending queue. It
// never blocks on I/O and never fails.
func (r *Relay) Record(statisticID string, reading models.Reading) {
	r.mu.Lock()
	r.pending[statisticID] = append(r.pending[statisticID], reading)
	depth := r.queueDepthLocked()
	r.mu.Unlock()

	r.metrics.pendingReadings.Set(float64(depth))
}

// RecordEnergy records a cumulative energy total (kWh) at the current
// wall-clock time.
func (r *Relay) RecordEnergy(statisticID string, kilowattHours float64) {
	r.Record(statisticID, models.Reading{
		Start: r.now(),
		Sum:   models.Float(kilowattHours),
		State: models.Float(kilowattHours),
	})
}

// RecordCost records a cumulative financial total at the current
// wall-clock time.
func (r *Relay) RecordCost(statisticID string, amount float64) {
	r.Record(statisticID, models.Reading{
		Start: r.now(),
		Sum:   models.Float(amount),
		State: models.Float(amount),
	})
}

// RecordMetric records an instantaneous measurement (battery state of
// charge, optimization gain) at the current wall-clock time.
func (r *Relay) RecordMetric(statisticID string, value float64) {
	r.Record(statisticID, models.Reading{
		Start: r.now(),
		Mean:  models.Float(value),
		State: models.Float(value),
	})
}

// Flush drains the pending queue, aggregates each identifier's readings
// into hourly summaries and submits them. The queue swap happens under
// the lock before any network call, so readings recorded mid-flush land
// in the fresh queue and are never lost or double-aggregated. On a failed
// submission the identifier's original readings go back into the queue.
func (r *Relay) Flush(ctx context.Context) {
	r.mu.Lock()
	drained := r.pending
	r.pending = make(map[string][]models.Reading)
	r.mu.Unlock()

	if len(drained) == 0 {
		return
	}

	cycleID := uuid.NewString()
	start := r.now()

	for statisticID, readings := range drained {
		summaries := aggregateHourly(readings)
		if len(summaries) == 0 {
			continue
		}

		if err := r.client.PushStatistics(ctx, statisticID, summaries); err != nil {
			r.logger.WithFields(logrus.Fields{
				"cycle_id":     cycleID,
				"statistic_id": statisticID,
				"readings":     len(readings),
				"error":        err,
			}).Error("Failed to submit statistics, re-queueing readings")

			r.requeue(statisticID, readings)
			r.metrics.flushCycles.WithLabelValues("error").Inc()
			continue
		}

		r.metrics.flushCycles.WithLabelValues("ok").Inc()
		r.metrics.summariesPushed.Add(float64(len(summaries)))

		r.logger.WithFields(logrus.Fields{
			"cycle_id":     cycleID,
			"statistic_id": statisticID,
			"summaries":    len(summaries),
		}).Debug("Submitted statistics")
	}

	r.mu.Lock()
	depth := r.queueDepthLocked()
	r.mu.Unlock()
	r.metrics.pendingReadings.Set(float64(depth))
	r.metrics.flushDuration.Observe(time.Since(start).Seconds())
}

// requeue puts a failed submission's original readings back ahead of
// anything recorded since the drain, keeping rough chronological order.
func (r *Relay) requeue(statisticID string, readings []models.Reading) {
	r.mu.Lock()
	defer r.mu.Unlock()

	newer := r.pending[statisticID]
	combined := make([]models.Reading, 0, len(readings)+len(newer))
	combined = append(combined, readings...)
	combined = append(combined, newer...)
	r.pending[statisticID] = combined
}

// PendingCount reports how many readings are buffered for one statistic.
func (r *Relay) PendingCount(statisticID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending[statisticID])
}

func (r *Relay) queueDepthLocked() int {
	total := 0
	for _, readings := range r.pending {
		total += len(readings)
	}
	return total
}
