// Package sampler polls configured platform entities and feeds their
// numeric states into the relay's pending queue.
package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Recorder is the ingestion surface the sampler needs from the relay.
type Recorder interface {
	RecordEnergy(statisticID string, kilowattHours float64)
	RecordCost(statisticID string, amount float64)
	RecordMetric(statisticID string, value float64)
}

// StateClient fetches one entity's current numeric state.
type StateClient interface {
	GetState(ctx context.Context, entityID string) (float64, error)
}

// Mapping wires one platform entity to one catalog statistic. Kind
// selects the recording primitive: "energy" and "cost" accumulate sums,
// "metric" carries a mean.
type Mapping struct {
	EntityID    string `mapstructure:"entity_id"`
	StatisticID string `mapstructure:"statistic_id"`
	Kind        string `mapstructure:"kind"`
}

// Sampler polls each mapping on a fixed interval.
type Sampler struct {
	client   StateClient
	recorder Recorder
	mappings []Mapping
	logger   *logrus.Logger
	cron     *cron.Cron
	interval time.Duration
}

func New(client StateClient, recorder Recorder, mappings []Mapping, interval time.Duration, logger *logrus.Logger) *Sampler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sampler{
		client:   client,
		recorder: recorder,
		mappings: mappings,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins periodic sampling. A sampler with no mappings is a no-op.
func (s *Sampler) Start() error {
	if len(s.mappings) == 0 {
		return nil
	}
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.sampleAll)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sampler) Stop() {
	s.cron.Stop()
}

func (s *Sampler) sampleAll() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, m := range s.mappings {
		s.sample(ctx, m)
	}
}

func (s *Sampler) sample(ctx context.Context, m Mapping) {
	value, err := s.client.GetState(ctx, m.EntityID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"entity_id": m.EntityID,
			"error":     err,
		}).Warn("Failed to sample entity state")
		return
	}

	switch m.Kind {
	case "energy":
		s.recorder.RecordEnergy(m.StatisticID, value)
	case "cost":
		s.recorder.RecordCost(m.StatisticID, value)
	case "metric":
		s.recorder.RecordMetric(m.StatisticID, value)
	default:
		s.logger.WithFields(logrus.Fields{
			"entity_id": m.EntityID,
			"kind":      m.Kind,
		}).Warn("Unknown sampling kind, skipping")
	}
}
