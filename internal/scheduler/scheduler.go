package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Flusher drains pending readings and submits them to the external store.
type Flusher interface {
	Flush(ctx context.Context)
}

// Scheduler drives the periodic flush cycle.
type Scheduler struct {
	ctx      context.Context
	flusher  Flusher
	logger   *logrus.Logger
	cron     *cron.Cron
	interval time.Duration
}

func NewScheduler(ctx context.Context, flusher Flusher, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		ctx:      ctx,
		flusher:  flusher,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start the scheduler
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.flushPending)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// flushPending runs one flush cycle with a bounded deadline
func (s *Scheduler) flushPending() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.flusher.Flush(ctx)
}

// Stop tears the timer down and drains whatever is still buffered. The
// final flush is best-effort: a failure here re-queues readings that are
// lost when the process exits.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.flushPending()
	s.logger.Info("Scheduler stopped, final flush complete")
}
