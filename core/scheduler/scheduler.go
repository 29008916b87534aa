package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"
)

// Job is the unit of work run at every tick.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a cron schedule until its context is cancelled.
// Ticks never overlap: the next tick is computed after the job returns.
type Scheduler struct {
	expr   string
	job    Job
	logger *zap.Logger
	next   func(after time.Time) (time.Time, error)
	now    func() time.Time
}

// New validates the cron expression and creates a scheduler for job.
func New(expr string, job Job, logger *zap.Logger) (*Scheduler, error) {
	if !gronx.New().IsValid(expr) {
		return nil, fmt.Errorf("invalid cron expression: %q", expr)
	}
	return &Scheduler{
		expr:   expr,
		job:    job,
		logger: logger,
		next: func(after time.Time) (time.Time, error) {
			return gronx.NextTickAfter(expr, after, false)
		},
		now: time.Now,
	}, nil
}

// Run blocks until ctx is done. Job errors are logged and do not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		at, err := s.next(s.now())
		if err != nil {
			return fmt.Errorf("failed to compute next tick for %q: %w", s.expr, err)
		}

		timer := time.NewTimer(time.Until(at))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		start := s.now()
		if err := s.job(ctx); err != nil {
			s.logger.Error("Scheduled job failed", zap.String("schedule", s.expr), zap.Error(err))
			continue
		}
		s.logger.Debug("Scheduled job finished",
			zap.String("schedule", s.expr),
			zap.Duration("took", s.now().Sub(start)))
	}
}
