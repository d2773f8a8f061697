// Package scheduler runs a job on a cron schedule for the watch command.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled run. Errors are logged and never stop the schedule.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron around a single job.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger

	// running guards against overlapping runs when a run outlasts the interval.
	running sync.Mutex
}

// New creates a Scheduler for a standard five-field cron spec or a
// descriptor such as "@every 6h".
func New(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("scheduler: job is required")
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		spec:   spec,
		job:    job,
		logger: logger.With("component", "scheduler"),
	}, nil
}

// Start registers the job and blocks until ctx is cancelled. When runNow is
// set the job also runs once immediately. In-flight runs finish before Start
// returns.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	_, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)

	var first sync.WaitGroup
	if runNow {
		first.Add(1)
		go func() {
			defer first.Done()
			s.run(ctx)
		}()
	}

	<-ctx.Done()
	<-s.cron.Stop().Done()
	first.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.running.TryLock() {
		s.logger.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.running.Unlock()

	started := time.Now()
	s.logger.Info("scheduled run started")
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", "error", err, "duration", time.Since(started))
		return
	}
	s.logger.Info("scheduled run complete", "duration", time.Since(started))
}
