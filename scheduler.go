package pubindex

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic jobs such as content reloads.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.SugaredLogger
	timeout time.Duration
}

// NewScheduler creates a scheduler. Jobs that are still running when their
// next tick arrives are skipped.
func NewScheduler(log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		timeout: time.Minute,
	}
}

// Every registers job under a cron spec such as "*/5 * * * *" or
// "@every 5m". Job errors are logged.
func (s *Scheduler) Every(spec, name string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Errorw("scheduled job failed", "job", name, "err", err)
			return
		}
		s.log.Debugw("scheduled job done", "job", name, "took", time.Since(start))
	})
	return err
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infow("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
