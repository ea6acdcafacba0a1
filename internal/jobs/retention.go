// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"fmt"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/logger"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds a single pruning run.
const runTimeout = 5 * time.Minute

// AnalyticsPruner deletes analytics events older than a number of days.
type AnalyticsPruner interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// Scheduler owns the cron runner of the application.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
}

// NewScheduler registers the analytics retention job on cfg.Schedule, a
// standard five-field cron expression. An empty schedule disables the job.
func NewScheduler(cfg config.AnalyticsConfig, analytics AnalyticsPruner, log logger.Logger) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), log: log}
	if cfg.Schedule == "" {
		log.Info("Analytics retention job disabled")
		return s, nil
	}
	_, err := s.cron.AddFunc(cfg.Schedule, func() {
		pruneAnalytics(analytics, cfg.RetentionDays, log)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid analytics schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stopped before running jobs finished")
	}
}

func pruneAnalytics(analytics AnalyticsPruner, days int, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	n, err := analytics.DeleteOlderThan(ctx, days)
	if err != nil {
		log.Error(err, "Analytics retention job failed")
		return
	}
	log.With(map[string]interface{}{"deleted": n, "retention_days": days}).Info("Analytics retention job finished")
}
