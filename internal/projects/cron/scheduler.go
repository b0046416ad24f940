package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/noder-app/noder-backend/internal/platform/logging"
)

const (
	DefaultSchedule   = "0 0 3 * * *"
	DefaultPurgeAfter = 30 * 24 * time.Hour
)

// Purger is implemented by the projects repository.
type Purger interface {
	PurgeDeleted(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler hard-deletes soft-deleted projects, and with them their files,
// once they have been deleted longer than the retention window.
type Scheduler struct {
	c      *cron.Cron
	purger Purger
	after  time.Duration
}

func NewScheduler(purger Purger, after time.Duration) *Scheduler {
	if after <= 0 {
		after = DefaultPurgeAfter
	}
	return &Scheduler{
		c:      cron.New(cron.WithSeconds()),
		purger: purger,
		after:  after,
	}
}

// Start registers the purge job on schedule (six-field cron spec) and starts
// the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := s.c.AddFunc(schedule, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule purge %q: %w", schedule, err)
	}
	s.c.Start()
	logging.FromContext(context.Background()).LogInfof("purge", "purge scheduler started", "schedule", schedule, "after", s.after.String())
	return nil
}

// Stop waits for a running purge to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	logger := logging.FromContext(ctx)
	n, err := s.purger.PurgeDeleted(ctx, s.after)
	if err != nil {
		logger.LogError("purge", err)
		return 0, err
	}
	logger.LogInfof("purge", "purged deleted projects", "count", n)
	return n, nil
}
