// Package janitor removes drafts nobody will come back for: soft-deleted
// records past their grace period and abandoned drafts that were never
// published.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atriumhq/atrium/pkg/persistence"
	"github.com/robfig/cron/v3"
)

type Janitor struct {
	persistence    persistence.Persistence
	logger         *slog.Logger
	abandonedAfter time.Duration
	cron           *cron.Cron
}

// New creates a janitor. abandonedAfter is how long an untouched draft is kept
// before it counts as abandoned.
func New(persistence persistence.Persistence, logger *slog.Logger, abandonedAfter time.Duration) *Janitor {
	return &Janitor{
		persistence:    persistence,
		logger:         logger,
		abandonedAfter: abandonedAfter,
	}
}

// Start schedules recurring purges. The schedule uses standard cron syntax,
// "@daily" style descriptors included.
func (j *Janitor) Start(schedule string) error {
	if j.cron != nil {
		return nil
	}

	runner := cron.New()

	_, err := runner.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := j.PurgeNow(ctx); err != nil {
			j.logger.Error("Scheduled purge failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}

	runner.Start()
	j.cron = runner

	j.logger.Info("Janitor started", "schedule", schedule, "abandoned_after", j.abandonedAfter)

	return nil
}

// Stop halts the schedule and waits for an in-flight purge to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}

	<-j.cron.Stop().Done()
	j.cron = nil
}

// PurgeNow runs a single purge pass immediately.
func (j *Janitor) PurgeNow(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-j.abandonedAfter)

	purged, err := j.persistence.Drafts().PurgeBefore(ctx, cutoff)
	if err != nil {
		return purged, fmt.Errorf("failed to purge drafts: %w", err)
	}

	if purged > 0 {
		j.logger.Info("Purged stale drafts", "count", purged, "cutoff", cutoff)
	}

	return purged, nil
}
