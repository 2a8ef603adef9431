package cron

import (
	"context"
	"log/slog"
	"time"
)

// EventPurger is the subset of the event-log store needed by retention.
// Defined here to avoid a dependency on the store package.
type EventPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventLogRetentionJob deletes raw webhook event documents older than
// the retention window.
type EventLogRetentionJob struct {
	Events       EventPurger
	Retention    time.Duration // zero = default 30 days
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 3 * * *"
}

// Compile-time interface check.
var _ Job = (*EventLogRetentionJob)(nil)

// Name implements Job.
func (j *EventLogRetentionJob) Name() string { return "event_log_retention" }

// Schedule implements Job.
func (j *EventLogRetentionJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 3 * * *"
}

// Run purges events older than the retention window.
func (j *EventLogRetentionJob) Run(ctx context.Context) error {
	retention := j.Retention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	purged, err := j.Events.PurgeOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	if purged > 0 {
		j.Logger.Info("cron: purged old webhook events", "count", purged)
	}
	return nil
}
