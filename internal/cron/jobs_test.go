package cron

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type fakePurger struct {
	cutoff time.Time
	purged int64
	err    error
}

func (f *fakePurger) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.purged, f.err
}

func TestEventLogRetentionJob_Defaults(t *testing.T) {
	t.Parallel()

	j := &EventLogRetentionJob{}
	if j.Name() != "event_log_retention" {
		t.Errorf("name = %q", j.Name())
	}
	if j.Schedule() != "0 3 * * *" {
		t.Errorf("schedule = %q", j.Schedule())
	}

	j.ScheduleExpr = "*/30 * * * *"
	if j.Schedule() != "*/30 * * * *" {
		t.Errorf("schedule override = %q", j.Schedule())
	}
}

func TestEventLogRetentionJob_Run(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{purged: 3}
	j := &EventLogRetentionJob{
		Events:    purger,
		Retention: 24 * time.Hour,
		Logger:    slog.Default(),
	}

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	wantCutoff := time.Now().Add(-24 * time.Hour)
	if diff := purger.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, want about %v", purger.cutoff, wantCutoff)
	}
}

func TestEventLogRetentionJob_DefaultRetention(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{}
	j := &EventLogRetentionJob{Events: purger, Logger: slog.Default()}

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	wantCutoff := time.Now().Add(-30 * 24 * time.Hour)
	if diff := purger.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, want about 30 days back", purger.cutoff)
	}
}

func TestEventLogRetentionJob_PurgeError(t *testing.T) {
	t.Parallel()

	want := errors.New("db locked")
	j := &EventLogRetentionJob{
		Events: &fakePurger{err: want},
		Logger: slog.Default(),
	}

	if err := j.Run(context.Background()); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}
