package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"worktime/activity"
	"worktime/source"
)

// Builder fetches from a source and assembles reports. Each call captures
// now once and uses it for every figure it derives.
type Builder struct {
	src      source.Source
	calendar activity.Calendar
	policy   activity.LogoutPolicy
	logger   *slog.Logger
}

func NewBuilder(src source.Source, calendar activity.Calendar, policy activity.LogoutPolicy, logger *slog.Logger) *Builder {
	return &Builder{src: src, calendar: calendar, policy: policy, logger: logger}
}

func (b *Builder) Team(ctx context.Context, now time.Time) (Report, error) {
	ws, err := source.Provider{Source: b.src, Logger: b.logger}.Snapshots(ctx)
	if err != nil {
		return Report{}, err
	}
	return AssembleTeam(activity.ReconcileAll(ws, now, b.policy), b.calendar, activity.SentinelNA, now), nil
}

func (b *Builder) Worker(ctx context.Context, workerID string, now time.Time) (Report, error) {
	w, err := b.snapshot(ctx, workerID)
	if err != nil {
		return Report{}, err
	}
	view := activity.ReconcileWorker(w, now, b.policy)
	return AssembleSession(w.Identity, view, b.calendar, activity.SentinelNA, now), nil
}

// Range builds the day-per-row report for rng. Historical days are
// reconciled with the zero policy; today, when in range and not yet in the
// history, comes from the live snapshot if its session started today.
func (b *Builder) Range(ctx context.Context, workerID string, rng activity.Range, now time.Time) (Report, activity.Rollup, error) {
	results, err := b.src.History(ctx, workerID, rng.From)
	if err != nil {
		return Report{}, activity.Rollup{}, err
	}
	entries, errs := source.Entries(results)
	for _, e := range errs {
		b.logger.Warn("skip history day", slog.String("worker", workerID), slog.String("err", e.Error()))
	}

	recs := make([]activity.DailyRecord, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, activity.NormalizeDay(e, now, activity.LogoutPolicyZero))
	}

	var opts []activity.RollupOption
	var id activity.Identity
	w, err := b.snapshot(ctx, workerID)
	switch {
	case err == nil:
		id = w.Identity
		today := b.calendar.DateOf(now)
		if rng.Contains(today) && w.LoginAt != nil && !b.calendar.IsOvernight(now, *w.LoginAt) {
			live := activity.ReconcileWorker(w, now, b.policy)
			opts = append(opts, activity.WithLiveDay(activity.LiveDay(today, live.Session)))
		}
	case errors.Is(err, activity.ErrNotFound):
		id = activity.Identity{ExternalID: workerID}
	default:
		return Report{}, activity.Rollup{}, err
	}

	ru := activity.BuildRollup(recs, rng, opts...)
	return AssembleRollup(id, ru, b.calendar, now), ru, nil
}

func (b *Builder) snapshot(ctx context.Context, workerID string) (activity.WorkerSnapshot, error) {
	results, err := b.src.Workers(ctx)
	if err != nil {
		return activity.WorkerSnapshot{}, err
	}
	for _, r := range results {
		if r.Snapshot.WorkerID != workerID {
			continue
		}
		if r.Err != nil {
			return activity.WorkerSnapshot{}, r.Err
		}
		return r.Snapshot, nil
	}
	return activity.WorkerSnapshot{}, fmt.Errorf("worker %s: %w", workerID, activity.ErrNotFound)
}
