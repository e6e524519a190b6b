// Package source fetches raw worker and history records from the systems
// that own them.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"worktime/activity"
)

// WorkerResult is one decoded worker. Err is set when that worker's record
// could not be used; the rest of the batch is unaffected.
type WorkerResult struct {
	Snapshot activity.WorkerSnapshot
	Err      error
}

type DayResult struct {
	Entry activity.HistoryEntry
	Err   error
}

type Source interface {
	Workers(ctx context.Context) ([]WorkerResult, error)
	// History returns the days of workerID from from onwards. Days without
	// activity may be missing.
	History(ctx context.Context, workerID string, from activity.Date) ([]DayResult, error)
}

var ErrFetch = errors.New("fetch failed")

// FetchError is a network or remote failure. It matches ErrFetch and the
// underlying cause with errors.Is.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s", e.Op, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// Provider adapts a Source to activity.SnapshotProvider, dropping and
// logging workers whose records are invalid.
type Provider struct {
	Source Source
	Logger *slog.Logger
}

func (p Provider) Snapshots(ctx context.Context) ([]activity.WorkerSnapshot, error) {
	results, err := p.Source.Workers(ctx)
	if err != nil {
		return nil, err
	}
	ws := make([]activity.WorkerSnapshot, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			p.Logger.Warn("skip worker", slog.String("worker", r.Snapshot.WorkerID), slog.String("err", r.Err.Error()))
			continue
		}
		ws = append(ws, r.Snapshot)
	}
	return ws, nil
}

// Entries splits day results into usable entries and the per-day errors.
func Entries(results []DayResult) ([]activity.HistoryEntry, []error) {
	var entries []activity.HistoryEntry
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		entries = append(entries, r.Entry)
	}
	return entries, errs
}
