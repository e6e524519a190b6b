package source

import (
	"context"

	"worktime/activity"
)

// StoreSource serves the local cache filled by sync, so reports work
// offline.
type StoreSource struct {
	repo activity.Repository
	// Until bounds History; the cache holds nothing after the last sync.
	Until func() activity.Date
}

func NewStoreSource(repo activity.Repository, until func() activity.Date) *StoreSource {
	return &StoreSource{repo: repo, Until: until}
}

func (s *StoreSource) Workers(ctx context.Context) ([]WorkerResult, error) {
	ws, err := s.repo.ListSnapshots()
	if err != nil {
		return nil, err
	}
	results := make([]WorkerResult, 0, len(ws))
	for _, w := range ws {
		results = append(results, WorkerResult{Snapshot: w})
	}
	return results, nil
}

func (s *StoreSource) History(ctx context.Context, workerID string, from activity.Date) ([]DayResult, error) {
	recs, err := s.repo.ListDays(workerID, from, s.Until())
	if err != nil {
		return nil, err
	}
	results := make([]DayResult, 0, len(recs))
	for _, rec := range recs {
		online := rec.OnlineMinutes
		results = append(results, DayResult{Entry: activity.HistoryEntry{
			Date:          rec.Date,
			LoginAt:       rec.LoginAt,
			LogoutAt:      rec.LogoutAt,
			OnlineMinutes: &online,
			BreakCount:    rec.BreakCount,
			BreakMinutes:  rec.BreakMinutes,
		}})
	}
	return results, nil
}
