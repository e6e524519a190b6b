package activity

import (
	"math"
	"time"
)

// DailyRecord is one day of a worker's activity history.
type DailyRecord struct {
	Date          Date       `json:"date"`
	LoginAt       *time.Time `json:"loginTime"`
	LogoutAt      *time.Time `json:"logoutTime"`
	OnlineMinutes float64    `json:"totalOnlineTime"`
	BreakCount    int        `json:"breakCount"`
	BreakMinutes  float64    `json:"totalBreakTime"`
	// Recorded is false for days filled in because the feed had nothing.
	Recorded bool `json:"recorded"`
}

func Placeholder(d Date) DailyRecord {
	return DailyRecord{Date: d}
}

func (r DailyRecord) clamped() DailyRecord {
	r.OnlineMinutes = clampMinutes(r.OnlineMinutes)
	r.BreakMinutes = clampMinutes(r.BreakMinutes)
	r.BreakCount = max(0, r.BreakCount)
	r.Recorded = true
	return r
}

// mergeDay folds two records for the same date into one.
func mergeDay(a, b DailyRecord) DailyRecord {
	out := a
	if b.LoginAt != nil && (out.LoginAt == nil || b.LoginAt.Before(*out.LoginAt)) {
		out.LoginAt = b.LoginAt
	}
	if b.LogoutAt != nil && (out.LogoutAt == nil || b.LogoutAt.After(*out.LogoutAt)) {
		out.LogoutAt = b.LogoutAt
	}
	out.OnlineMinutes += b.OnlineMinutes
	out.BreakMinutes += b.BreakMinutes
	out.BreakCount += b.BreakCount
	return out
}

// LiveDay projects today's in-progress session onto a history row.
func LiveDay(d Date, s Session) DailyRecord {
	return DailyRecord{
		Date:          d,
		LoginAt:       s.LoginAt,
		LogoutAt:      s.LogoutAt,
		OnlineMinutes: s.ActiveMinutes,
		BreakCount:    s.TotalBreaks,
		BreakMinutes:  s.BreakMinutes,
		Recorded:      true,
	}
}

// HistoryEntry is a raw history feed row. OnlineMinutes is nil when the feed
// did not report an online total for the day.
type HistoryEntry struct {
	Date          Date
	LoginAt       *time.Time
	LogoutAt      *time.Time
	OnlineMinutes *float64
	BreakCount    int
	BreakMinutes  float64
}

// NormalizeDay turns a feed row into a DailyRecord. A reported online total
// wins; otherwise it is reconciled from the row's own timestamps as an
// ended session.
func NormalizeDay(e HistoryEntry, now time.Time, policy LogoutPolicy) DailyRecord {
	rec := DailyRecord{
		Date:         e.Date,
		LoginAt:      e.LoginAt,
		LogoutAt:     e.LogoutAt,
		BreakCount:   e.BreakCount,
		BreakMinutes: e.BreakMinutes,
	}
	if e.OnlineMinutes != nil {
		rec.OnlineMinutes = *e.OnlineMinutes
		return rec.clamped()
	}
	s := Reconcile(SessionInput{
		LoginAt:      e.LoginAt,
		LogoutAt:     e.LogoutAt,
		BreakMinutes: e.BreakMinutes,
		TotalBreaks:  e.BreakCount,
	}, now, policy)
	rec.LogoutAt = s.LogoutAt
	rec.OnlineMinutes = s.ActiveMinutes
	return rec.clamped()
}

type Totals struct {
	OnlineMinutes      float64
	BreakMinutes       float64
	BreakCount         int
	DaysWithData       int
	AverageDailyOnline float64
}

// Rollup has exactly one row per day of Range.
type Rollup struct {
	Range  Range
	Rows   []DailyRecord
	Totals Totals
}

type rollupOptions struct {
	live *DailyRecord
}

type RollupOption func(*rollupOptions)

// WithLiveDay fills rec.Date from the live session when the history has no
// row for it yet.
func WithLiveDay(rec DailyRecord) RollupOption {
	return func(o *rollupOptions) {
		o.live = &rec
	}
}

func BuildRollup(records []DailyRecord, rng Range, opts ...RollupOption) Rollup {
	var o rollupOptions
	for _, opt := range opts {
		opt(&o)
	}

	byDate := make(map[Date]DailyRecord, len(records))
	for _, rec := range records {
		rec = rec.clamped()
		if prev, ok := byDate[rec.Date]; ok {
			rec = mergeDay(prev, rec)
		}
		byDate[rec.Date] = rec
	}
	if o.live != nil && rng.Contains(o.live.Date) {
		if _, ok := byDate[o.live.Date]; !ok {
			byDate[o.live.Date] = o.live.clamped()
		}
	}

	dates := rng.Dates()
	r := Rollup{Range: rng, Rows: make([]DailyRecord, 0, len(dates))}
	for _, d := range dates {
		rec, ok := byDate[d]
		if !ok {
			rec = Placeholder(d)
		}
		r.Rows = append(r.Rows, rec)
		if !rec.Recorded {
			continue
		}
		r.Totals.OnlineMinutes += rec.OnlineMinutes
		r.Totals.BreakMinutes += rec.BreakMinutes
		r.Totals.BreakCount += rec.BreakCount
		r.Totals.DaysWithData++
	}
	r.Totals.AverageDailyOnline = math.Round(r.Totals.OnlineMinutes / float64(max(1, r.Totals.DaysWithData)))
	return r
}
