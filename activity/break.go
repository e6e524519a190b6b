package activity

import (
	"strings"
	"time"
)

const DefaultBreakReason = "Break"

// BreakLog is one entry of a worker's break history. EndAt is nil while the
// break is still open; DurationMinutes is only trusted once it is closed.
type BreakLog struct {
	StartAt         time.Time  `json:"start"`
	EndAt           *time.Time `json:"end"`
	DurationMinutes *float64   `json:"duration"`
	Reason          string     `json:"reason"`
}

func (b BreakLog) IsOpen() bool {
	return b.EndAt == nil
}

func (b BreakLog) Minutes() float64 {
	if b.DurationMinutes == nil {
		return 0
	}
	return clampMinutes(*b.DurationMinutes)
}

// OpenBreak is the break a worker is on right now.
type OpenBreak struct {
	StartAt time.Time `json:"start"`
	Reason  string    `json:"reason"`
}

type BreakSummary struct {
	TotalBreaks       int
	TotalBreakMinutes float64
	// Entries are most recent first; the live break, if any, comes first.
	Entries []BreakLog
	Open    *BreakLog
}

// AggregateBreaks reduces closed break logs plus an optional live break into
// counts and minutes as of now.
func AggregateBreaks(logs []BreakLog, open *OpenBreak, now time.Time) BreakSummary {
	s := BreakSummary{Entries: make([]BreakLog, 0, len(logs)+1)}

	if open != nil {
		elapsed := clampMinutes(minutesBetween(open.StartAt, now))
		live := BreakLog{
			StartAt:         open.StartAt,
			DurationMinutes: &elapsed,
			Reason:          reasonOrDefault(open.Reason),
		}
		s.Entries = append(s.Entries, live)
		s.Open = &live
		s.TotalBreaks++
		s.TotalBreakMinutes += elapsed
	}

	for i := len(logs) - 1; i >= 0; i-- {
		b := logs[i]
		b.Reason = reasonOrDefault(b.Reason)
		if b.IsOpen() {
			// an open entry that is not the live break has no usable duration
			b.DurationMinutes = nil
		}
		s.Entries = append(s.Entries, b)
		s.TotalBreaks++
		s.TotalBreakMinutes += b.Minutes()
	}
	return s
}

// SplitOpenBreak lifts a trailing open entry out of logs so it can be passed
// to AggregateBreaks as the live break instead of being counted twice.
func SplitOpenBreak(logs []BreakLog) ([]BreakLog, *OpenBreak) {
	if len(logs) == 0 || !logs[len(logs)-1].IsOpen() {
		return logs, nil
	}
	last := logs[len(logs)-1]
	closed := make([]BreakLog, len(logs)-1)
	copy(closed, logs)
	return closed, &OpenBreak{StartAt: last.StartAt, Reason: last.Reason}
}

func reasonOrDefault(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return DefaultBreakReason
	}
	return reason
}
