package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateBreaks(t *testing.T) {
	now := at(12, 0)

	tests := []struct {
		name        string
		logs        []BreakLog
		open        *OpenBreak
		wantCount   int
		wantMinutes float64
	}{
		{
			name: "no breaks",
		},
		{
			name: "closed breaks only",
			logs: []BreakLog{
				{StartAt: at(10, 0), EndAt: ptr(at(10, 15)), DurationMinutes: ptr(15.0)},
				{StartAt: at(11, 0), EndAt: ptr(at(11, 30)), DurationMinutes: ptr(30.0)},
			},
			wantCount:   2,
			wantMinutes: 45,
		},
		{
			name: "null duration counts but adds nothing",
			logs: []BreakLog{
				{StartAt: at(10, 0), EndAt: ptr(at(10, 15)), DurationMinutes: nil},
				{StartAt: at(11, 0), EndAt: ptr(at(11, 5)), DurationMinutes: ptr(5.0)},
			},
			wantCount:   2,
			wantMinutes: 5,
		},
		{
			name: "negative duration clamps to zero",
			logs: []BreakLog{
				{StartAt: at(10, 0), EndAt: ptr(at(10, 15)), DurationMinutes: ptr(-20.0)},
			},
			wantCount:   1,
			wantMinutes: 0,
		},
		{
			name:        "live break adds elapsed time",
			logs:        []BreakLog{{StartAt: at(10, 0), EndAt: ptr(at(10, 20)), DurationMinutes: ptr(20.0)}},
			open:        &OpenBreak{StartAt: at(11, 50)},
			wantCount:   2,
			wantMinutes: 30,
		},
		{
			name:        "live break starting in the future counts zero",
			open:        &OpenBreak{StartAt: at(12, 10)},
			wantCount:   1,
			wantMinutes: 0,
		},
		{
			name: "open entry inside the logs contributes zero",
			logs: []BreakLog{
				{StartAt: at(9, 30), DurationMinutes: ptr(99.0)},
			},
			wantCount:   1,
			wantMinutes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AggregateBreaks(tt.logs, tt.open, now)
			assert.Equal(t, tt.wantCount, s.TotalBreaks)
			assert.InDelta(t, tt.wantMinutes, s.TotalBreakMinutes, 1e-9)
			assert.Len(t, s.Entries, tt.wantCount)
			assert.Equal(t, tt.open != nil, s.Open != nil)
		})
	}
}

func TestAggregateBreaks_Order(t *testing.T) {
	logs := []BreakLog{
		{StartAt: at(10, 0), EndAt: ptr(at(10, 10)), DurationMinutes: ptr(10.0), Reason: "Lunch"},
		{StartAt: at(11, 0), EndAt: ptr(at(11, 5)), DurationMinutes: ptr(5.0), Reason: " "},
	}
	open := &OpenBreak{StartAt: at(11, 40), Reason: "Call"}

	s := AggregateBreaks(logs, open, at(11, 45))
	require.Len(t, s.Entries, 3)

	assert.Equal(t, "Call", s.Entries[0].Reason)
	assert.True(t, s.Entries[0].IsOpen())
	assert.InDelta(t, 5, s.Entries[0].Minutes(), 1e-9)

	assert.Equal(t, DefaultBreakReason, s.Entries[1].Reason)
	assert.True(t, s.Entries[1].StartAt.Equal(at(11, 0)))
	assert.Equal(t, "Lunch", s.Entries[2].Reason)

	// the input slice is left alone
	assert.Equal(t, " ", logs[1].Reason)
}

func TestAggregateBreaks_DoesNotMutateOpenEntries(t *testing.T) {
	logs := []BreakLog{{StartAt: at(9, 30), DurationMinutes: ptr(12.0)}}

	AggregateBreaks(logs, nil, at(12, 0))

	require.NotNil(t, logs[0].DurationMinutes)
	assert.Equal(t, 12.0, *logs[0].DurationMinutes)
}

func TestSplitOpenBreak(t *testing.T) {
	closed := BreakLog{StartAt: at(10, 0), EndAt: ptr(at(10, 10)), DurationMinutes: ptr(10.0)}
	trailing := BreakLog{StartAt: at(11, 0), Reason: "Coffee"}

	logs, open := SplitOpenBreak([]BreakLog{closed, trailing})
	assert.Equal(t, []BreakLog{closed}, logs)
	require.NotNil(t, open)
	assert.Equal(t, OpenBreak{StartAt: at(11, 0), Reason: "Coffee"}, *open)

	logs, open = SplitOpenBreak([]BreakLog{closed})
	assert.Equal(t, []BreakLog{closed}, logs)
	assert.Nil(t, open)

	logs, open = SplitOpenBreak(nil)
	assert.Empty(t, logs)
	assert.Nil(t, open)
}

func TestBreakLog_Minutes(t *testing.T) {
	var b BreakLog
	assert.Zero(t, b.Minutes())

	b.DurationMinutes = ptr(7.5)
	assert.Equal(t, 7.5, b.Minutes())

	b.DurationMinutes = ptr(float64(-time.Minute))
	assert.Zero(t, b.Minutes())
}

func TestAggregateBreaks_LiveBreakAddsOne(t *testing.T) {
	now := at(14, 0)
	logs := []BreakLog{
		{StartAt: at(10, 0), EndAt: ptr(at(10, 10)), DurationMinutes: ptr(10.0)},
		{StartAt: at(12, 0), EndAt: ptr(at(12, 30)), DurationMinutes: ptr(30.0)},
	}

	closed := AggregateBreaks(logs, nil, now)
	live := AggregateBreaks(logs, &OpenBreak{StartAt: now.Add(-15 * time.Minute)}, now)

	assert.Equal(t, closed.TotalBreaks+1, live.TotalBreaks)
	require.NotNil(t, live.Open)
	assert.InDelta(t, 15, live.Open.Minutes(), 1e-9)
	assert.InDelta(t, closed.TotalBreakMinutes+15, live.TotalBreakMinutes, 1e-9)
}
