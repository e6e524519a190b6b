package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	today := Date("2024-03-15")

	tests := []struct {
		period    Period
		yearMonth string
		wantFrom  Date
		wantTo    Date
		wantDays  int
	}{
		{PeriodDaily, "", "2024-03-15", "2024-03-15", 1},
		{PeriodWeekly, "", "2024-03-09", "2024-03-15", 7},
		{PeriodMonthly, "", "2024-03-01", "2024-03-15", 15},
		{PeriodCustomMonth, "2024-02", "2024-02-01", "2024-02-29", 29},
		{PeriodCustomMonth, "2023-12", "2023-12-01", "2023-12-31", 31},
	}

	for _, tt := range tests {
		t.Run(string(tt.period)+tt.yearMonth, func(t *testing.T) {
			r, err := ResolveRange(tt.period, today, tt.yearMonth)
			require.NoError(t, err)
			assert.Equal(t, tt.period, r.Period)
			assert.Equal(t, tt.wantFrom, r.From)
			assert.Equal(t, tt.wantTo, r.To)
			assert.Equal(t, tt.wantDays, r.Days())
		})
	}
}

func TestResolveRange_Errors(t *testing.T) {
	_, err := ResolveRange(PeriodCustomMonth, "2024-03-15", "March")
	assert.Error(t, err)

	_, err = ResolveRange(Period("yearly"), "2024-03-15", "")
	assert.Error(t, err)
}

func TestLastDaysRange(t *testing.T) {
	r := LastDaysRange("2024-03-01", 3)
	assert.Equal(t, []Date{"2024-02-28", "2024-02-29", "2024-03-01"}, r.Dates())
	assert.Equal(t, "2024-02-28 to 2024-03-01", r.Label())

	r = LastDaysRange("2024-03-01", 0)
	assert.Equal(t, 1, r.Days())
	assert.Equal(t, "2024-03-01", r.Label())
}

func TestRange_Contains(t *testing.T) {
	r := CalendarMonthRange(2024, time.March)
	assert.True(t, r.Contains("2024-03-01"))
	assert.True(t, r.Contains("2024-03-31"))
	assert.False(t, r.Contains("2024-04-01"))
	assert.False(t, r.Contains("2024-02-29"))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("Weekly")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, p)

	_, err = ParsePeriod("last_days")
	assert.Error(t, err)
}

func TestRange_DatesAtCalendarEdges(t *testing.T) {
	r, err := ResolveRange(PeriodCustomMonth, "2024-03-15", "9999-12")
	require.NoError(t, err)
	dates := r.Dates()
	require.Len(t, dates, 31)
	assert.Equal(t, Date("9999-12-31"), dates[30])

	assert.Len(t, LastDaysRange("0001-01-03", 3).Dates(), 3)
}

func TestRange_DatesWithUnreadableEnds(t *testing.T) {
	assert.Empty(t, Range{From: "", To: "2024-03-01"}.Dates())
	assert.Empty(t, Range{From: "2024-03-01", To: "10000-01-01"}.Dates())
	assert.Empty(t, Range{From: "2024-03-02", To: "2024-03-01"}.Dates())
	assert.Zero(t, BuildRollup(nil, Range{From: "x", To: "y"}).Totals.DaysWithData)
}
