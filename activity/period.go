package activity

import (
	"fmt"
	"strings"
	"time"
)

type Period string

const (
	PeriodDaily       = Period("daily")
	PeriodWeekly      = Period("weekly")
	PeriodLastDays    = Period("last_days")
	PeriodMonthly     = Period("monthly")
	PeriodCustomMonth = Period("custom")
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodCustomMonth:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want daily, weekly, monthly or custom)", s)
}

// Range is an inclusive span of calendar days.
type Range struct {
	Period Period
	From   Date
	To     Date
}

func DailyRange(today Date) Range {
	return Range{Period: PeriodDaily, From: today, To: today}
}

// LastDaysRange covers n days ending with today. n below 1 means 1.
func LastDaysRange(today Date, n int) Range {
	n = max(1, n)
	return Range{Period: PeriodLastDays, From: today.AddDays(-(n - 1)), To: today}
}

func WeeklyRange(today Date) Range {
	r := LastDaysRange(today, 7)
	r.Period = PeriodWeekly
	return r
}

// MonthToDateRange runs from the first of day's month up to day.
func MonthToDateRange(day Date) Range {
	t := day.Time()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{Period: PeriodMonthly, From: DateFromTime(first), To: day}
}

func CalendarMonthRange(year int, month time.Month) Range {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Range{Period: PeriodCustomMonth, From: DateFromTime(first), To: DateFromTime(last)}
}

// ParseYearMonth reads "2024-03".
func ParseYearMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("month must look like 2024-03: %w", err)
	}
	return t.Year(), t.Month(), nil
}

// ResolveRange builds the range a caller asked for. yearMonth is only read
// for PeriodCustomMonth.
func ResolveRange(p Period, today Date, yearMonth string) (Range, error) {
	switch p {
	case PeriodDaily:
		return DailyRange(today), nil
	case PeriodWeekly:
		return WeeklyRange(today), nil
	case PeriodMonthly:
		return MonthToDateRange(today), nil
	case PeriodCustomMonth:
		y, m, err := ParseYearMonth(yearMonth)
		if err != nil {
			return Range{}, err
		}
		return CalendarMonthRange(y, m), nil
	}
	return Range{}, fmt.Errorf("unknown period %q", p)
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.From) && !r.To.Before(d)
}

// Dates lists every day of r in order. A range with an unreadable end has
// no days.
func (r Range) Dates() []Date {
	from, err := time.Parse(dateLayout, string(r.From))
	if err != nil {
		return nil
	}
	to, err := time.Parse(dateLayout, string(r.To))
	if err != nil {
		return nil
	}
	var dates []Date
	for t := from; !t.After(to); t = t.AddDate(0, 0, 1) {
		dates = append(dates, DateFromTime(t))
	}
	return dates
}

func (r Range) Days() int {
	return len(r.Dates())
}

func (r Range) Label() string {
	if r.From == r.To {
		return string(r.From)
	}
	return fmt.Sprintf("%s to %s", r.From, r.To)
}
