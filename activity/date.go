package activity

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
type Date string

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date must look like 2024-03-01: %w", err)
	}
	return DateFromTime(t), nil
}

func DateFromTime(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Time returns midnight UTC of d. An invalid date yields the zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Date) AddDays(n int) Date {
	return DateFromTime(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d < other
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) String() string {
	return string(d)
}

// Calendar decides which day a time point belongs to. DayStart moves the
// day boundary past midnight, so with DayStart of 5h a shift ending at 02:00
// still counts to the previous day.
type Calendar struct {
	Location *time.Location
	DayStart time.Duration
}

// Zone is Location, or UTC when unset.
func (c Calendar) Zone() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) DateOf(t time.Time) Date {
	return DateFromTime(t.In(c.Zone()).Add(-c.DayStart))
}

// Clock is FormatClock with t shown in the calendar's zone.
func (c Calendar) Clock(t *time.Time, sentinel string) string {
	if t == nil {
		return sentinel
	}
	local := t.In(c.Zone())
	return FormatClock(&local, sentinel)
}

// IsOvernight reports whether t and before fall on different days.
func (c Calendar) IsOvernight(t, before time.Time) bool {
	return c.DateOf(t) != c.DateOf(before)
}
