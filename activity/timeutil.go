package activity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	SentinelDash = "-"
	SentinelNA   = "N/A"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimePoint returns nil for empty, null or malformed input. Values
// without a zone are read as UTC.
func ParseTimePoint(raw string) *time.Time {
	t, err := ParseTimePointStrictIn(raw, time.UTC)
	if err != nil {
		return nil
	}
	return t
}

// ParseTimePointStrict is ParseTimePoint that tells absent input (nil, nil)
// apart from input that is not a time point (ErrInvalidInput).
func ParseTimePointStrict(raw string) (*time.Time, error) {
	return ParseTimePointStrictIn(raw, time.UTC)
}

// ParseTimePointStrictIn reads values without a zone as wall clock time in
// loc.
func ParseTimePointStrictIn(raw string, loc *time.Location) (*time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "null", "undefined":
		return nil, nil
	}

	if isDigits(s) && len(s) >= 12 {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			t := time.UnixMilli(ms).UTC()
			return &t, nil
		}
	}

	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return &t, nil
		}
	}
	return nil, &InvalidInputError{Raw: raw}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatClock renders t on a 12-hour clock, or sentinel when t is nil.
func FormatClock(t *time.Time, sentinel string) string {
	if t == nil {
		return sentinel
	}
	return t.Format("03:04 PM")
}

// FormatDurationLong renders minutes as "HHh MMm SSs", rounded to the second.
func FormatDurationLong(minutes float64) string {
	secs := roundedUnits(minutes * 60)
	if secs <= 0 {
		return "00h 00m 00s"
	}
	return fmt.Sprintf("%02dh %02dm %02ds", secs/3600, secs/60%60, secs%60)
}

// FormatDurationCompact renders minutes as "XhYYm", dropping the hour
// segment when it is zero.
func FormatDurationCompact(minutes float64) string {
	m := roundedUnits(minutes)
	if m <= 0 {
		return "0m"
	}
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func roundedUnits(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}

func minutesBetween(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}

// clampMinutes maps negative and non-finite values to 0.
func clampMinutes(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
