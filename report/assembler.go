// Package report turns reconciled sessions and rollups into row sets ready
// for display or export. Values arrive already clamped; this package only
// formats them.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"worktime/activity"
)

type SummaryLine struct {
	Label string
	Value string
}

type Report struct {
	ID          string
	Title       string
	Identity    activity.Identity
	GeneratedAt time.Time
	Header      []string
	Rows        [][]string
	// RowDates is set for day-per-row reports, one entry per row.
	RowDates []activity.Date
	Summary  []SummaryLine
}

const stillOnline = "Still online"

// AssembleSession lists one worker's breaks, most recent first, with the
// session figures in the summary. Clock times are shown in cal's zone.
func AssembleSession(id activity.Identity, v activity.WorkerView, cal activity.Calendar, sentinel string, generatedAt time.Time) Report {
	r := Report{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("%s activity", displayName(id, v.WorkerID)),
		Identity:    id,
		GeneratedAt: generatedAt,
		Header:      []string{"#", "Break start", "Break end", "Duration", "Reason"},
	}
	for i, b := range v.Breaks.Entries {
		end := cal.Clock(b.EndAt, sentinel)
		if b.IsOpen() && v.Breaks.Open != nil && i == 0 {
			end = "Ongoing"
		}
		r.Rows = append(r.Rows, []string{
			strconv.Itoa(len(v.Breaks.Entries) - i),
			cal.Clock(&b.StartAt, sentinel),
			end,
			activity.FormatDurationLong(b.Minutes()),
			b.Reason,
		})
	}

	s := v.Session
	r.Summary = []SummaryLine{
		{"Status", statusLabel(v)},
		{"Login", s.DisplayLogin(cal, sentinel)},
		{"Logout", logoutLabel(s, cal, sentinel)},
		{"Online time", activity.FormatDurationLong(s.ActiveMinutes)},
		{"Break time", activity.FormatDurationLong(s.BreakMinutes)},
		{"Breaks", strconv.Itoa(s.TotalBreaks)},
	}
	return r
}

// AssembleRollup gives one row per calendar day of the rollup.
func AssembleRollup(id activity.Identity, ru activity.Rollup, cal activity.Calendar, generatedAt time.Time) Report {
	r := Report{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("%s %s report, %s", displayName(id, id.ExternalID), ru.Range.Period, ru.Range.Label()),
		Identity:    id,
		GeneratedAt: generatedAt,
		Header:      []string{"Date", "Login", "Logout", "Online", "Breaks", "Break time"},
	}
	for _, row := range ru.Rows {
		r.Rows = append(r.Rows, []string{
			string(row.Date),
			cal.Clock(row.LoginAt, activity.SentinelDash),
			cal.Clock(row.LogoutAt, activity.SentinelDash),
			activity.FormatDurationCompact(row.OnlineMinutes),
			strconv.Itoa(row.BreakCount),
			activity.FormatDurationCompact(row.BreakMinutes),
		})
		r.RowDates = append(r.RowDates, row.Date)
	}

	t := ru.Totals
	r.Summary = []SummaryLine{
		{"Total online", activity.FormatDurationCompact(t.OnlineMinutes)},
		{"Total break time", activity.FormatDurationCompact(t.BreakMinutes)},
		{"Total breaks", strconv.Itoa(t.BreakCount)},
		{"Days with data", fmt.Sprintf("%d of %d", t.DaysWithData, len(ru.Rows))},
		{"Average daily online", activity.FormatDurationCompact(t.AverageDailyOnline)},
	}
	return r
}

// AssembleTeam is the live overview, one row per worker.
func AssembleTeam(views []activity.WorkerView, cal activity.Calendar, sentinel string, generatedAt time.Time) Report {
	r := Report{
		ID:          uuid.NewString(),
		Title:       "Team activity",
		GeneratedAt: generatedAt,
		Header:      []string{"Worker", "Role", "Status", "Login", "Logout", "Online", "Breaks", "Break time"},
	}
	var online, breaks float64
	var onBreak int
	for _, v := range views {
		s := v.Session
		r.Rows = append(r.Rows, []string{
			displayName(v.Identity, v.WorkerID),
			v.Identity.Role,
			statusLabel(v),
			s.DisplayLogin(cal, sentinel),
			logoutLabel(s, cal, sentinel),
			activity.FormatDurationCompact(s.ActiveMinutes),
			strconv.Itoa(s.TotalBreaks),
			activity.FormatDurationCompact(s.BreakMinutes),
		})
		online += s.ActiveMinutes
		breaks += s.BreakMinutes
		if v.OnBreak {
			onBreak++
		}
	}
	r.Summary = []SummaryLine{
		{"Workers", strconv.Itoa(len(views))},
		{"On break", strconv.Itoa(onBreak)},
		{"Total online", activity.FormatDurationCompact(online)},
		{"Total break time", activity.FormatDurationCompact(breaks)},
		{"As of", generatedAt.In(cal.Zone()).Format("2006-01-02 03:04 PM")},
	}
	return r
}

func statusLabel(v activity.WorkerView) string {
	switch v.Session.Regime {
	case activity.RegimeActive:
		if v.OnBreak {
			return "On break"
		}
		return "Online"
	case activity.RegimeLoggedOut:
		return "Logged out"
	case activity.RegimeMissingLogout:
		return "Logged out (no logout time)"
	}
	return "Not logged in"
}

func logoutLabel(s activity.Session, cal activity.Calendar, sentinel string) string {
	if s.Regime == activity.RegimeActive {
		return stillOnline
	}
	return s.DisplayLogout(cal, sentinel)
}

func displayName(id activity.Identity, fallback string) string {
	if id.Name != "" {
		return id.Name
	}
	return fallback
}
