package source

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"worktime/activity"
)

// decodeWorkerItems decodes each worker on its own. Timestamps without a
// zone are wall clock time in loc.
func decodeWorkerItems(items []gjson.Result, loc *time.Location) []WorkerResult {
	results := make([]WorkerResult, 0, len(items))
	for _, item := range items {
		results = append(results, DecodeWorker(item, loc))
	}
	return results
}

func decodeDayItems(items []gjson.Result, loc *time.Location) []DayResult {
	results := make([]DayResult, 0, len(items))
	for _, item := range items {
		results = append(results, DecodeDay(item, loc))
	}
	return results
}

// listItems reads either a JSON array of records or a PocketBase style
// {"items": [...]} page.
func listItems(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode records: %w", activity.ErrInvalidInput)
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array(), nil
	}
	if items := root.Get("items"); items.IsArray() {
		return items.Array(), nil
	}
	return nil, fmt.Errorf("decode records: no record list: %w", activity.ErrInvalidInput)
}

// DecodeWorker maps one raw worker record. Missing or null timestamps are
// absent; timestamps that are present but unreadable fail this worker only.
func DecodeWorker(item gjson.Result, loc *time.Location) WorkerResult {
	w := activity.WorkerSnapshot{
		WorkerID: stringField(item, "id", "_id", "worker_id"),
		Identity: activity.Identity{
			Name:       stringField(item, "name", "full_name"),
			ExternalID: stringField(item, "employee_id", "external_id", "externalId"),
			Email:      stringField(item, "email"),
			Role:       stringField(item, "role"),
		},
		IsActive: field(item, "is_active", "isActive").Bool(),
		Status:   activity.ParseWorkStatus(stringField(item, "workStatus", "work_status")),
	}
	fail := func(name string, err error) WorkerResult {
		return WorkerResult{Snapshot: w, Err: fmt.Errorf("worker %s: %s: %w", w.WorkerID, name, err)}
	}

	var err error
	if w.LoginAt, err = timeField(item, loc, "login_time", "loginTime"); err != nil {
		return fail("login_time", err)
	}
	if w.LogoutAt, err = timeField(item, loc, "logout_time", "logoutTime"); err != nil {
		return fail("logout_time", err)
	}

	var logs []activity.BreakLog
	for i, entry := range field(item, "breakLogs", "break_logs").Array() {
		b, err := decodeBreak(entry, loc)
		if err != nil {
			return fail(fmt.Sprintf("breakLogs[%d]", i), err)
		}
		logs = append(logs, b)
	}

	var open *activity.OpenBreak
	w.Breaks, open = activity.SplitOpenBreak(logs)
	if open == nil {
		start, err := timeField(item, loc, "breakStartedAt", "break_started_at")
		if err != nil {
			return fail("breakStartedAt", err)
		}
		if start != nil {
			open = &activity.OpenBreak{StartAt: *start, Reason: stringField(item, "breakReason", "break_reason")}
		}
	}
	w.CurrentBreak = open
	return WorkerResult{Snapshot: w}
}

func decodeBreak(entry gjson.Result, loc *time.Location) (activity.BreakLog, error) {
	start, err := timeField(entry, loc, "start")
	if err != nil {
		return activity.BreakLog{}, err
	}
	if start == nil {
		return activity.BreakLog{}, fmt.Errorf("missing start: %w", activity.ErrInvalidInput)
	}
	end, err := timeField(entry, loc, "end")
	if err != nil {
		return activity.BreakLog{}, err
	}
	return activity.BreakLog{
		StartAt:         *start,
		EndAt:           end,
		DurationMinutes: numberField(entry, "duration", "durationMinutes"),
		Reason:          stringField(entry, "reason"),
	}, nil
}

func DecodeDay(item gjson.Result, loc *time.Location) DayResult {
	raw := stringField(item, "date")
	d, err := activity.ParseDate(raw)
	if err != nil {
		return DayResult{Err: fmt.Errorf("history day %q: %w", raw, activity.ErrInvalidInput)}
	}
	e := activity.HistoryEntry{
		Date:          d,
		OnlineMinutes: numberField(item, "totalOnlineTime", "total_online_time"),
		BreakCount:    int(field(item, "breakCount", "break_count").Int()),
	}
	if m := numberField(item, "totalBreakTime", "total_break_time"); m != nil {
		e.BreakMinutes = *m
	}
	if e.LoginAt, err = timeField(item, loc, "loginTime", "login_time"); err != nil {
		return DayResult{Entry: e, Err: fmt.Errorf("history day %s: loginTime: %w", d, err)}
	}
	if e.LogoutAt, err = timeField(item, loc, "logoutTime", "logout_time"); err != nil {
		return DayResult{Entry: e, Err: fmt.Errorf("history day %s: logoutTime: %w", d, err)}
	}
	return DayResult{Entry: e}
}

// field returns the first of keys that is present and not null.
func field(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := item.Get(k); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func stringField(item gjson.Result, keys ...string) string {
	r := field(item, keys...)
	// Mongo extended JSON wraps object ids
	if oid := r.Get("$oid"); r.IsObject() && oid.Exists() {
		return oid.String()
	}
	return r.String()
}

func numberField(item gjson.Result, keys ...string) *float64 {
	r := field(item, keys...)
	switch r.Type {
	case gjson.Number:
		v := r.Float()
		return &v
	case gjson.String:
		v, err := strconv.ParseFloat(r.Str, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

func timeField(item gjson.Result, loc *time.Location, keys ...string) (*time.Time, error) {
	r := field(item, keys...)
	if r.IsObject() {
		// Mongo extended JSON: {"$date": "..."} or {"$date": {"$numberLong": "..."}}
		r = r.Get("$date")
		if n := r.Get("$numberLong"); r.IsObject() && n.Exists() {
			r = n
		}
	}
	switch r.Type {
	case gjson.Number:
		t := time.UnixMilli(r.Int()).UTC()
		return &t, nil
	case gjson.String:
		return activity.ParseTimePointStrictIn(r.Str, loc)
	case gjson.False, gjson.True, gjson.JSON:
		return nil, &activity.InvalidInputError{Raw: r.Raw}
	}
	return nil, nil
}
