package activity

import "time"

// Identity is what a report needs to say whose numbers it shows.
type Identity struct {
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// WorkerSnapshot is the current-moment view of one worker.
type WorkerSnapshot struct {
	WorkerID     string     `json:"worker_id"`
	Identity     Identity   `json:"identity"`
	LoginAt      *time.Time `json:"login_time"`
	LogoutAt     *time.Time `json:"logout_time"`
	IsActive     bool       `json:"is_active"`
	Status       WorkStatus `json:"work_status"`
	Breaks       []BreakLog `json:"break_logs"`
	CurrentBreak *OpenBreak `json:"current_break,omitempty"`
}

func (w WorkerSnapshot) IsOnBreak() bool {
	return w.IsActive && w.Status == WorkStatusBreak
}

// OpenBreak returns the live break only while the worker is on break.
func (w WorkerSnapshot) OpenBreak() *OpenBreak {
	if !w.IsOnBreak() {
		return nil
	}
	return w.CurrentBreak
}

type Issue string

const (
	IssueMissingLogout    = Issue("inactive without a valid logout")
	IssueActiveWithLogout = Issue("active with a logout time")
	IssueStrayOpenBreak   = Issue("open break while not on break")
	IssueUnknownBreakTime = Issue("on break without a break start")
)

// Issues lists data-quality problems in w. Reconciliation copes with all of
// them; callers decide whether to log.
func (w WorkerSnapshot) Issues() []Issue {
	var issues []Issue
	if w.LoginAt != nil && !w.IsActive && (w.LogoutAt == nil || !w.LogoutAt.After(*w.LoginAt)) {
		issues = append(issues, IssueMissingLogout)
	}
	if w.IsActive && w.LogoutAt != nil {
		issues = append(issues, IssueActiveWithLogout)
	}
	stray := w.CurrentBreak != nil && !w.IsOnBreak()
	for _, b := range w.Breaks {
		if b.IsOpen() {
			stray = true
		}
	}
	if stray {
		issues = append(issues, IssueStrayOpenBreak)
	}
	if w.IsOnBreak() && w.CurrentBreak == nil {
		issues = append(issues, IssueUnknownBreakTime)
	}
	return issues
}

// WorkerView is one worker reconciled against a single now.
type WorkerView struct {
	WorkerID string
	Identity Identity
	OnBreak  bool
	Session  Session
	Breaks   BreakSummary
}

func ReconcileWorker(w WorkerSnapshot, now time.Time, policy LogoutPolicy) WorkerView {
	breaks := AggregateBreaks(w.Breaks, w.OpenBreak(), now)
	session := Reconcile(SessionInput{
		LoginAt:      w.LoginAt,
		LogoutAt:     w.LogoutAt,
		IsActive:     w.IsActive,
		BreakMinutes: breaks.TotalBreakMinutes,
		TotalBreaks:  breaks.TotalBreaks,
	}, now, policy)
	return WorkerView{
		WorkerID: w.WorkerID,
		Identity: w.Identity,
		OnBreak:  w.IsOnBreak(),
		Session:  session,
		Breaks:   breaks,
	}
}

// ReconcileAll reconciles every snapshot against the same now so that one
// rendering pass never disagrees with itself about elapsed time.
func ReconcileAll(ws []WorkerSnapshot, now time.Time, policy LogoutPolicy) []WorkerView {
	views := make([]WorkerView, 0, len(ws))
	for _, w := range ws {
		views = append(views, ReconcileWorker(w, now, policy))
	}
	return views
}
