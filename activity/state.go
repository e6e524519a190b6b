package activity

import "strings"

type WorkStatus string

const (
	WorkStatusOff    = WorkStatus("off")
	WorkStatusActive = WorkStatus("active")
	WorkStatusBreak  = WorkStatus("break")
)

// ParseWorkStatus maps the status strings used by the different worker
// feeds onto WorkStatus. Unknown values mean off.
func ParseWorkStatus(s string) WorkStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "online", "working":
		return WorkStatusActive
	case "break", "on_break", "onbreak", "breaking", "paused":
		return WorkStatusBreak
	}
	return WorkStatusOff
}
