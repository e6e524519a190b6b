package activity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// LogoutPolicy decides what an inactive session without a usable logout is
// worth. Historical rows and live rows have disagreed on this, so it is
// always chosen explicitly.
type LogoutPolicy int

const (
	// LogoutPolicyZero counts the session as zero active time.
	LogoutPolicyZero LogoutPolicy = iota
	// LogoutPolicyNow treats now as the implicit logout.
	LogoutPolicyNow
)

func ParseLogoutPolicy(s string) (LogoutPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return LogoutPolicyZero, nil
	case "now":
		return LogoutPolicyNow, nil
	}
	return LogoutPolicyZero, fmt.Errorf("unknown logout policy %q (want zero or now)", s)
}

func (p LogoutPolicy) String() string {
	if p == LogoutPolicyNow {
		return "now"
	}
	return "zero"
}

type Regime string

const (
	RegimeNoLogin       = Regime("no_login")
	RegimeActive        = Regime("active")
	RegimeLoggedOut     = Regime("logged_out")
	RegimeMissingLogout = Regime("missing_logout")
)

type SessionInput struct {
	LoginAt      *time.Time
	LogoutAt     *time.Time
	IsActive     bool
	BreakMinutes float64
	TotalBreaks  int
}

// Session is a reconciled login-to-logout span. LogoutAt is nil unless the
// worker has a valid logout.
type Session struct {
	LoginAt       *time.Time
	LogoutAt      *time.Time
	Regime        Regime
	SpanMinutes   float64
	TotalBreaks   int
	BreakMinutes  float64
	ActiveMinutes float64
}

// Reconcile computes the active time of one session. It never fails; any
// inconsistent combination degrades to zero or absent values, and
// 0 <= ActiveMinutes <= SpanMinutes always holds.
func Reconcile(in SessionInput, now time.Time, policy LogoutPolicy) Session {
	s := Session{
		LoginAt:      in.LoginAt,
		TotalBreaks:  max(0, in.TotalBreaks),
		BreakMinutes: clampMinutes(in.BreakMinutes),
	}
	if in.LoginAt == nil {
		s.Regime = RegimeNoLogin
		return s
	}

	var end time.Time
	switch {
	case in.IsActive:
		s.Regime = RegimeActive
		end = now
	case in.LogoutAt != nil && in.LogoutAt.After(*in.LoginAt):
		s.Regime = RegimeLoggedOut
		s.LogoutAt = in.LogoutAt
		end = *in.LogoutAt
	default:
		s.Regime = RegimeMissingLogout
		if policy != LogoutPolicyNow {
			return s
		}
		end = now
	}

	s.SpanMinutes = clampMinutes(minutesBetween(*in.LoginAt, end))
	s.ActiveMinutes = math.Max(0, s.SpanMinutes-s.BreakMinutes)
	return s
}

func (s Session) DisplayLogin(c Calendar, sentinel string) string {
	return c.Clock(s.LoginAt, sentinel)
}

func (s Session) DisplayLogout(c Calendar, sentinel string) string {
	return c.Clock(s.LogoutAt, sentinel)
}
