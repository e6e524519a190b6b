package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-03-01"), d)

	_, err = ParseDate("03/01/2024")
	assert.Error(t, err)
}

func TestDate_AddDays(t *testing.T) {
	assert.Equal(t, Date("2024-03-01"), Date("2024-02-29").AddDays(1))
	assert.Equal(t, Date("2023-12-31"), Date("2024-01-01").AddDays(-1))
	assert.True(t, Date("2024-01-09").Before("2024-01-10"))
	assert.Equal(t, time.Saturday, Date("2024-03-02").Weekday())
}

func TestCalendar_DateOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) // 05:00 on the 2nd in JST

	assert.Equal(t, Date("2024-03-01"), Calendar{}.DateOf(late))
	assert.Equal(t, Date("2024-03-02"), Calendar{Location: tokyo}.DateOf(late))

	nightShift := Calendar{DayStart: 5 * time.Hour}
	twoAM := time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC)
	sixAM := time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, Date("2024-03-01"), nightShift.DateOf(twoAM))
	assert.Equal(t, Date("2024-03-02"), nightShift.DateOf(sixAM))
	assert.True(t, nightShift.IsOvernight(sixAM, twoAM))
	assert.False(t, Calendar{}.IsOvernight(sixAM, twoAM))
}

func TestCalendar_Clock(t *testing.T) {
	ist := Calendar{Location: time.FixedZone("IST", 5*60*60+30*60)}
	login := time.Date(2024, 3, 1, 3, 30, 0, 0, time.UTC)

	assert.Equal(t, "09:00 AM", ist.Clock(&login, SentinelDash))
	assert.Equal(t, "03:30 AM", Calendar{}.Clock(&login, SentinelDash))
	assert.Equal(t, "-", ist.Clock(nil, SentinelDash))
	assert.Equal(t, time.UTC, Calendar{}.Zone())

	s := Reconcile(SessionInput{LoginAt: &login, IsActive: true}, login.Add(time.Hour), LogoutPolicyZero)
	assert.Equal(t, "09:00 AM", s.DisplayLogin(ist, SentinelNA))
	assert.Equal(t, "N/A", s.DisplayLogout(ist, SentinelNA))
}
