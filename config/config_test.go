package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktime/activity"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"WORKTIME_DIR": "/tmp/wt"}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/wt", cfg.Dir)
	assert.Equal(t, SourceStore, cfg.Source)
	assert.Equal(t, "http://127.0.0.1:8090", cfg.RESTURL)
	assert.Equal(t, "crm", cfg.MongoDB)
	assert.Equal(t, activity.LogoutPolicyNow, cfg.LogoutPolicy)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 30, cfg.HistoryDays)
	assert.Zero(t, cfg.Calendar.DayStart)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"WORKTIME_DIR":           "/tmp/wt",
		"WORKTIME_SOURCE":        "REST",
		"WORKTIME_REST_URL":      "https://crm.example.com",
		"WORKTIME_REST_TOKEN":    "t0k",
		"WORKTIME_TZ":            "UTC",
		"WORKTIME_DAY_START":     "5h",
		"WORKTIME_LOGOUT_POLICY": "zero",
		"WORKTIME_LOG_LEVEL":     "debug",
		"WORKTIME_POLL_INTERVAL": "1m",
		"WORKTIME_HISTORY_DAYS":  "90",
	}))
	require.NoError(t, err)

	assert.Equal(t, SourceREST, cfg.Source)
	assert.Equal(t, "https://crm.example.com", cfg.RESTURL)
	assert.Equal(t, "t0k", cfg.RESTToken)
	assert.Equal(t, time.UTC, cfg.Calendar.Location)
	assert.Equal(t, 5*time.Hour, cfg.Calendar.DayStart)
	assert.Equal(t, activity.LogoutPolicyZero, cfg.LogoutPolicy)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 90, cfg.HistoryDays)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"WORKTIME_SOURCE", "ftp"},
		{"WORKTIME_TZ", "Mars/Olympus_Mons"},
		{"WORKTIME_DAY_START", "soon"},
		{"WORKTIME_DAY_START", "25h"},
		{"WORKTIME_DAY_START", "-1h"},
		{"WORKTIME_LOGOUT_POLICY", "never"},
		{"WORKTIME_LOG_LEVEL", "chatty"},
		{"WORKTIME_POLL_INTERVAL", "0s"},
		{"WORKTIME_HISTORY_DAYS", "0"},
		{"WORKTIME_HISTORY_DAYS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := FromEnv(envOf(map[string]string{"WORKTIME_DIR": "/tmp/wt", tt.key: tt.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
