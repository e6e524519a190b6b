package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"worktime/activity"
)

type SourceKind string

const (
	SourceREST  = SourceKind("rest")
	SourceMongo = SourceKind("mongo")
	SourceStore = SourceKind("store")
)

type Config struct {
	Dir    string // data directory holding the db, lock and log files
	Source SourceKind

	RESTURL   string
	RESTToken string

	MongoURI string
	MongoDB  string

	Calendar     activity.Calendar
	LogoutPolicy activity.LogoutPolicy
	LogLevel     slog.Level
	PollInterval time.Duration
	HistoryDays  int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	dir := get("WORKTIME_DIR", "")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		dir = filepath.Join(home, ".worktime")
	}

	cfg := &Config{
		Dir:       dir,
		Source:    SourceKind(strings.ToLower(get("WORKTIME_SOURCE", string(SourceStore)))),
		RESTURL:   get("WORKTIME_REST_URL", "http://127.0.0.1:8090"),
		RESTToken: get("WORKTIME_REST_TOKEN", ""),
		MongoURI:  get("WORKTIME_MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   get("WORKTIME_MONGO_DB", "crm"),
	}
	switch cfg.Source {
	case SourceREST, SourceMongo, SourceStore:
	default:
		return nil, fmt.Errorf("WORKTIME_SOURCE: unknown source %q", cfg.Source)
	}

	loc, err := time.LoadLocation(get("WORKTIME_TZ", "Local"))
	if err != nil {
		return nil, fmt.Errorf("WORKTIME_TZ: %w", err)
	}
	dayStart, err := time.ParseDuration(get("WORKTIME_DAY_START", "0s"))
	if err != nil {
		return nil, fmt.Errorf("WORKTIME_DAY_START: %w", err)
	}
	if dayStart < 0 || dayStart >= 24*time.Hour {
		return nil, fmt.Errorf("WORKTIME_DAY_START: %s is outside a day", dayStart)
	}
	cfg.Calendar = activity.Calendar{Location: loc, DayStart: dayStart}

	if cfg.LogoutPolicy, err = activity.ParseLogoutPolicy(get("WORKTIME_LOGOUT_POLICY", "now")); err != nil {
		return nil, fmt.Errorf("WORKTIME_LOGOUT_POLICY: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("WORKTIME_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("WORKTIME_LOG_LEVEL: %w", err)
	}
	if cfg.PollInterval, err = time.ParseDuration(get("WORKTIME_POLL_INTERVAL", "30s")); err != nil {
		return nil, fmt.Errorf("WORKTIME_POLL_INTERVAL: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("WORKTIME_POLL_INTERVAL: must be positive")
	}
	if cfg.HistoryDays, err = strconv.Atoi(get("WORKTIME_HISTORY_DAYS", "30")); err != nil {
		return nil, fmt.Errorf("WORKTIME_HISTORY_DAYS: %w", err)
	}
	if cfg.HistoryDays < 1 {
		return nil, fmt.Errorf("WORKTIME_HISTORY_DAYS: must be at least 1")
	}
	return cfg, nil
}
