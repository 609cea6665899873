package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"deadline-tracker/internal/workload"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	TelegramToken  string
	DatabaseURL    string
	Location       *time.Location
	LogMode        string
	PolicyFile     string
	DigestTime     string
	DigestInterval time.Duration
	HorizonWeeks   int
	SyncTimeout    time.Duration
	Policy         workload.Policy
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogMode:        strings.TrimSpace(os.Getenv("LOG_MODE")),
		PolicyFile:     strings.TrimSpace(os.Getenv("POLICY_FILE")),
		DigestTime:     strings.TrimSpace(os.Getenv("DIGEST_TIME")),
		DigestInterval: parseHours(strings.TrimSpace(os.Getenv("DIGEST_INTERVAL_HOURS"))),
		HorizonWeeks:   parsePositiveInt(os.Getenv("SUMMARY_HORIZON_WEEKS"), 4),
		SyncTimeout:    time.Duration(parsePositiveInt(os.Getenv("SYNC_TIMEOUT_SECONDS"), 10)) * time.Second,
		Policy:         workload.DefaultPolicy(),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "deadline_tracker.db"
	}

	cfg.Location = time.Local
	if tz := strings.TrimSpace(os.Getenv("TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if cfg.DigestTime == "" && cfg.DigestInterval == 0 {
		cfg.DigestTime = "08:00"
	}

	if cfg.PolicyFile != "" {
		policy, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return cfg, err
		}
		cfg.Policy = policy
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

// LoadPolicy reads a YAML scoring policy. Fields absent from the file keep
// their default values; a type_weights list replaces the default table.
func LoadPolicy(path string) (workload.Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return workload.Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(raw)
}

func ParsePolicy(raw []byte) (workload.Policy, error) {
	policy := workload.DefaultPolicy()
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return workload.Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return workload.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parsePositiveInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
