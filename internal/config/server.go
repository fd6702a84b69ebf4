package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	str2duration "github.com/xhit/go-str2duration/v2"
)

const defaultShutdownTimeout = 15 * time.Second

type ServerConfig struct {
	Port             string   `yaml:"port"`
	Env              string   `yaml:"env"`
	PresetDir        string   `yaml:"preset_dir"`
	CacheTTL         string   `yaml:"cache_ttl"`
	ShutdownTimeout  string   `yaml:"shutdown_timeout"`
	LogLevel         string   `yaml:"log_level"`
	LogFormat        string   `yaml:"log_format"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	// MaxTrials caps trials per API batch; 0 disables the cap.
	MaxTrials        int      `yaml:"max_trials"`
	// MaxCachedReports bounds the report cache; the oldest report is evicted first. 0 disables the bound.
	MaxCachedReports int      `yaml:"max_cached_reports"`
}

func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:             "8080",
		Env:              "development",
		PresetDir:        "./presets",
		CacheTTL:         "1h",
		ShutdownTimeout:  "15s",
		LogLevel:         "info",
		LogFormat:        "text",
		AllowedOrigins:   []string{"*"},
		MaxTrials:        1_000_000,
		MaxCachedReports: 100,
	}
}

func (s ServerConfig) Production() bool {
	return s.Env == "production"
}

// CacheTTLDuration parses cache_ttl; day units ("1d12h") are accepted.
func (s ServerConfig) CacheTTLDuration() (time.Duration, error) {
	return parseDuration("cache_ttl", s.CacheTTL)
}

// ShutdownTimeoutDuration parses shutdown_timeout; empty or zero means 15s.
func (s ServerConfig) ShutdownTimeoutDuration() (time.Duration, error) {
	d, err := parseDuration("shutdown_timeout", s.ShutdownTimeout)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		d = defaultShutdownTimeout
	}
	return d, nil
}

func (s ServerConfig) Validate() error {
	if s.Port == "" {
		return errors.New("port is required")
	}
	if _, err := s.CacheTTLDuration(); err != nil {
		return err
	}
	if _, err := s.ShutdownTimeoutDuration(); err != nil {
		return err
	}
	if s.MaxTrials < 0 {
		return errors.New("max_trials must be >= 0")
	}
	if s.MaxCachedReports < 0 {
		return errors.New("max_cached_reports must be >= 0")
	}
	return nil
}

// ApplyEnv overrides fields from the environment:
// API_PORT, API_ENV, PRESET_DIR, CACHE_TTL, LOG_LEVEL, LOG_FORMAT, ALLOWED_ORIGINS (comma-separated).
func (s *ServerConfig) ApplyEnv() {
	setFromEnv(&s.Port, "API_PORT")
	setFromEnv(&s.Env, "API_ENV")
	setFromEnv(&s.PresetDir, "PRESET_DIR")
	setFromEnv(&s.CacheTTL, "CACHE_TTL")
	setFromEnv(&s.LogLevel, "LOG_LEVEL")
	setFromEnv(&s.LogFormat, "LOG_FORMAT")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		s.AllowedOrigins = splitList(v)
	}
}

// LoadEnv loads .env style files into the process environment. Missing files are
// skipped; variables already set are not overwritten.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0", field)
	}
	return d, nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
