package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the settings read from the environment. Command line flags
// override these.
type Config struct {
	RulesPath      string
	LogLevel       string
	Port           int
	ProcessingTime time.Duration // 0 keeps the rules file value
	MaxUploadMB    int64
	Output         string // "human", "json", "yaml"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		RulesPath:      os.Getenv("TRIAGE_RULES"),
		LogLevel:       getenv("TRIAGE_LOG_LEVEL", "info"),
		Port:           getenvInt("TRIAGE_PORT", 8080),
		ProcessingTime: getenvDuration("TRIAGE_PROCESSING_TIME", 0),
		MaxUploadMB:    int64(getenvInt("TRIAGE_MAX_UPLOAD_MB", 10)),
		Output:         getenv("TRIAGE_OUTPUT", "human"),
	}
}

// MaxUploadBytes is the request body limit for image uploads.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getenvDuration accepts Go durations ("20m") or a bare number of minutes.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if m, err := strconv.ParseFloat(v, 64); err == nil && m > 0 {
		return time.Duration(m * float64(time.Minute))
	}
	return fallback
}
