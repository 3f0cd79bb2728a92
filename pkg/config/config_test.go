package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRIAGE_RULES", "TRIAGE_LOG_LEVEL", "TRIAGE_PORT",
		"TRIAGE_PROCESSING_TIME", "TRIAGE_MAX_UPLOAD_MB", "TRIAGE_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.RulesPath != "" {
		t.Fatalf("expected no rules path, got %q", cfg.RulesPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.LogLevel)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.ProcessingTime != 0 {
		t.Fatalf("expected processing time unset, got %v", cfg.ProcessingTime)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Fatalf("expected 10 MiB upload limit, got %d", cfg.MaxUploadBytes())
	}
	if cfg.Output != "human" {
		t.Fatalf("expected human output, got %q", cfg.Output)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRIAGE_RULES", "/etc/triage/rules.yaml")
	t.Setenv("TRIAGE_LOG_LEVEL", "debug")
	t.Setenv("TRIAGE_PORT", "9090")
	t.Setenv("TRIAGE_PROCESSING_TIME", "20m")
	t.Setenv("TRIAGE_MAX_UPLOAD_MB", "2")
	t.Setenv("TRIAGE_OUTPUT", "json")

	cfg := Load()

	if cfg.RulesPath != "/etc/triage/rules.yaml" || cfg.LogLevel != "debug" || cfg.Output != "json" {
		t.Fatalf("unexpected string settings %+v", cfg)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.ProcessingTime != 20*time.Minute {
		t.Fatalf("expected 20m, got %v", cfg.ProcessingTime)
	}
	if cfg.MaxUploadBytes() != 2<<20 {
		t.Fatalf("expected 2 MiB, got %d", cfg.MaxUploadBytes())
	}
}

func TestGetenvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"90s", 90 * time.Second},
		{"12", 12 * time.Minute},
		{"7.5", 7*time.Minute + 30*time.Second},
		{"-5m", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		t.Setenv("TRIAGE_PROCESSING_TIME", tt.value)
		if got := getenvDuration("TRIAGE_PROCESSING_TIME", 0); got != tt.want {
			t.Errorf("getenvDuration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGetenvInt_InvalidFallsBack(t *testing.T) {
	for _, v := range []string{"abc", "0", "-1"} {
		t.Setenv("TRIAGE_PORT", v)
		if got := getenvInt("TRIAGE_PORT", 8080); got != 8080 {
			t.Errorf("getenvInt(%q) = %d, want fallback", v, got)
		}
	}
}
