package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/helmcode/triage-ai/pkg/model"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Symptoms.Tiers[0].Keywords[0] = "changed"
	a.Triage.Weights[model.PriorityLow] = 0.9
	if b.Symptoms.Tiers[0].Keywords[0] != "chest pain" {
		t.Fatal("mutating one default rule set leaked into another")
	}
	if b.Triage.Weights[model.PriorityLow] != 0.2 {
		t.Fatal("weight map is shared between default rule sets")
	}
}

func TestParse_OverlayKeepsDefaults(t *testing.T) {
	doc := []byte(`
triage:
  processing_time: 10m
  weights:
    LOW: 0.1
`)
	r, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Triage.ProcessingTime != 10*time.Minute {
		t.Fatalf("expected processing time 10m, got %v", r.Triage.ProcessingTime)
	}
	if r.Triage.Weights[model.PriorityLow] != 0.1 {
		t.Fatalf("expected LOW weight 0.1, got %v", r.Triage.Weights[model.PriorityLow])
	}
	if r.Triage.Weights[model.PriorityCritical] != 1.0 {
		t.Fatalf("expected CRITICAL weight kept at 1.0, got %v", r.Triage.Weights[model.PriorityCritical])
	}
	if len(r.Symptoms.Tiers) != 4 {
		t.Fatalf("expected default tiers kept, got %d", len(r.Symptoms.Tiers))
	}
}

func TestParse_ReplacesLists(t *testing.T) {
	doc := []byte(`
symptoms:
  tiers:
    - name: critical
      score: 10
      keywords: ["not breathing"]
`)
	r, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Symptoms.Tiers) != 1 || r.Symptoms.Tiers[0].Keywords[0] != "not breathing" {
		t.Fatalf("expected tier list to be replaced, got %+v", r.Symptoms.Tiers)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"score out of range", "symptoms:\n  tiers:\n    - name: x\n      score: 12\n      keywords: [a]\n"},
		{"weight out of range", "triage:\n  weights:\n    LOW: 1.5\n"},
		{"zero processing time", "triage:\n  processing_time: 0s\n"},
		{"no tiers", "symptoms:\n  tiers: []\n"},
		{"zero width", "images:\n  max_width: 0\n"},
		{"zero pixel cap", "images:\n  max_pixels: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidRules) {
				t.Fatalf("expected ErrInvalidRules, got %v", err)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("symptoms: [unterminated"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrInvalidRules) {
		t.Fatal("syntax errors should not be reported as validation errors")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("images:\n  max_width: 256\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Images.MaxWidth != 256 {
		t.Fatalf("expected max width 256, got %d", r.Images.MaxWidth)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	out, err := Default().YAML()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	r, err := Parse(out)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if r.Triage.MaxWait[model.PriorityUrgent] != time.Hour {
		t.Fatalf("expected URGENT max wait 1h after round trip, got %v", r.Triage.MaxWait[model.PriorityUrgent])
	}
}
