package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/helmcode/triage-ai/pkg/imaging"
	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/rules"
	"github.com/helmcode/triage-ai/pkg/symptom"
	"github.com/helmcode/triage-ai/pkg/triage"
)

// DefaultPainScale is the neutral pain level used when none is reported.
const DefaultPainScale = 5

// Analyzer bundles the three scoring components built from one rule set.
type Analyzer struct {
	Rules    *rules.Rules
	Symptoms *symptom.Analyzer
	Images   *imaging.Analyzer
	Triage   *triage.Triage
}

func New(r *rules.Rules) *Analyzer {
	return &Analyzer{
		Rules:    r,
		Symptoms: symptom.New(r),
		Images:   imaging.New(r),
		Triage:   triage.New(r),
	}
}

// NewFromFile loads rules from path, or uses the built-in rules when path is
// empty. A positive processingTime replaces the per-patient processing time.
func NewFromFile(path string, processingTime time.Duration) (*Analyzer, error) {
	r := rules.Default()
	if path != "" {
		var err error
		if r, err = rules.Load(path); err != nil {
			return nil, err
		}
	}
	if processingTime > 0 {
		r.Triage.ProcessingTime = processingTime
	}
	return New(r), nil
}

// SymptomReport is a symptom analysis together with the patient's place in
// the queue and the resources allocated for them.
type SymptomReport struct {
	Patient   model.SymptomRecord    `json:"patient" yaml:"patient"`
	Analysis  *model.SymptomAnalysis `json:"analysis" yaml:"analysis"`
	Queue     model.QueuePlacement   `json:"queue" yaml:"queue"`
	Resources model.Resources        `json:"resources" yaml:"resources"`
	RecordID  string                 `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

// AnalyzeSymptoms scores the description, applies the reported pain level and
// places the patient against queue.
func (a *Analyzer) AnalyzeSymptoms(in model.SymptomRecord, queue []model.QueueEntry) (*SymptomReport, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, symptom.ErrEmptySymptoms
	}
	if in.PainScale == 0 {
		in.PainScale = DefaultPainScale
	}
	if in.Age < 0 || in.Age > 150 {
		return nil, fmt.Errorf("invalid age: %d", in.Age)
	}

	analysis, err := a.Symptoms.AdjustForPain(a.Symptoms.Analyze(in.Text), in.PainScale)
	if err != nil {
		return nil, err
	}

	return &SymptomReport{
		Patient:   in,
		Analysis:  analysis,
		Queue:     a.Triage.Place(analysis.Severity, queue),
		Resources: a.Triage.AllocateResources(analysis.Severity, analysis.Specialty),
	}, nil
}
