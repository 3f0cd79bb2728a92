// Package symptom scores free-text symptom descriptions against the keyword
// tables in rules.SymptomRules.
package symptom

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/rules"
)

var (
	// ErrEmptySymptoms is returned by callers that refuse blank descriptions.
	// Analyze itself scores blank text with the default severity.
	ErrEmptySymptoms = errors.New("symptom description is empty")

	ErrPainScale = errors.New("pain scale must be between 1 and 10")
)

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

const specialtyPlaceholder = "{specialty}"

// Analyzer scores symptom text. It only reads its rules and is safe for
// concurrent use.
type Analyzer struct {
	rules *rules.SymptomRules
}

func New(r *rules.Rules) *Analyzer {
	return &Analyzer{rules: &r.Symptoms}
}

// Normalize lowercases text, turns punctuation into spaces and collapses runs
// of whitespace.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctuation.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Analyze scores a symptom description.
func (a *Analyzer) Analyze(text string) *model.SymptomAnalysis {
	cleaned := Normalize(text)
	matched := a.matchKeywords(cleaned)

	severity := a.severity(matched)
	priority := model.PriorityFromSeverity(severity)
	specialty := a.Specialty(cleaned)

	return &model.SymptomAnalysis{
		Severity:        round(severity, 2),
		Priority:        priority,
		Specialty:       specialty,
		KeySymptoms:     a.keySymptoms(matched),
		Recommendations: a.recommendations(priority, specialty),
		EstimatedWait:   a.rules.WaitLabels[priority],
		Urgent:          severity > a.rules.UrgentAbove,
		Confidence:      a.confidence(cleaned, len(matched)),
	}
}

// AdjustForPain returns a copy of result with the severity shifted by the
// reported pain level (5 is neutral) and every derived field recomputed.
func (a *Analyzer) AdjustForPain(result *model.SymptomAnalysis, pain int) (*model.SymptomAnalysis, error) {
	if pain < 1 || pain > 10 {
		return nil, fmt.Errorf("%w: got %d", ErrPainScale, pain)
	}

	adjusted := *result
	adjusted.Severity = round(model.ClampSeverity(result.Severity+float64(pain-5)*a.rules.PainStep), 2)
	adjusted.Priority = model.PriorityFromSeverity(adjusted.Severity)
	adjusted.EstimatedWait = a.rules.WaitLabels[adjusted.Priority]
	adjusted.Urgent = adjusted.Severity > a.rules.UrgentAbove
	adjusted.Recommendations = a.recommendations(adjusted.Priority, adjusted.Specialty)
	adjusted.KeySymptoms = append([]string(nil), result.KeySymptoms...)
	return &adjusted, nil
}

// Specialty picks the department whose keywords appear most often in
// normalized text. Ties go to the specialty declared first in the rules.
func (a *Analyzer) Specialty(normalized string) string {
	best, bestHits := "", 0
	for _, s := range a.rules.Specialties {
		hits := 0
		for _, kw := range s.Keywords {
			if strings.Contains(normalized, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = s.Name, hits
		}
	}
	if bestHits == 0 {
		return a.rules.DefaultSpecialty
	}
	return best
}

type match struct {
	keyword string
	score   float64
}

// matchKeywords returns one match per tier keyword contained in text, in
// table order. A keyword listed in two tiers counts twice.
func (a *Analyzer) matchKeywords(text string) []match {
	if text == "" {
		return nil
	}
	var out []match
	for _, tier := range a.rules.Tiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(text, kw) {
				out = append(out, match{keyword: kw, score: tier.Score})
			}
		}
	}
	return out
}

func (a *Analyzer) severity(matched []match) float64 {
	if len(matched) == 0 {
		return a.rules.DefaultSeverity
	}
	var total float64
	for _, m := range matched {
		total += m.score
	}
	return math.Min(total/float64(len(matched)), model.MaxSeverity)
}

func (a *Analyzer) keySymptoms(matched []match) []string {
	seen := make(map[string]bool, len(matched))
	out := []string{}
	for _, m := range matched {
		if seen[m.keyword] {
			continue
		}
		seen[m.keyword] = true
		out = append(out, m.keyword)
		if len(out) == a.rules.MaxKeySymptoms {
			break
		}
	}
	return out
}

func (a *Analyzer) recommendations(p model.Priority, specialty string) []string {
	templates := a.rules.Recommendations[p]
	out := make([]string, len(templates))
	for i, tmpl := range templates {
		out[i] = strings.ReplaceAll(tmpl, specialtyPlaceholder, specialty)
	}
	return out
}

func (a *Analyzer) confidence(text string, matches int) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	c := math.Min(float64(matches)/float64(words)*100, a.rules.MaxConfidence)
	return round(c, 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
