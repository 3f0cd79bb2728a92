// Package rules holds the keyword, threshold and lookup tables the analyzers
// score against. A Rules value is built once, either from the defaults or from
// a YAML overlay, and is treated as read-only afterwards.
package rules

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/helmcode/triage-ai/pkg/model"
	"gopkg.in/yaml.v3"
)

var ErrInvalidRules = errors.New("invalid rules")

// Rules is the complete rule set for every analyzer.
type Rules struct {
	Symptoms SymptomRules `yaml:"symptoms" json:"symptoms"`
	Images   ImageRules   `yaml:"images" json:"images"`
	Triage   TriageRules  `yaml:"triage" json:"triage"`
}

// SeverityTier is one keyword list and the score each match contributes.
type SeverityTier struct {
	Name     string   `yaml:"name" json:"name"`
	Score    float64  `yaml:"score" json:"score"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Specialty is a department and the keywords that point to it. Order matters:
// on equal hit counts the specialty declared first wins.
type Specialty struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

type SymptomRules struct {
	Tiers            []SeverityTier              `yaml:"tiers" json:"tiers"`
	Specialties      []Specialty                 `yaml:"specialties" json:"specialties"`
	DefaultSpecialty string                      `yaml:"default_specialty" json:"default_specialty"`
	DefaultSeverity  float64                     `yaml:"default_severity" json:"default_severity"`
	MaxKeySymptoms   int                         `yaml:"max_key_symptoms" json:"max_key_symptoms"`
	MaxConfidence    float64                     `yaml:"max_confidence" json:"max_confidence"`
	UrgentAbove      float64                     `yaml:"urgent_above" json:"urgent_above"`
	PainStep         float64                     `yaml:"pain_step" json:"pain_step"`
	Recommendations  map[model.Priority][]string `yaml:"recommendations" json:"recommendations"`
	WaitLabels       map[model.Priority]string   `yaml:"wait_labels" json:"wait_labels"`
}

// Rule adds Points to an image severity score when a statistic exceeds Above.
type Rule struct {
	Above  float64 `yaml:"above" json:"above"`
	Points float64 `yaml:"points" json:"points"`
}

type ImageSeverity struct {
	RedPercentage   Rule `yaml:"red_percentage" json:"red_percentage"`
	HueStdDev       Rule `yaml:"hue_std_dev" json:"hue_std_dev"`
	TextureVariance Rule `yaml:"texture_variance" json:"texture_variance"`
	EdgeDensity     Rule `yaml:"edge_density" json:"edge_density"`
	Irregularity    Rule `yaml:"irregularity" json:"irregularity"`
	ContourCount    Rule `yaml:"contour_count" json:"contour_count"`
}

// ImageFindings are the thresholds above which a textual finding is reported.
type ImageFindings struct {
	RedPercentage   float64 `yaml:"red_percentage" json:"red_percentage"`
	TextureVariance float64 `yaml:"texture_variance" json:"texture_variance"`
	Irregularity    float64 `yaml:"irregularity" json:"irregularity"`
	HueStdDev       float64 `yaml:"hue_std_dev" json:"hue_std_dev"`
}

type ImageRecommendations struct {
	SevereAt   float64  `yaml:"severe_at" json:"severe_at"`
	ModerateAt float64  `yaml:"moderate_at" json:"moderate_at"`
	Severe     []string `yaml:"severe" json:"severe"`
	Moderate   []string `yaml:"moderate" json:"moderate"`
	Mild       []string `yaml:"mild" json:"mild"`
	Failure    []string `yaml:"failure" json:"failure"`
}

type ImageRules struct {
	MaxWidth        int                          `yaml:"max_width" json:"max_width"`
	MaxPixels       int                          `yaml:"max_pixels" json:"max_pixels"`
	MinConfidence   float64                      `yaml:"min_confidence" json:"min_confidence"`
	MaxConfidence   float64                      `yaml:"max_confidence" json:"max_confidence"`
	ReviewAbove     float64                      `yaml:"review_above" json:"review_above"`
	Severity        ImageSeverity                `yaml:"severity" json:"severity"`
	Findings        ImageFindings                `yaml:"findings" json:"findings"`
	Recommendations ImageRecommendations         `yaml:"recommendations" json:"recommendations"`
	Categories      map[model.ImageType][]string `yaml:"categories" json:"categories"`
}

type TriageRules struct {
	ProcessingTime     time.Duration                    `yaml:"processing_time" json:"processing_time"`
	Weights            map[model.Priority]float64       `yaml:"weights" json:"weights"`
	MaxWait            map[model.Priority]time.Duration `yaml:"max_wait" json:"max_wait"`
	Rooms              map[model.Priority]string        `yaml:"rooms" json:"rooms"`
	Staff              map[model.Priority]string        `yaml:"staff" json:"staff"`
	Equipment          map[model.Priority][]string      `yaml:"equipment" json:"equipment"`
	SpecialtyEquipment map[string][]string              `yaml:"specialty_equipment" json:"specialty_equipment"`
}

// Load overlays the YAML file at path on top of Default and validates the
// result. Maps are merged key by key; lists replace the default list.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Rules, error) {
	r := Default()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that every table the analyzers index into is populated.
func (r *Rules) Validate() error {
	s := r.Symptoms
	if len(s.Tiers) == 0 {
		return fmt.Errorf("%w: no severity tiers", ErrInvalidRules)
	}
	for _, t := range s.Tiers {
		if t.Score < model.MinSeverity || t.Score > model.MaxSeverity {
			return fmt.Errorf("%w: tier %q score %.1f outside [0,10]", ErrInvalidRules, t.Name, t.Score)
		}
	}
	if len(s.Specialties) == 0 || s.DefaultSpecialty == "" {
		return fmt.Errorf("%w: specialties and default specialty are required", ErrInvalidRules)
	}
	if s.MaxKeySymptoms <= 0 {
		return fmt.Errorf("%w: max_key_symptoms must be positive", ErrInvalidRules)
	}

	if r.Images.MaxWidth <= 0 {
		return fmt.Errorf("%w: images.max_width must be positive", ErrInvalidRules)
	}
	if r.Images.MaxPixels <= 0 {
		return fmt.Errorf("%w: images.max_pixels must be positive", ErrInvalidRules)
	}
	if r.Images.MinConfidence > r.Images.MaxConfidence {
		return fmt.Errorf("%w: images.min_confidence exceeds max_confidence", ErrInvalidRules)
	}

	t := r.Triage
	if t.ProcessingTime <= 0 {
		return fmt.Errorf("%w: triage.processing_time must be positive", ErrInvalidRules)
	}
	for _, p := range model.Priorities {
		if _, ok := s.Recommendations[p]; !ok {
			return fmt.Errorf("%w: no recommendations for %s", ErrInvalidRules, p)
		}
		if s.WaitLabels[p] == "" {
			return fmt.Errorf("%w: no wait label for %s", ErrInvalidRules, p)
		}
		w, ok := t.Weights[p]
		if !ok || w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %s must be within [0,1]", ErrInvalidRules, p)
		}
		if t.MaxWait[p] <= 0 {
			return fmt.Errorf("%w: max wait for %s must be positive", ErrInvalidRules, p)
		}
		if t.Rooms[p] == "" || t.Staff[p] == "" {
			return fmt.Errorf("%w: room and staff are required for %s", ErrInvalidRules, p)
		}
		if _, ok := t.Equipment[p]; !ok {
			return fmt.Errorf("%w: no equipment list for %s", ErrInvalidRules, p)
		}
	}
	return nil
}

// YAML renders the rule set as a YAML document.
func (r *Rules) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
