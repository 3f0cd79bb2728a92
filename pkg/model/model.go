package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the triage tier derived from a severity score.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityUrgent   Priority = "URGENT"
	PriorityModerate Priority = "MODERATE"
	PriorityLow      Priority = "LOW"
)

// Severity bounds and tier thresholds.
const (
	MinSeverity = 0.0
	MaxSeverity = 10.0

	CriticalThreshold = 8.0
	UrgentThreshold   = 6.0
	ModerateThreshold = 4.0
)

// Priorities lists every tier from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityUrgent, PriorityModerate, PriorityLow}

// PriorityFromSeverity maps a severity score onto its tier. Every component
// uses this function; the thresholds are not configurable.
func PriorityFromSeverity(severity float64) Priority {
	switch {
	case severity >= CriticalThreshold:
		return PriorityCritical
	case severity >= UrgentThreshold:
		return PriorityUrgent
	case severity >= ModerateThreshold:
		return PriorityModerate
	default:
		return PriorityLow
	}
}

// ParsePriority parses a tier name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority: %s (valid: CRITICAL, URGENT, MODERATE, LOW)", s)
	}
	return p, nil
}

// Valid reports whether p is one of the four known tiers.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityUrgent, PriorityModerate, PriorityLow:
		return true
	}
	return false
}

func (p Priority) String() string {
	return string(p)
}

// ClampSeverity forces a score into [MinSeverity, MaxSeverity].
func ClampSeverity(severity float64) float64 {
	if severity < MinSeverity {
		return MinSeverity
	}
	if severity > MaxSeverity {
		return MaxSeverity
	}
	return severity
}

// Duration is the reported symptom duration bucket.
type Duration string

const (
	DurationUnderHour    Duration = "<1h"
	DurationHours        Duration = "1-6h"
	DurationDay          Duration = "6-24h"
	DurationDays         Duration = "1-3d"
	DurationOverThreeDay Duration = ">3d"
)

var durationLabels = map[Duration]string{
	DurationUnderHour:    "Less than 1 hour",
	DurationHours:        "1-6 hours",
	DurationDay:          "6-24 hours",
	DurationDays:         "1-3 days",
	DurationOverThreeDay: "More than 3 days",
}

// ParseDuration accepts either the short bucket code or its label.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for d, label := range durationLabels {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, label) {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid duration: %s (valid: <1h, 1-6h, 6-24h, 1-3d, >3d)", s)
}

// Label returns the human readable bucket name.
func (d Duration) Label() string {
	if l, ok := durationLabels[d]; ok {
		return l
	}
	return string(d)
}

// SymptomRecord is the input collected for a symptom analysis.
type SymptomRecord struct {
	Text        string   `json:"text" yaml:"text"`
	PainScale   int      `json:"pain_scale" yaml:"pain_scale"`
	Duration    Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	PatientName string   `json:"patient_name,omitempty" yaml:"patient_name,omitempty"`
	Age         int      `json:"age,omitempty" yaml:"age,omitempty"`
}

// SymptomAnalysis is the result of scoring a symptom description.
type SymptomAnalysis struct {
	Severity        float64  `json:"severity_score" yaml:"severity_score"`
	Priority        Priority `json:"priority_level" yaml:"priority_level"`
	Specialty       string   `json:"recommended_specialty" yaml:"recommended_specialty"`
	KeySymptoms     []string `json:"key_symptoms" yaml:"key_symptoms"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	EstimatedWait   string   `json:"estimated_wait_time" yaml:"estimated_wait_time"`
	Urgent          bool     `json:"urgency_flag" yaml:"urgency_flag"`
	Confidence      float64  `json:"confidence_score" yaml:"confidence_score"`
}

// ImageType tags an uploaded image. It is reported back but does not change scoring.
type ImageType string

const (
	ImageSkin    ImageType = "skin"
	ImageWound   ImageType = "wound"
	ImageGeneral ImageType = "general"
)

// ParseImageType parses an image type tag; empty input defaults to skin.
func ParseImageType(s string) (ImageType, error) {
	switch t := ImageType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return ImageSkin, nil
	case ImageSkin, ImageWound, ImageGeneral:
		return t, nil
	default:
		return "", fmt.Errorf("invalid image type: %s (valid: skin, wound, general)", s)
	}
}

// ColorStats summarises the HSV distribution of an image.
type ColorStats struct {
	MeanHue         float64 `json:"mean_hue" yaml:"mean_hue"`
	MeanSaturation  float64 `json:"mean_saturation" yaml:"mean_saturation"`
	MeanBrightness  float64 `json:"mean_brightness" yaml:"mean_brightness"`
	RedPercentage   float64 `json:"red_percentage" yaml:"red_percentage"`
	ColorUniformity float64 `json:"color_uniformity" yaml:"color_uniformity"` // hue std-dev
}

// TextureStats summarises grayscale variation and edges.
type TextureStats struct {
	Variance    float64 `json:"texture_variance" yaml:"texture_variance"`
	EdgeDensity float64 `json:"edge_density" yaml:"edge_density"`
	Smoothness  float64 `json:"smoothness" yaml:"smoothness"`
}

// ShapeStats summarises the external contours of an image.
type ShapeStats struct {
	ContourCount int     `json:"contour_count" yaml:"contour_count"`
	LargestArea  float64 `json:"largest_area" yaml:"largest_area"`
	Circularity  float64 `json:"circularity" yaml:"circularity"`
	Irregularity float64 `json:"irregularity_score" yaml:"irregularity_score"`
}

// ImageAnalysis is the result of analysing one image. When Error is set the
// feature fields are zero and RequiresReview is always true.
type ImageAnalysis struct {
	ImageType       ImageType     `json:"image_type" yaml:"image_type"`
	Categories      []string      `json:"categories,omitempty" yaml:"categories,omitempty"`
	Width           int           `json:"width,omitempty" yaml:"width,omitempty"`
	Height          int           `json:"height,omitempty" yaml:"height,omitempty"`
	Color           *ColorStats   `json:"color_analysis,omitempty" yaml:"color_analysis,omitempty"`
	Texture         *TextureStats `json:"texture_analysis,omitempty" yaml:"texture_analysis,omitempty"`
	Shape           *ShapeStats   `json:"shape_analysis,omitempty" yaml:"shape_analysis,omitempty"`
	Severity        float64       `json:"severity_score" yaml:"severity_score"`
	Findings        []string      `json:"findings,omitempty" yaml:"findings,omitempty"`
	Recommendations []string      `json:"recommendations" yaml:"recommendations"`
	Confidence      float64       `json:"confidence_score" yaml:"confidence_score"`
	RequiresReview  bool          `json:"requires_professional_review" yaml:"requires_professional_review"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// QueueEntry is a patient waiting in the triage queue.
type QueueEntry struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Priority Priority  `json:"priority" yaml:"priority"`
	Arrival  time.Time `json:"arrival_time" yaml:"arrival_time"`
}

// Resources is the care setting allocated to a patient.
type Resources struct {
	RoomType   string   `json:"room_type" yaml:"room_type"`
	StaffLevel string   `json:"staff_level" yaml:"staff_level"`
	Equipment  []string `json:"equipment" yaml:"equipment"`
}

// QueuePlacement combines a queue position with its wait estimate.
type QueuePlacement struct {
	Position int           `json:"position" yaml:"position"`
	Priority Priority      `json:"priority" yaml:"priority"`
	Wait     time.Duration `json:"wait_ns" yaml:"-"`
	WaitText string        `json:"wait" yaml:"wait"`
}
