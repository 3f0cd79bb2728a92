package rules

import (
	"time"

	"github.com/helmcode/triage-ai/pkg/model"
)

// Default returns a fresh copy of the built-in rule set.
func Default() *Rules {
	return &Rules{
		Symptoms: defaultSymptoms(),
		Images:   defaultImages(),
		Triage:   defaultTriage(),
	}
}

func defaultSymptoms() SymptomRules {
	return SymptomRules{
		Tiers: []SeverityTier{
			{
				Name:  "critical",
				Score: 10,
				Keywords: []string{
					"chest pain", "difficulty breathing", "severe bleeding", "unconscious",
					"stroke", "heart attack", "severe allergic reaction",
				},
			},
			{
				Name:  "urgent",
				Score: 7,
				Keywords: []string{
					"high fever", "severe pain", "vomiting blood", "severe headache",
					"difficulty swallowing", "severe burns",
				},
			},
			{
				Name:  "moderate",
				Score: 4,
				Keywords: []string{
					"fever", "headache", "nausea", "dizziness", "fatigue", "cough", "stomach pain",
				},
			},
			{
				Name:  "low",
				Score: 2,
				Keywords: []string{
					"mild pain", "runny nose", "slight fever", "minor cut", "bruise", "sore throat",
				},
			},
		},
		Specialties: []Specialty{
			{Name: "Emergency", Keywords: []string{"chest pain", "difficulty breathing", "severe bleeding", "unconscious", "stroke"}},
			{Name: "Cardiology", Keywords: []string{"chest pain", "heart palpitations", "shortness of breath", "irregular heartbeat"}},
			{Name: "Neurology", Keywords: []string{"headache", "dizziness", "seizure", "numbness", "confusion", "memory loss"}},
			{Name: "Gastroenterology", Keywords: []string{"stomach pain", "nausea", "vomiting", "diarrhea", "constipation", "acid reflux"}},
			{Name: "Dermatology", Keywords: []string{"rash", "skin irritation", "itching", "acne", "mole changes", "skin lesion"}},
			{Name: "Orthopedics", Keywords: []string{"joint pain", "back pain", "fracture", "sprain", "muscle pain", "bone pain"}},
			{Name: "General Practice", Keywords: []string{"fever", "fatigue", "general discomfort", "cold symptoms", "flu symptoms"}},
		},
		DefaultSpecialty: "General Practice",
		DefaultSeverity:  3.0,
		MaxKeySymptoms:   5,
		MaxConfidence:    95,
		UrgentAbove:      7,
		PainStep:         0.5,
		Recommendations: map[model.Priority][]string{
			model.PriorityCritical: {
				"🚨 Seek immediate emergency care",
				"📞 Call emergency services if symptoms worsen",
				"🚫 Do not drive yourself to hospital",
				"⏰ Time-sensitive condition - act now",
			},
			model.PriorityUrgent: {
				"⚡ Schedule urgent appointment with {specialty}",
				"👀 Monitor symptoms closely",
				"🕐 Seek care within 24 hours",
				"📝 Document symptom progression",
			},
			model.PriorityModerate: {
				"📅 Schedule appointment with {specialty}",
				"📊 Monitor symptoms for changes",
				"💊 Consider appropriate over-the-counter remedies",
				"🏠 Rest and maintain hydration",
			},
			model.PriorityLow: {
				"📋 Routine consultation with {specialty} if symptoms persist",
				"🏠 Home care and monitoring",
				"💊 Over-the-counter remedies may help",
				"📞 Contact healthcare provider if symptoms worsen",
			},
		},
		WaitLabels: map[model.Priority]string{
			model.PriorityCritical: "Immediate (0-15 minutes)",
			model.PriorityUrgent:   "Priority (30-60 minutes)",
			model.PriorityModerate: "Standard (1-3 hours)",
			model.PriorityLow:      "Routine (2-4 hours)",
		},
	}
}

func defaultImages() ImageRules {
	return ImageRules{
		MaxWidth:      512,
		MaxPixels:     25_000_000,
		MinConfidence: 40,
		MaxConfidence: 85,
		ReviewAbove:   6,
		Severity: ImageSeverity{
			RedPercentage:   Rule{Above: 20, Points: 3},
			HueStdDev:       Rule{Above: 50, Points: 2},
			TextureVariance: Rule{Above: 1000, Points: 2},
			EdgeDensity:     Rule{Above: 30, Points: 1},
			Irregularity:    Rule{Above: 0.7, Points: 2},
			ContourCount:    Rule{Above: 5, Points: 1},
		},
		Findings: ImageFindings{
			RedPercentage:   15,
			TextureVariance: 1500,
			Irregularity:    0.6,
			HueStdDev:       60,
		},
		Recommendations: ImageRecommendations{
			SevereAt:   7,
			ModerateAt: 4,
			Severe: []string{
				"🚨 Immediate medical attention recommended",
				"📸 Document changes with photos",
				"🏥 Visit emergency care or urgent care center",
				"📝 Note any associated symptoms",
			},
			Moderate: []string{
				"👨‍⚕️ Schedule appointment with healthcare provider",
				"📊 Monitor for changes",
				"📸 Take photos to track progression",
				"🩺 Consider dermatology consultation if skin-related",
			},
			Mild: []string{
				"👀 Continue monitoring",
				"🏠 Basic home care may be sufficient",
				"📞 Contact healthcare provider if symptoms worsen",
				"📝 Keep record of any changes",
			},
			Failure: []string{
				"Please consult healthcare professional for proper evaluation",
			},
		},
		Categories: map[model.ImageType][]string{
			model.ImageSkin:    {"rash", "lesion", "discoloration", "texture_change"},
			model.ImageWound:   {"cut", "bruise", "burn", "swelling"},
			model.ImageGeneral: {"inflammation", "abnormal_growth", "color_change"},
		},
	}
}

func defaultTriage() TriageRules {
	return TriageRules{
		ProcessingTime: 15 * time.Minute,
		Weights: map[model.Priority]float64{
			model.PriorityCritical: 1.0,
			model.PriorityUrgent:   0.8,
			model.PriorityModerate: 0.5,
			model.PriorityLow:      0.2,
		},
		MaxWait: map[model.Priority]time.Duration{
			model.PriorityCritical: 15 * time.Minute,
			model.PriorityUrgent:   time.Hour,
			model.PriorityModerate: 3 * time.Hour,
			model.PriorityLow:      4 * time.Hour,
		},
		Rooms: map[model.Priority]string{
			model.PriorityCritical: "Emergency Room",
			model.PriorityUrgent:   "Urgent Care Room",
			model.PriorityModerate: "Examination Room",
			model.PriorityLow:      "Consultation Room",
		},
		Staff: map[model.Priority]string{
			model.PriorityCritical: "Emergency Team",
			model.PriorityUrgent:   "Urgent Care Team",
			model.PriorityModerate: "Nurse + Doctor",
			model.PriorityLow:      "Nurse",
		},
		Equipment: map[model.Priority][]string{
			model.PriorityCritical: {"Defibrillator", "Ventilator", "IV Supplies"},
			model.PriorityUrgent:   {"IV Supplies", "Monitoring Equipment"},
			model.PriorityModerate: {"Basic Medical Supplies"},
			model.PriorityLow:      {"Basic Medical Supplies"},
		},
		SpecialtyEquipment: map[string][]string{
			"Cardiology":  {"ECG Machine", "Blood Pressure Monitor"},
			"Neurology":   {"Neurological Assessment Kit"},
			"Dermatology": {"Dermatoscope", "Skin Biopsy Kit"},
			"Orthopedics": {"X-ray Machine", "Splinting Supplies"},
		},
	}
}
