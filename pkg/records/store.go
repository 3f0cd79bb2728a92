// Package records keeps the patients analyzed during the current session.
// Nothing is persisted; the store lives as long as the process.
package records

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helmcode/triage-ai/pkg/model"
)

// RecentLimit is how many records Summary returns in Recent.
const RecentLimit = 10

type Record struct {
	ID          string         `json:"id" yaml:"id"`
	Timestamp   time.Time      `json:"timestamp" yaml:"timestamp"`
	PatientName string         `json:"patient_name,omitempty" yaml:"patient_name,omitempty"`
	Age         int            `json:"age,omitempty" yaml:"age,omitempty"`
	Symptoms    string         `json:"symptoms" yaml:"symptoms"`
	Severity    float64        `json:"severity" yaml:"severity"`
	Priority    model.Priority `json:"priority" yaml:"priority"`
	Specialty   string         `json:"specialty" yaml:"specialty"`
	PainScale   int            `json:"pain_scale,omitempty" yaml:"pain_scale,omitempty"`
	Duration    model.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Summary is the dashboard view over the session.
type Summary struct {
	Total           int                    `json:"total_patients" yaml:"total_patients"`
	Critical        int                    `json:"critical_cases" yaml:"critical_cases"`
	Urgent          int                    `json:"urgent_cases" yaml:"urgent_cases"`
	AverageSeverity float64                `json:"average_severity" yaml:"average_severity"`
	PeakSeverity    float64                `json:"peak_severity" yaml:"peak_severity"`
	Trend           string                 `json:"severity_trend" yaml:"severity_trend"`
	Severities      []float64              `json:"severities" yaml:"severities"`
	Distribution    map[model.Priority]int `json:"priority_distribution" yaml:"priority_distribution"`
	Recent          []Record               `json:"recent" yaml:"recent"`
}

type Store struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add stores a record built from the input and its analysis and returns it.
func (s *Store) Add(in model.SymptomRecord, a *model.SymptomAnalysis) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(in, a)
}

// AdmitFunc analyzes one patient against the queue as it stands.
type AdmitFunc func(queue []model.QueueEntry) (model.SymptomRecord, *model.SymptomAnalysis, error)

// Admit calls fn with the current queue and stores its result while holding
// the write lock, so concurrent admissions never see the same queue. Nothing
// is stored when fn fails.
func (s *Store) Admit(fn AdmitFunc) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, a, err := fn(s.queue())
	if err != nil {
		return Record{}, err
	}
	return s.add(in, a), nil
}

func (s *Store) add(in model.SymptomRecord, a *model.SymptomAnalysis) Record {
	r := Record{
		ID:          uuid.NewString(),
		Timestamp:   s.now(),
		PatientName: in.PatientName,
		Age:         in.Age,
		Symptoms:    in.Text,
		Severity:    a.Severity,
		Priority:    a.Priority,
		Specialty:   a.Specialty,
		PainScale:   in.PainScale,
		Duration:    in.Duration,
	}
	s.records = append(s.records, r)
	return r
}

// List returns every record, newest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) Summary() Summary {
	all := s.List()

	sum := Summary{
		Total:        len(all),
		Distribution: make(map[model.Priority]int, len(model.Priorities)),
	}
	for _, p := range model.Priorities {
		sum.Distribution[p] = 0
	}

	var total float64
	sum.Severities = make([]float64, len(all))
	for i, r := range all {
		total += r.Severity
		sum.PeakSeverity = max(sum.PeakSeverity, r.Severity)
		sum.Severities[len(all)-1-i] = r.Severity
		sum.Distribution[r.Priority]++
		switch r.Priority {
		case model.PriorityCritical:
			sum.Critical++
			sum.Urgent++
		case model.PriorityUrgent:
			sum.Urgent++
		}
	}
	if len(all) > 0 {
		sum.AverageSeverity = total / float64(len(all))
	}

	sum.Trend = Trend(sum.Severities)
	sum.Recent = all[:min(len(all), RecentLimit)]
	return sum
}

// Trend compares the last value of a series with the first: a change of more
// than 10% reads as "increasing" or "decreasing", anything else as "stable".
func Trend(values []float64) string {
	if len(values) < 2 {
		return "stable"
	}

	first := values[0]
	diff := values[len(values)-1] - first

	if diff > first*0.1 {
		return "increasing"
	} else if diff < -first*0.1 {
		return "decreasing"
	}
	return "stable"
}

// Queue returns the session's patients as queue entries in arrival order.
func (s *Store) Queue() []model.QueueEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue()
}

func (s *Store) queue() []model.QueueEntry {
	out := make([]model.QueueEntry, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, model.QueueEntry{
			ID:       r.ID,
			Label:    r.PatientName,
			Priority: r.Priority,
			Arrival:  r.Timestamp,
		})
	}
	return out
}
