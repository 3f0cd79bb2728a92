package records

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/helmcode/triage-ai/pkg/model"
)

func newTestStore() *Store {
	s := NewStore()
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func add(s *Store, name string, severity float64) Record {
	return s.Add(
		model.SymptomRecord{Text: "symptoms of " + name, PatientName: name, PainScale: 5},
		&model.SymptomAnalysis{Severity: severity, Priority: model.PriorityFromSeverity(severity), Specialty: "General Practice"},
	)
}

func TestAdd(t *testing.T) {
	s := newTestStore()
	r := add(s, "ana", 6.5)

	if r.ID == "" {
		t.Fatal("expected an id")
	}
	if r.Priority != model.PriorityUrgent || r.Symptoms != "symptoms of ana" || r.PainScale != 5 {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.Timestamp.IsZero() {
		t.Fatal("expected a timestamp")
	}
	if other := add(s, "ben", 2); other.ID == r.ID {
		t.Fatal("ids must be unique")
	}
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore()
	add(s, "first", 2)
	add(s, "second", 4)
	add(s, "third", 9)

	got := s.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"third", "second", "first"} {
		if got[i].PatientName != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].PatientName)
		}
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore()
	for _, sev := range []float64{9, 8.5, 6, 4, 2, 1.5} {
		add(s, "p", sev)
	}

	sum := s.Summary()
	if sum.Total != 6 {
		t.Fatalf("expected 6 patients, got %d", sum.Total)
	}
	if sum.Critical != 2 {
		t.Fatalf("expected 2 critical, got %d", sum.Critical)
	}
	if sum.Urgent != 3 {
		t.Fatalf("expected 3 urgent (critical included), got %d", sum.Urgent)
	}
	if math.Abs(sum.AverageSeverity-31.0/6) > 1e-9 {
		t.Fatalf("unexpected average %v", sum.AverageSeverity)
	}
	if sum.PeakSeverity != 9 {
		t.Fatalf("expected peak 9, got %v", sum.PeakSeverity)
	}
	if !reflect.DeepEqual(sum.Severities, []float64{9, 8.5, 6, 4, 2, 1.5}) {
		t.Fatalf("expected severities in arrival order, got %v", sum.Severities)
	}
	if sum.Trend != "decreasing" {
		t.Fatalf("expected decreasing trend, got %q", sum.Trend)
	}
	want := map[model.Priority]int{
		model.PriorityCritical: 2,
		model.PriorityUrgent:   1,
		model.PriorityModerate: 1,
		model.PriorityLow:      2,
	}
	for p, n := range want {
		if sum.Distribution[p] != n {
			t.Errorf("%s: expected %d, got %d", p, n, sum.Distribution[p])
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	sum := NewStore().Summary()
	if sum.Total != 0 || sum.AverageSeverity != 0 || len(sum.Recent) != 0 {
		t.Fatalf("unexpected empty summary %+v", sum)
	}
	if len(sum.Distribution) != len(model.Priorities) {
		t.Fatalf("expected every tier in the distribution, got %v", sum.Distribution)
	}
}

func TestSummary_RecentLimit(t *testing.T) {
	s := newTestStore()
	for i := 0; i < RecentLimit+5; i++ {
		add(s, "p", 3)
	}
	last := add(s, "last", 3)

	sum := s.Summary()
	if len(sum.Recent) != RecentLimit {
		t.Fatalf("expected %d recent, got %d", RecentLimit, len(sum.Recent))
	}
	if sum.Recent[0].ID != last.ID {
		t.Fatal("expected most recent record first")
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		values []float64
		want   string
	}{
		{nil, "stable"},
		{[]float64{5}, "stable"},
		{[]float64{5, 9, 5.4}, "stable"},
		{[]float64{4, 2, 6}, "increasing"},
		{[]float64{8, 7}, "decreasing"},
		{[]float64{0, 0}, "stable"},
	}
	for _, tt := range tests {
		if got := Trend(tt.values); got != tt.want {
			t.Errorf("Trend(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestQueue(t *testing.T) {
	s := newTestStore()
	a := add(s, "ana", 9)
	b := add(s, "ben", 3)

	q := s.Queue()
	if len(q) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(q))
	}
	if q[0].ID != a.ID || q[0].Priority != model.PriorityCritical || q[0].Label != "ana" {
		t.Fatalf("unexpected first entry %+v", q[0])
	}
	if q[1].ID != b.ID || !q[1].Arrival.After(q[0].Arrival) {
		t.Fatalf("unexpected second entry %+v", q[1])
	}
}

func TestStore_ConcurrentAdd(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			add(s, "p", 5)
			_ = s.Summary()
		}()
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Fatalf("expected 50 records, got %d", s.Len())
	}
}

func TestAdmit_SeesEveryEarlierPatient(t *testing.T) {
	s := NewStore()
	var (
		mu   sync.Mutex
		seen = make(map[int]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Admit(func(queue []model.QueueEntry) (model.SymptomRecord, *model.SymptomAnalysis, error) {
				mu.Lock()
				seen[len(queue)] = true
				mu.Unlock()
				return model.SymptomRecord{Text: "cough"}, &model.SymptomAnalysis{Severity: 5, Priority: model.PriorityModerate}, nil
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Fatalf("expected 50 records, got %d", s.Len())
	}
	for n := 0; n < 50; n++ {
		if !seen[n] {
			t.Fatalf("no admission saw a queue of length %d; queue snapshots overlapped", n)
		}
	}
}

func TestAdmit_FailureStoresNothing(t *testing.T) {
	s := newTestStore()
	add(s, "ana", 9)

	boom := errors.New("boom")
	_, err := s.Admit(func(queue []model.QueueEntry) (model.SymptomRecord, *model.SymptomAnalysis, error) {
		if len(queue) != 1 {
			t.Errorf("expected one queued patient, got %d", len(queue))
		}
		return model.SymptomRecord{}, nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected store unchanged, got %d records", s.Len())
	}
}
