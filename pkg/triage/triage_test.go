package triage

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/rules"
)

func newTriage() *Triage {
	return New(rules.Default())
}

func entries(ps ...model.Priority) []model.QueueEntry {
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	out := make([]model.QueueEntry, len(ps))
	for i, p := range ps {
		out[i] = model.QueueEntry{ID: string(rune('a' + i)), Priority: p, Arrival: base.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

func TestQueuePosition(t *testing.T) {
	tr := newTriage()
	low := model.PriorityLow
	queue := entries(model.PriorityCritical, model.PriorityUrgent, model.PriorityModerate, low, low)

	tests := []struct {
		severity     float64
		wantPosition int
		wantPriority model.Priority
	}{
		{9, 1, model.PriorityCritical},
		{7, 2, model.PriorityUrgent},
		{5, 3, model.PriorityModerate},
		{1, 4, model.PriorityLow},
	}
	for _, tt := range tests {
		pos, p := tr.QueuePosition(tt.severity, queue)
		if pos != tt.wantPosition || p != tt.wantPriority {
			t.Errorf("QueuePosition(%v) = %d/%s, want %d/%s", tt.severity, pos, p, tt.wantPosition, tt.wantPriority)
		}
	}
}

func TestQueuePosition_CriticalJumpsLowQueue(t *testing.T) {
	low := model.PriorityLow
	pos, p := newTriage().QueuePosition(10, entries(low, low, low, low, low, low))
	if pos != 1 || p != model.PriorityCritical {
		t.Fatalf("expected position 1 CRITICAL, got %d %s", pos, p)
	}
}

func TestQueuePosition_EmptyQueue(t *testing.T) {
	if pos, _ := newTriage().QueuePosition(2, nil); pos != 1 {
		t.Fatalf("expected position 1 in empty queue, got %d", pos)
	}
}

func TestQueuePosition_Monotonic(t *testing.T) {
	tr := newTriage()
	queue := entries(model.PriorityCritical, model.PriorityUrgent, model.PriorityUrgent, model.PriorityModerate, model.PriorityLow)
	prev := 0
	for s := 10.0; s >= 0; s -= 0.5 {
		pos, _ := tr.QueuePosition(s, queue)
		if pos < prev {
			t.Fatalf("lower severity %.1f got earlier position %d (previous %d)", s, pos, prev)
		}
		prev = pos
	}
}

func TestEstimateWait(t *testing.T) {
	tr := newTriage()
	tests := []struct {
		position int
		priority model.Priority
		want     time.Duration
	}{
		{1, model.PriorityCritical, 0},
		{3, model.PriorityUrgent, 9 * time.Minute},
		{2, model.PriorityModerate, 15 * time.Minute},
		{1, model.PriorityLow, 12 * time.Minute},
		{40, model.PriorityUrgent, time.Hour},
		{100, model.PriorityLow, 4 * time.Hour},
	}
	for _, tt := range tests {
		got, err := tr.EstimateWait(tt.position, tt.priority)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("EstimateWait(%d, %s) = %v, want %v", tt.position, tt.priority, got, tt.want)
		}
	}
}

func TestEstimateWait_NeverExceedsTierMaximum(t *testing.T) {
	tr := newTriage()
	r := rules.Default()
	for _, p := range model.Priorities {
		for pos := 1; pos <= 500; pos += 7 {
			got, err := tr.EstimateWait(pos, p)
			if err != nil {
				t.Fatal(err)
			}
			if got > r.Triage.MaxWait[p] {
				t.Fatalf("%s position %d: wait %v exceeds %v", p, pos, got, r.Triage.MaxWait[p])
			}
		}
	}
}

func TestEstimateWait_InvalidInput(t *testing.T) {
	tr := newTriage()
	if _, err := tr.EstimateWait(0, model.PriorityLow); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if _, err := tr.EstimateWait(1, model.Priority("ROUTINE")); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestEstimateWait_CustomProcessingTime(t *testing.T) {
	r := rules.Default()
	r.Triage.ProcessingTime = 10 * time.Minute
	got, err := New(r).EstimateWait(2, model.PriorityModerate)
	if err != nil {
		t.Fatal(err)
	}
	if got != 10*time.Minute {
		t.Fatalf("expected 10m, got %v", got)
	}
}

func TestFormatWait(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "Immediate"},
		{59 * time.Second, "Immediate"},
		{9 * time.Minute, "9 minutes"},
		{59*time.Minute + 30*time.Second, "59 minutes"},
		{time.Hour, "1 hours"},
		{3*time.Hour + 20*time.Minute, "3 hours 20 minutes"},
	}
	for _, tt := range tests {
		if got := FormatWait(tt.d); got != tt.want {
			t.Errorf("FormatWait(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPlace(t *testing.T) {
	pl := newTriage().Place(5, entries(model.PriorityCritical, model.PriorityLow))
	if pl.Position != 2 || pl.Priority != model.PriorityModerate {
		t.Fatalf("unexpected placement %+v", pl)
	}
	if pl.Wait != 15*time.Minute || pl.WaitText != "15 minutes" {
		t.Fatalf("unexpected wait %v / %q", pl.Wait, pl.WaitText)
	}
}

func TestAllocateResources(t *testing.T) {
	tr := newTriage()
	tests := []struct {
		severity  float64
		specialty string
		want      model.Resources
	}{
		{
			9, "Cardiology",
			model.Resources{
				RoomType:   "Emergency Room",
				StaffLevel: "Emergency Team",
				Equipment:  []string{"Defibrillator", "Ventilator", "IV Supplies", "ECG Machine", "Blood Pressure Monitor"},
			},
		},
		{
			6.5, "Emergency",
			model.Resources{
				RoomType:   "Urgent Care Room",
				StaffLevel: "Urgent Care Team",
				Equipment:  []string{"IV Supplies", "Monitoring Equipment"},
			},
		},
		{
			2, "Dermatology",
			model.Resources{
				RoomType:   "Consultation Room",
				StaffLevel: "Nurse",
				Equipment:  []string{"Basic Medical Supplies", "Dermatoscope", "Skin Biopsy Kit"},
			},
		},
	}
	for _, tt := range tests {
		got := tr.AllocateResources(tt.severity, tt.specialty)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AllocateResources(%v, %q) = %+v, want %+v", tt.severity, tt.specialty, got, tt.want)
		}
	}
}

func TestAllocateResources_DoesNotShareRuleSlices(t *testing.T) {
	tr := newTriage()
	first := tr.AllocateResources(5, "Neurology")
	second := tr.AllocateResources(5, "Orthopedics")
	if !reflect.DeepEqual(first.Equipment, []string{"Basic Medical Supplies", "Neurological Assessment Kit"}) {
		t.Fatalf("equipment list corrupted by later allocation: %v", first.Equipment)
	}
	if len(second.Equipment) != 3 {
		t.Fatalf("unexpected equipment %v", second.Equipment)
	}
}

func TestOrder(t *testing.T) {
	q := entries(model.PriorityLow, model.PriorityCritical, model.PriorityModerate, model.PriorityCritical, model.PriorityUrgent)
	got := newTriage().Order(q)

	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	want := []string{"b", "d", "e", "c", "a"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
	if q[0].ID != "a" {
		t.Fatal("Order must not reorder its input")
	}
}
