// Package triage places patients in the queue, estimates their wait and
// allocates care resources from the tables in rules.TriageRules.
package triage

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/rules"
)

var ErrInvalidPosition = errors.New("queue position must be at least 1")

type Triage struct {
	rules *rules.TriageRules
}

func New(r *rules.Rules) *Triage {
	return &Triage{rules: &r.Triage}
}

// Weight returns the queue weight of a priority tier.
func (t *Triage) Weight(p model.Priority) float64 {
	return t.rules.Weights[p]
}

// QueuePosition returns the 1-based position a patient with the given
// severity takes in snapshot: one behind every entry with a strictly higher
// weight. Entries of equal weight do not push the patient back.
func (t *Triage) QueuePosition(severity float64, snapshot []model.QueueEntry) (int, model.Priority) {
	priority := model.PriorityFromSeverity(severity)
	weight := t.Weight(priority)

	position := 1
	for _, e := range snapshot {
		if t.Weight(e.Priority) > weight {
			position++
		}
	}
	return position, priority
}

// EstimateWait multiplies the position by the per-patient processing time,
// shrinks it by (1 - weight) and caps it at the tier's maximum wait.
func (t *Triage) EstimateWait(position int, p model.Priority) (time.Duration, error) {
	if position < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidPosition, position)
	}
	if !p.Valid() {
		return 0, fmt.Errorf("unknown priority %q", p)
	}

	base := time.Duration(position) * t.rules.ProcessingTime
	adjusted := time.Duration(math.Round(float64(base) * (1 - t.Weight(p))))
	if limit := t.rules.MaxWait[p]; adjusted > limit {
		adjusted = limit
	}
	return adjusted, nil
}

// Place combines QueuePosition and EstimateWait.
func (t *Triage) Place(severity float64, snapshot []model.QueueEntry) model.QueuePlacement {
	position, priority := t.QueuePosition(severity, snapshot)
	// position >= 1 and priority is always valid here
	wait, _ := t.EstimateWait(position, priority)
	return model.QueuePlacement{
		Position: position,
		Priority: priority,
		Wait:     wait,
		WaitText: FormatWait(wait),
	}
}

// FormatWait renders a wait duration the way the waiting room board shows it.
func FormatWait(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "Immediate"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if minutes == 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}

// AllocateResources picks the room, staff level and equipment for a patient.
func (t *Triage) AllocateResources(severity float64, specialty string) model.Resources {
	p := model.PriorityFromSeverity(severity)

	equipment := append([]string(nil), t.rules.Equipment[p]...)
	equipment = append(equipment, t.rules.SpecialtyEquipment[specialty]...)

	return model.Resources{
		RoomType:   t.rules.Rooms[p],
		StaffLevel: t.rules.Staff[p],
		Equipment:  equipment,
	}
}

// Order returns a copy of entries sorted by weight, highest first, with
// earlier arrivals first inside a tier.
func (t *Triage) Order(entries []model.QueueEntry) []model.QueueEntry {
	out := append([]model.QueueEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := t.Weight(out[i].Priority), t.Weight(out[j].Priority)
		if wi != wj {
			return wi > wj
		}
		return out[i].Arrival.Before(out[j].Arrival)
	})
	return out
}
