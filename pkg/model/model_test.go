package model

import "testing"

func TestPriorityFromSeverity(t *testing.T) {
	tests := []struct {
		severity float64
		want     Priority
	}{
		{0, PriorityLow},
		{3.99, PriorityLow},
		{4, PriorityModerate},
		{5.99, PriorityModerate},
		{6, PriorityUrgent},
		{7.99, PriorityUrgent},
		{8, PriorityCritical},
		{10, PriorityCritical},
	}
	for _, tt := range tests {
		if got := PriorityFromSeverity(tt.severity); got != tt.want {
			t.Errorf("PriorityFromSeverity(%v) = %s, want %s", tt.severity, got, tt.want)
		}
	}
}

func TestPriorityFromSeverity_Monotonic(t *testing.T) {
	rank := map[Priority]int{PriorityLow: 0, PriorityModerate: 1, PriorityUrgent: 2, PriorityCritical: 3}
	prev := -1
	for s := 0.0; s <= 10.0; s += 0.05 {
		r := rank[PriorityFromSeverity(s)]
		if r < prev {
			t.Fatalf("priority decreased at severity %.2f", s)
		}
		prev = r
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" urgent ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != PriorityUrgent {
		t.Fatalf("expected URGENT, got %s", p)
	}
	if _, err := ParsePriority("ROUTINE"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestClampSeverity(t *testing.T) {
	if got := ClampSeverity(-2); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := ClampSeverity(12.5); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
	if got := ClampSeverity(4.2); got != 4.2 {
		t.Fatalf("expected 4.2, got %v", got)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    Duration
		wantErr bool
	}{
		{"", "", false},
		{"1-3d", DurationDays, false},
		{"more than 3 days", DurationOverThreeDay, false},
		{"Less than 1 hour", DurationUnderHour, false},
		{"a week", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseDuration(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseImageType(t *testing.T) {
	if got, _ := ParseImageType(""); got != ImageSkin {
		t.Fatalf("expected default skin, got %q", got)
	}
	if got, _ := ParseImageType("Wound"); got != ImageWound {
		t.Fatalf("expected wound, got %q", got)
	}
	if _, err := ParseImageType("xray"); err == nil {
		t.Fatal("expected error for unknown image type")
	}
}
