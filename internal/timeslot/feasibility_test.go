package timeslot

import (
	"testing"
	"time"
)

var testDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)

// hourly builds a window of count sequential hourly labels starting at startHour.
func hourly(startHour, count int) Window {
	w := make(Window, 0, count)
	for i := 0; i < count; i++ {
		at := time.Date(2026, 9, 12, startHour, 0, 0, 0, time.Local).Add(time.Duration(i) * time.Hour)
		w = append(w, FormatLabel(at))
	}
	return w
}

func TestMaxFeasibleDuration_ContiguousWindow(t *testing.T) {
	// A window of n+1 sequential labels supports exactly n hours from the
	// first label when the bound is n.
	for n := 1; n <= 6; n++ {
		w := hourly(9, n+1)
		got := MaxFeasibleDuration(w[0], w, nil, testDate, n)
		if got != n {
			t.Errorf("n=%d: expected %d, got %d", n, n, got)
		}
	}
}

func TestMaxFeasibleDuration_StopsAtGap(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		start    Label
		bound    int
		expected int
	}{
		{
			name:     "gap after two hours",
			window:   Window{"9:00 AM", "10:00 AM", "12:00 PM", "1:00 PM"},
			start:    "9:00 AM",
			bound:    6,
			expected: 2,
		},
		{
			name:     "single slot",
			window:   Window{"3:00 PM"},
			start:    "3:00 PM",
			bound:    6,
			expected: 1,
		},
		{
			name:     "start not offered",
			window:   Window{"9:00 AM", "10:00 AM"},
			start:    "8:00 AM",
			bound:    6,
			expected: 0,
		},
		{
			name:     "empty window",
			window:   nil,
			start:    "9:00 AM",
			bound:    6,
			expected: 0,
		},
		{
			name:     "malformed start label",
			window:   Window{"9:00 AM"},
			start:    "whenever",
			bound:    6,
			expected: 0,
		},
		{
			name:     "zero upper bound",
			window:   Window{"9:00 AM", "10:00 AM"},
			start:    "9:00 AM",
			bound:    0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxFeasibleDuration(tt.start, tt.window, nil, testDate, tt.bound)
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestMaxFeasibleDuration_CrossesMidnight(t *testing.T) {
	current := Window{"11:00 PM"}
	nextDay := Window{"12:00 AM", "1:00 AM"}

	got := MaxFeasibleDuration("11:00 PM", current, nextDay, testDate, 3)
	if got != 3 {
		t.Errorf("expected 3 hours across midnight, got %d", got)
	}

	// Without the next-day window the run ends at midnight.
	got = MaxFeasibleDuration("11:00 PM", current, nil, testDate, 3)
	if got != 1 {
		t.Errorf("expected 1 hour without next-day window, got %d", got)
	}
}

func TestMaxFeasibleDuration_NextDayGap(t *testing.T) {
	current := Window{"10:00 PM", "11:00 PM"}
	nextDay := Window{"1:00 AM"} // midnight missing

	got := MaxFeasibleDuration("10:00 PM", current, nextDay, testDate, 6)
	if got != 2 {
		t.Errorf("expected run to stop at missing 12:00 AM, got %d", got)
	}
}

func TestIsDurationFeasible(t *testing.T) {
	w := hourly(9, 4) // 9 AM .. 12 PM

	tests := []struct {
		hours    int
		expected bool
	}{
		{0, false},
		{-1, false},
		{1, true},
		{4, true},
		{5, false},
	}

	for _, tt := range tests {
		got := IsDurationFeasible(tt.hours, w[0], w, nil, testDate, 6)
		if got != tt.expected {
			t.Errorf("hours=%d: expected %v, got %v", tt.hours, tt.expected, got)
		}
	}
}

func TestAlternativeStarts(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		desired  int
		limit    int
		expected []Label
	}{
		{
			name:     "suggests starts with long enough runs",
			window:   Window{"9:00 AM", "10:00 AM", "1:00 PM", "2:00 PM", "3:00 PM"},
			desired:  2,
			limit:    4,
			expected: []Label{"9:00 AM", "1:00 PM", "2:00 PM"},
		},
		{
			name:     "respects display cap",
			window:   hourly(9, 8),
			desired:  2,
			limit:    4,
			expected: []Label{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM"},
		},
		{
			name:     "no runs long enough",
			window:   Window{"9:00 AM", "11:00 AM", "1:00 PM"},
			desired:  2,
			limit:    4,
			expected: nil,
		},
		{
			name:     "late evening run would cross midnight",
			window:   Window{"10:00 PM", "11:00 PM"},
			desired:  3,
			limit:    4,
			expected: nil, // same-day continuations only
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlternativeStarts(tt.desired, tt.window, testDate, tt.limit)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("index %d: expected %s, got %s", i, tt.expected[i], got[i])
				}
			}
			if len(got) > tt.limit {
				t.Errorf("returned %d suggestions, cap is %d", len(got), tt.limit)
			}
		})
	}
}

func TestAlternativeStarts_RunsCoverDesired(t *testing.T) {
	w := Window{"9:00 AM", "10:00 AM", "11:00 AM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM"}
	for desired := 1; desired <= 4; desired++ {
		for _, start := range AlternativeStarts(desired, w, testDate, DefaultAlternativesCap) {
			if !IsDurationFeasible(desired, start, w, nil, testDate, MaxDurationHours) {
				t.Errorf("desired=%d: suggested start %s has a shorter run", desired, start)
			}
		}
	}
}

func TestCrossesMidnight(t *testing.T) {
	tests := []struct {
		name     string
		start    Label
		hours    int
		expected bool
	}{
		{"afternoon stays same day", "2:00 PM", 4, false},
		{"run ending exactly at midnight", "10:00 PM", 2, false},
		{"last hour starts next day", "11:00 PM", 2, true},
		{"long run from late evening", "9:00 PM", 6, true},
		{"zero hours", "11:00 PM", 0, false},
		{"malformed label", "25:00", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CrossesMidnight(tt.start, testDate, tt.hours); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
