package timeslot

import (
	"testing"
	"time"
)

func TestNewWindow_Canonicalises(t *testing.T) {
	w := NewWindow([]string{"9:00 AM", " 10:00 AM ", "garbage", "11:00 pm"})

	if len(w) != 3 {
		t.Fatalf("expected 3 labels, got %d: %v", len(w), w)
	}
	if w[0] != "9:00 AM" || w[1] != "10:00 AM" || w[2] != "11:00 PM" {
		t.Errorf("unexpected canonical labels: %v", w)
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{"9:00 AM", "10:00 AM"}

	if !w.Contains("9:00 AM") {
		t.Error("expected 9:00 AM to be present")
	}
	if !w.Contains("9:00 am") {
		t.Error("expected lookup to canonicalise the label")
	}
	if w.Contains("11:00 AM") {
		t.Error("expected 11:00 AM to be absent")
	}
	if w.Contains("not a time") {
		t.Error("malformed label must not match")
	}
}

func TestFilterPast(t *testing.T) {
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)
	now := time.Date(2026, 9, 12, 14, 0, 0, 0, time.Local) // 2:00 PM
	w := Window{"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"}

	got := FilterPast(w, date, now, time.Hour)
	if len(got) != 2 || got[0] != "3:00 PM" || got[1] != "4:00 PM" {
		t.Fatalf("expected [3:00 PM 4:00 PM], got %v", got)
	}

	// Idempotent: a second pass changes nothing.
	again := FilterPast(got, date, now, time.Hour)
	if len(again) != len(got) {
		t.Fatalf("filter is not idempotent: %v vs %v", got, again)
	}
	for i := range got {
		if got[i] != again[i] {
			t.Errorf("filter is not idempotent at %d: %s vs %s", i, got[i], again[i])
		}
	}
}

func TestFilterPast_FutureDateKeepsAll(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.Local)
	now := time.Date(2026, 9, 12, 23, 30, 0, 0, time.Local)
	w := Window{"12:00 AM", "1:00 AM", "9:00 AM"}

	got := FilterPast(w, date, now, time.Hour)
	if len(got) != len(w) {
		t.Errorf("expected all slots of a future date to survive, got %v", got)
	}
}

// Scenario from the booking form: today at 2:00 PM, slots from 1:00 PM,
// 5:00 PM missing. After the one-hour filter only 3:00 PM and 4:00 PM remain
// and the feasible run from 3:00 PM is two hours.
func TestFilterThenFeasibility(t *testing.T) {
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)
	now := time.Date(2026, 9, 12, 14, 0, 0, 0, time.Local)

	raw := NewWindow([]string{"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"})
	w := FilterPast(raw, date, now, time.Hour)

	if len(w) != 2 {
		t.Fatalf("expected 2 slots after filter, got %v", w)
	}
	if got := MaxFeasibleDuration("3:00 PM", w, nil, date, 6); got != 2 {
		t.Errorf("expected max feasible 2, got %d", got)
	}
}

func TestClampDurationHours(t *testing.T) {
	tests := []struct {
		in       int
		expected int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{6, 6},
		{12, 12},
		{13, 12},
	}
	for _, tt := range tests {
		if got := ClampDurationHours(tt.in); got != tt.expected {
			t.Errorf("clamp(%d): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}
