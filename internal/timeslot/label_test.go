package timeslot

import (
	"testing"
	"time"
)

func TestLabelAt(t *testing.T) {
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)

	tests := []struct {
		label  Label
		hour   int
		minute int
	}{
		{"12:00 AM", 0, 0},
		{"9:00 AM", 9, 0},
		{"12:00 PM", 12, 0},
		{"11:00 PM", 23, 0},
		{"6:30 PM", 18, 30},
	}

	for _, tt := range tests {
		at, err := tt.label.At(date)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.label, err)
		}
		if at.Hour() != tt.hour || at.Minute() != tt.minute {
			t.Errorf("%s: expected %02d:%02d, got %02d:%02d", tt.label, tt.hour, tt.minute, at.Hour(), at.Minute())
		}
		if !sameDate(at, date) {
			t.Errorf("%s: instant left the calendar date", tt.label)
		}
	}

	if _, err := Label("25:00").At(date); err == nil {
		t.Error("expected error for malformed label")
	}
}

func TestFormatLabelRoundTrip(t *testing.T) {
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)
	for h := 0; h < 24; h++ {
		at := date.Add(time.Duration(h) * time.Hour)
		label := FormatLabel(at)
		back, err := label.At(date)
		if err != nil {
			t.Fatalf("hour %d: %v", h, err)
		}
		if back.Hour() != h {
			t.Errorf("hour %d: round-tripped to %d via %s", h, back.Hour(), label)
		}
	}
}

func TestFormatLabelAcrossMidnight(t *testing.T) {
	start := time.Date(2026, 9, 12, 23, 0, 0, 0, time.Local)
	boundary := start.Add(2 * time.Hour)

	if got := FormatLabel(boundary); got != "1:00 AM" {
		t.Errorf("expected 1:00 AM, got %s", got)
	}
	if sameDate(boundary, start) {
		t.Error("boundary should be on the next calendar date")
	}
}
