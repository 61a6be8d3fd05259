// Package timeslot implements the client-side slot availability calculator:
// hour-aligned 12-hour time labels, per-date availability windows and
// duration feasibility checks that may cross midnight.
package timeslot

import (
	"fmt"
	"strings"
	"time"
)

// labelLayout is the canonical wire format for a slot label ("9:00 AM").
const labelLayout = "3:04 PM"

// Label is a human-readable 12-hour start time with AM/PM suffix,
// e.g. "9:00 AM". Labels are hour-aligned in practice, but parsing
// accepts any minute value.
type Label string

// ParseLabel parses a wire label into its clock components.
func ParseLabel(s string) (time.Time, error) {
	t, err := time.Parse(labelLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time label %q: %w", s, err)
	}
	return t, nil
}

// FormatLabel renders an instant as a canonical label.
func FormatLabel(t time.Time) Label {
	return Label(t.Format(labelLayout))
}

// Canonical re-formats the label into canonical form ("09:00 am" -> "9:00 AM").
// Returns false for labels that do not parse.
func (l Label) Canonical() (Label, bool) {
	t, err := ParseLabel(string(l))
	if err != nil {
		return "", false
	}
	return FormatLabel(t), true
}

// At combines the label with a calendar date into an instant in the
// date's location. Returns an error for malformed labels.
func (l Label) At(date time.Time) (time.Time, error) {
	clock, err := ParseLabel(string(l))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		date.Location(),
	), nil
}

// sameDate reports whether two instants fall on the same calendar date.
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
