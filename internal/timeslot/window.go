package timeslot

import "time"

// Window is the ordered list of labels a resource is bookable at for one
// calendar date, as returned by the availability API. It carries no identity
// beyond the request that produced it: callers rebuild it on every date or
// duration change.
type Window []Label

// NewWindow canonicalises raw wire labels into a window. Labels that do not
// parse are dropped so that downstream feasibility checks stay total.
func NewWindow(raw []string) Window {
	w := make(Window, 0, len(raw))
	for _, s := range raw {
		if c, ok := Label(s).Canonical(); ok {
			w = append(w, c)
		}
	}
	return w
}

// Contains reports whether the window offers the given start label.
func (w Window) Contains(l Label) bool {
	c, ok := l.Canonical()
	if !ok {
		return false
	}
	for _, have := range w {
		if have == c {
			return true
		}
	}
	return false
}

// FilterPast returns the labels of w whose instant on date is at least
// lead ahead of now. The availability API includes every slot of the
// requested date; when that date is today the caller must drop slots
// starting less than one hour from now before any feasibility check.
// The filter is idempotent: filtering an already-filtered window is a no-op.
func FilterPast(w Window, date, now time.Time, lead time.Duration) Window {
	cutoff := now.Add(lead)
	out := make(Window, 0, len(w))
	for _, l := range w {
		at, err := l.At(date)
		if err != nil {
			continue
		}
		if !at.Before(cutoff) {
			out = append(out, l)
		}
	}
	return out
}

// MinDurationHours and MaxDurationHours bound the duration_hours query
// parameter accepted by the availability API.
const (
	MinDurationHours = 1
	MaxDurationHours = 12
)

// ClampDurationHours clamps a requested duration into the API's accepted
// range. Applied before any request leaves the client, regardless of the
// duration options offered by the UI.
func ClampDurationHours(h int) int {
	if h < MinDurationHours {
		return MinDurationHours
	}
	if h > MaxDurationHours {
		return MaxDurationHours
	}
	return h
}
