package timeslot

import "time"

// DefaultAlternativesCap limits how many alternative start times are
// suggested. A display cap, not a computational one.
const DefaultAlternativesCap = 4

// MaxFeasibleDuration returns the maximum number of consecutive whole hours
// bookable starting at start, capped at upperBound. A duration of d hours is
// feasible when the labels start+0h .. start+(d-1)h are all offered: same-day
// boundaries are looked up in current, boundaries that land on the following
// calendar date in nextDay.
//
// Boundaries are computed by adding elapsed hours to the combined date+time
// instant, never by incrementing an hour field: 11:00 PM plus two hours must
// become 1:00 AM of the next date, not hour 25.
//
// The function is total: an absent or malformed start label yields 0, an
// upperBound below 1 yields 0, and boundaries past the next calendar date
// are treated as unavailable.
func MaxFeasibleDuration(start Label, current, nextDay Window, date time.Time, upperBound int) int {
	if upperBound < 1 {
		return 0
	}
	if !current.Contains(start) {
		return 0
	}
	startAt, err := start.At(date)
	if err != nil {
		return 0
	}

	// The start slot itself exists, so one hour is always feasible.
	result := 1
	for i := 1; i < upperBound; i++ {
		boundary := startAt.Add(time.Duration(i) * time.Hour)
		label := FormatLabel(boundary)

		var found bool
		switch {
		case sameDate(boundary, startAt):
			found = current.Contains(label)
		case sameDate(boundary, startAt.AddDate(0, 0, 1)):
			found = nextDay.Contains(label)
		default:
			found = false
		}
		if !found {
			break
		}
		result = i + 1
	}
	return result
}

// CrossesMidnight reports whether hours consecutive hours starting at start
// have a boundary on the following calendar date, i.e. whether feasibility
// depends on the next-day window at all. A malformed start or a non-positive
// duration never crosses.
func CrossesMidnight(start Label, date time.Time, hours int) bool {
	if hours <= 0 {
		return false
	}
	startAt, err := start.At(date)
	if err != nil {
		return false
	}
	last := startAt.Add(time.Duration(hours-1) * time.Hour)
	return !sameDate(last, startAt)
}

// IsDurationFeasible reports whether hours consecutive hours starting at
// start are all available. Zero and negative durations are never feasible.
func IsDurationFeasible(hours int, start Label, current, nextDay Window, date time.Time, upperBound int) bool {
	if hours <= 0 {
		return false
	}
	return hours <= MaxFeasibleDuration(start, current, nextDay, date, upperBound)
}

// AlternativeStarts returns up to limit start times from current, in the
// window's chronological order, at which desired consecutive hours are all
// available on the same calendar date. The next-day window is deliberately
// not consulted: suggestions only cover same-day continuations.
//
// Continuations are verified with the same elapsed-time arithmetic as
// MaxFeasibleDuration rather than by array-index offsets, so a window with
// gaps cannot produce a false positive.
func AlternativeStarts(desired int, current Window, date time.Time, limit int) []Label {
	if desired < 1 || limit < 1 {
		return nil
	}
	var out []Label
	for _, start := range current {
		if sameDayRun(start, current, date) >= desired {
			out = append(out, start)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// sameDayRun counts the consecutive hours available from start without
// leaving start's calendar date.
func sameDayRun(start Label, current Window, date time.Time) int {
	startAt, err := start.At(date)
	if err != nil || !current.Contains(start) {
		return 0
	}
	run := 1
	for i := 1; ; i++ {
		boundary := startAt.Add(time.Duration(i) * time.Hour)
		if !sameDate(boundary, startAt) {
			break
		}
		if !current.Contains(FormatLabel(boundary)) {
			break
		}
		run = i + 1
	}
	return run
}
