package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"venuehub/internal/api"
	"venuehub/internal/booking"
	"venuehub/internal/pricing"
	"venuehub/internal/timeslot"
)

// durationChoices merges the configured duration options with any
// pricing-override durations, sorted ascending. An 8-hour override becomes
// offerable even when the options stop at 6.
func durationChoices(options []int, overrides pricing.Overrides) []int {
	seen := make(map[int]bool, len(options)+len(overrides))
	out := make([]int, 0, len(options)+len(overrides))
	for _, h := range options {
		if h >= 1 && !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	for h := range overrides {
		if h >= 1 && !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	sort.Ints(out)
	return out
}

// buildDurationChips filters the duration choices down to the feasible ones
// and attaches a price preview to each.
func buildDurationChips(options []int, space api.Space, sel booking.Selection, avail availability) []durationChip {
	upper := pricing.UpperBound(options, space.Overrides)
	max := timeslot.MaxFeasibleDuration(sel.Start, avail.Current, avail.NextDay, sel.Date, upper)

	chips := make([]durationChip, 0, len(options))
	for _, h := range durationChoices(options, space.Overrides) {
		if !timeslot.IsDurationFeasible(h, sel.Start, avail.Current, avail.NextDay, sel.Date, upper) {
			continue
		}
		chips = append(chips, durationChip{
			Hours:    h,
			Price:    pricing.PriceFor(h, space.HourlyRate, space.Overrides),
			Selected: h == sel.DurationHours && h <= max,
		})
	}
	return chips
}

// summaryText renders the booking confirmation, flagging an end time that
// lands on the next calendar date.
func summaryText(venue api.Venue, space api.Space, sel booking.Selection, clientName, clientPhone string) string {
	var b strings.Builder
	b.WriteString("📋 Booking summary\n\n")
	fmt.Fprintf(&b, "Venue: %s\n", venue.Name)
	fmt.Fprintf(&b, "Space: %s\n", space.Name)
	fmt.Fprintf(&b, "Date: %s\n", sel.Date.Format("Mon, 2 Jan 2006"))

	start, err := sel.Start.At(sel.Date)
	if err == nil {
		end := start.Add(time.Duration(sel.DurationHours) * time.Hour)
		endLabel := string(timeslot.FormatLabel(end))
		if end.Day() != start.Day() {
			endLabel += " (next day)"
		}
		fmt.Fprintf(&b, "Time: %s – %s (%dh)\n", sel.Start, endLabel, sel.DurationHours)
	}

	fmt.Fprintf(&b, "Price: %.0f\n\n", pricing.PriceFor(sel.DurationHours, space.HourlyRate, space.Overrides))
	fmt.Fprintf(&b, "Name: %s\n", clientName)
	fmt.Fprintf(&b, "Phone: %s", clientPhone)
	return b.String()
}

func bookingLine(bk api.Booking) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s", bk.Date)
	if bk.StartTime != "" {
		fmt.Fprintf(&b, " %s", bk.StartTime)
	}
	if bk.VenueName != "" {
		fmt.Fprintf(&b, " — %s", bk.VenueName)
		if bk.SpaceName != "" {
			fmt.Fprintf(&b, " (%s)", bk.SpaceName)
		}
	}
	fmt.Fprintf(&b, " · %dh · %.0f · %s", bk.DurationHours, bk.TotalPrice, bk.Status)
	return b.String()
}

func filterDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeAndValidatePhone strips formatting and accepts 7 to 15 digits
// with an optional leading plus.
func normalizeAndValidatePhone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	plus := strings.HasPrefix(s, "+")
	digits := filterDigits(s)
	if len(digits) < 7 || len(digits) > 15 {
		return "", false
	}
	if plus {
		return "+" + digits, true
	}
	return digits, true
}
