package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"venuehub/internal/booking"
	"venuehub/internal/metrics"
	"venuehub/internal/pricing"
	"venuehub/internal/timeslot"
)

// onAvailability runs on the update loop whenever a result for this user
// survives the latest-wins filter. A partial result renders the start-time
// list (which only needs the current date); the completing result upgrades
// duration feasibility with the next-day window.
func (b *Bot) onAvailability(userID int64, res booking.Result) {
	st := b.state.get(userID)
	chatID := st.ChatID
	st.setAvailability(availability{
		FetchID:         res.ID,
		Current:         res.Current,
		NextDay:         res.NextDay,
		NextDayResolved: res.NextDayResolved,
		Failed:          res.CurrentErr != nil,
		Loaded:          true,
	})

	sel := st.Selection.Snapshot()

	// A start carried over from before this fetch may have disappeared.
	if sel.Start != "" && !res.Current.Contains(sel.Start) {
		st.Selection.SetStart("")
		st.Step = stepTime
		b.reply(chatID, fmt.Sprintf("%s is no longer available, please pick a new time.", sel.Start))
		b.sendTimeSlots(chatID, st)
		return
	}

	// A selection running past midnight is clamped only against a complete
	// result; the partial one lacks the next-day window its maximum depends
	// on, and the clamp fires at most once per fetch.
	if sel.Start != "" &&
		(res.NextDayResolved || !timeslot.CrossesMidnight(sel.Start, sel.Date, sel.DurationHours)) {
		upper := pricing.UpperBound(b.opts.DurationOptions, st.Space.Overrides)
		max := timeslot.MaxFeasibleDuration(sel.Start, res.Current, res.NextDay, sel.Date, upper)
		if hours, changed := st.Selection.ApplyAvailability(res.ID, max); changed {
			metrics.IncDurationAutoAdjusted()
			b.reply(chatID, fmt.Sprintf("Duration shortened to %dh to match availability.", hours))
		}
	}

	switch st.Step {
	case stepTime:
		if !res.NextDayResolved {
			b.sendTimeSlots(chatID, st)
		}
	case stepDuration:
		b.sendDurations(chatID, st)
	}
}

func (b *Bot) sendTimeSlots(chatID int64, st *userState) {
	avail := st.snapshotAvailability()
	if !avail.Loaded {
		b.reply(chatID, "Still loading available times…")
		return
	}
	if len(avail.Current) == 0 {
		text := "No available times for this date, pick another day."
		if avail.Failed {
			text = "Could not load availability, pick another day or try again."
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{backRow("back:date")},
		}
		_, _ = b.tg.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Choose a start time:")
	msg.ReplyMarkup = slotsKeyboard(avail.Current)
	_, _ = b.tg.Send(msg)
}

func (b *Bot) sendDurations(chatID int64, st *userState) {
	sel := st.Selection.Snapshot()
	avail := st.snapshotAvailability()
	if sel.Start == "" {
		b.sendTimeSlots(chatID, st)
		return
	}

	chips := buildDurationChips(b.opts.DurationOptions, st.Space, sel, avail)
	if len(chips) == 0 {
		b.reply(chatID, "That time is no longer bookable, pick another one.")
		st.Step = stepTime
		b.sendTimeSlots(chatID, st)
		return
	}

	text := fmt.Sprintf("How long from %s?", sel.Start)
	if !avail.NextDayResolved {
		text += "\nStill checking times past midnight, longer durations may appear."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = durationsKeyboard(chips)
	_, _ = b.tg.Send(msg)

	// A pinned duration that stopped fitting is never silently shrunk;
	// offer start times where it still fits instead.
	upper := pricing.UpperBound(b.opts.DurationOptions, st.Space.Overrides)
	if st.Selection.DurationPinned() &&
		!timeslot.IsDurationFeasible(sel.DurationHours, sel.Start, avail.Current, avail.NextDay, sel.Date, upper) {
		starts := timeslot.AlternativeStarts(sel.DurationHours, avail.Current, sel.Date, b.opts.AlternativesCap)
		if len(starts) > 0 {
			alt := tgbotapi.NewMessage(chatID, fmt.Sprintf("%dh doesn't fit at %s, but it does at:", sel.DurationHours, sel.Start))
			alt.ReplyMarkup = alternativesKeyboard(starts)
			_, _ = b.tg.Send(alt)
		}
	}
}
