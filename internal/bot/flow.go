package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"venuehub/internal/api"
	"venuehub/internal/booking"
	"venuehub/internal/metrics"
	"venuehub/internal/pricing"
	"venuehub/internal/timeslot"
)

func (b *Bot) startBookingFlow(ctx context.Context, chatID, userID int64) {
	b.state.reset(userID)
	st := b.state.get(userID)
	st.ChatID = chatID
	st.Step = stepVenue
	b.sendVenues(ctx, chatID)
}

func (b *Bot) sendVenues(ctx context.Context, chatID int64) {
	venues, err := b.api.ListVenues(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list venues failed")
		b.reply(chatID, "Could not load venues, please try again later.")
		return
	}
	if len(venues) == 0 {
		b.reply(chatID, "No venues are available right now.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Choose a venue:")
	msg.ReplyMarkup = venuesKeyboard(venues)
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleVenueCallback(ctx context.Context, chatID, _ int64, st *userState, data string) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, "venue:"), 10, 64)
	if err != nil {
		b.reply(chatID, "Unknown venue")
		return
	}
	venue, ok := b.findVenue(ctx, id)
	if !ok {
		b.reply(chatID, "Could not load the venue, please try again.")
		return
	}
	st.Venue = venue
	st.Step = stepSpace
	b.sendSpaces(chatID, venue)
}

func (b *Bot) findVenue(ctx context.Context, id int64) (api.Venue, bool) {
	venues, err := b.api.ListVenues(ctx)
	if err != nil {
		return api.Venue{}, false
	}
	for _, v := range venues {
		if v.ID == id {
			return v, true
		}
	}
	return api.Venue{}, false
}

func (b *Bot) sendSpaces(chatID int64, venue api.Venue) {
	if len(venue.Spaces) == 0 {
		b.reply(chatID, "This venue has no bookable spaces.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Choose a space at "+venue.Name+":")
	msg.ReplyMarkup = spacesKeyboard(venue.Spaces)
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleSpaceCallback(_ context.Context, chatID, _ int64, st *userState, data string) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, "space:"), 10, 64)
	if err != nil {
		b.reply(chatID, "Unknown space")
		return
	}
	var space api.Space
	var found bool
	for _, sp := range st.Venue.Spaces {
		if sp.ID == id {
			space, found = sp, true
			break
		}
	}
	if !found {
		b.reply(chatID, "Pick a space from the list.")
		return
	}
	st.Space = space
	st.Selection.SetSpace(space.ID)
	if st.Selection.Snapshot().DurationHours == 0 {
		st.Selection.SetDuration(b.defaultDuration(space))
	}
	st.clearAvailability()
	st.Step = stepDate
	b.sendCalendar(chatID, time.Now())
}

// defaultDuration is the first offered option, not pinned: availability may
// still clamp it down.
func (b *Bot) defaultDuration(space api.Space) int {
	choices := durationChoices(b.opts.DurationOptions, space.Overrides)
	if len(choices) == 0 {
		return 1
	}
	return choices[0]
}

func (b *Bot) sendCalendar(chatID int64, month time.Time) {
	msg := tgbotapi.NewMessage(chatID, "Pick a date:")
	msg.ReplyMarkup = calendarKeyboard(month.Year(), int(month.Month()), time.Now())
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleMonthCallback(chatID int64, data string) {
	month, err := time.Parse("2006-01", strings.TrimPrefix(data, "month:"))
	if err != nil {
		return
	}
	b.sendCalendar(chatID, month)
}

func (b *Bot) handleDateCallback(ctx context.Context, chatID, userID int64, st *userState, data string) {
	date, err := time.ParseInLocation("2006-01-02", strings.TrimPrefix(data, "date:"), time.Local)
	if err != nil {
		b.reply(chatID, "Pick a date from the calendar.")
		return
	}
	st.Selection.SetDate(date)
	st.clearAvailability()
	st.Step = stepTime
	b.reply(chatID, "Checking available times for "+date.Format("Mon, 2 Jan")+"…")
	b.requestAvailability(ctx, userID, st)
}

func (b *Bot) handleSlotCallback(_ context.Context, chatID, _ int64, st *userState, data string) {
	label, ok := timeslot.Label(strings.TrimPrefix(data, "slot:")).Canonical()
	if !ok {
		b.reply(chatID, "Pick a time from the list.")
		return
	}
	avail := st.snapshotAvailability()
	if !avail.Loaded || !avail.Current.Contains(label) {
		b.reply(chatID, "That time is no longer offered, pick another one.")
		b.sendTimeSlots(chatID, st)
		return
	}
	st.Selection.SetStart(label)
	st.Step = stepDuration
	b.sendDurations(chatID, st)
}

func (b *Bot) handleDurationCallback(ctx context.Context, chatID, userID int64, st *userState, data string) {
	hours, err := strconv.Atoi(strings.TrimPrefix(data, "dur:"))
	if err != nil {
		b.reply(chatID, "Pick a duration from the list.")
		return
	}
	hours = timeslot.ClampDurationHours(hours)

	sel := st.Selection.Snapshot()
	avail := st.snapshotAvailability()
	upper := pricing.UpperBound(b.opts.DurationOptions, st.Space.Overrides)
	if !timeslot.IsDurationFeasible(hours, sel.Start, avail.Current, avail.NextDay, sel.Date, upper) {
		b.reply(chatID, "That duration no longer fits, pick another one.")
		b.sendDurations(chatID, st)
		return
	}

	st.Selection.PinDuration(hours)
	st.Step = stepClientName
	b.promptClientName(ctx, chatID, userID)
}

func (b *Bot) handleBack(ctx context.Context, chatID, userID int64, st *userState, data string) {
	switch strings.TrimPrefix(data, "back:") {
	case "venue":
		st.Step = stepVenue
		b.sendVenues(ctx, chatID)
	case "space":
		st.Step = stepSpace
		b.sendSpaces(chatID, st.Venue)
	case "date":
		st.Step = stepDate
		b.sendCalendar(chatID, time.Now())
	case "time":
		st.Step = stepTime
		b.sendTimeSlots(chatID, st)
	case "duration":
		st.Step = stepDuration
		b.sendDurations(chatID, st)
	case "name":
		st.Step = stepClientName
		b.promptClientName(ctx, chatID, userID)
	default:
		b.startBookingFlow(ctx, chatID, userID)
	}
}

func (b *Bot) promptClientName(ctx context.Context, chatID, userID int64) {
	msg := tgbotapi.NewMessage(chatID, "Your name:")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if profile, err := b.store.GetOrCreateProfile(ctx, userID); err == nil && profile.Name != "" {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Use "+profile.Name, "profname"),
		})
	}
	rows = append(rows, backRow("back:duration"))
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	_, _ = b.tg.Send(msg)
}

func (b *Bot) promptClientPhone(ctx context.Context, chatID, userID int64) {
	msg := tgbotapi.NewMessage(chatID, "Your phone number:")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if profile, err := b.store.GetOrCreateProfile(ctx, userID); err == nil && profile.Phone != "" {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Use "+profile.Phone, "profphone"),
		})
	}
	rows = append(rows, backRow("back:name"))
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleProfileNameCallback(ctx context.Context, chatID, userID int64, st *userState) {
	profile, err := b.store.GetOrCreateProfile(ctx, userID)
	if err != nil || profile.Name == "" {
		b.reply(chatID, "Please type your name.")
		return
	}
	st.ClientName = profile.Name
	st.Step = stepClientPhone
	b.promptClientPhone(ctx, chatID, userID)
}

func (b *Bot) handleProfilePhoneCallback(ctx context.Context, chatID, userID int64, st *userState) {
	profile, err := b.store.GetOrCreateProfile(ctx, userID)
	if err != nil || profile.Phone == "" {
		b.reply(chatID, "Please type your phone number.")
		return
	}
	st.ClientPhone = profile.Phone
	st.Step = stepConfirm
	b.sendConfirm(chatID, userID)
}

func (b *Bot) sendConfirm(chatID, userID int64) {
	st := b.state.get(userID)
	sel := st.Selection.Snapshot()
	msg := tgbotapi.NewMessage(chatID, summaryText(st.Venue, st.Space, sel, st.ClientName, st.ClientPhone))
	msg.ReplyMarkup = confirmKeyboard()
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleConfirmCallback(ctx context.Context, chatID, userID int64, st *userState) {
	if st.Step != stepConfirm {
		b.reply(chatID, "This form is out of date, start over with /book")
		return
	}
	if err := b.finalizeBooking(ctx, chatID, userID, st); err != nil {
		if errors.Is(err, errSlotTaken) {
			b.reply(chatID, "That time was just taken, pick another one.")
			st.Step = stepTime
			b.requestAvailability(ctx, userID, st)
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("booking failed")
		b.reply(chatID, "Could not create the booking, please try again.")
		return
	}
	b.state.reset(userID)
}

var errSlotTaken = errors.New("slot no longer available")

func (b *Bot) finalizeBooking(ctx context.Context, chatID, userID int64, st *userState) error {
	sel := st.Selection.Snapshot()
	start, err := sel.Start.At(sel.Date)
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(sel.DurationHours) * time.Hour)

	// Server-side re-check right before creation.
	verdict, err := b.api.ValidateSlot(ctx, sel.SpaceID, start, end)
	if err != nil {
		metrics.IncSlotValidation("error")
		return err
	}
	if !verdict.IsAvailable {
		metrics.IncSlotValidation("rejected")
		return errSlotTaken
	}
	metrics.IncSlotValidation("ok")

	resp, err := b.api.CreateBooking(ctx, api.CreateBookingRequest{
		SpaceID:       sel.SpaceID,
		Date:          sel.Date.Format("2006-01-02"),
		StartTime:     string(sel.Start),
		DurationHours: sel.DurationHours,
		ClientName:    st.ClientName,
		ClientPhone:   st.ClientPhone,
		TotalPrice:    pricing.PriceFor(sel.DurationHours, st.Space.HourlyRate, st.Space.Overrides),
		ExternalRef:   uuid.NewString(),
	})
	if err != nil {
		metrics.IncBookingCreated("error")
		return err
	}
	if !resp.Success {
		metrics.IncBookingCreated("rejected")
		return errSlotTaken
	}
	metrics.IncBookingCreated("ok")

	if err := b.store.UpdateProfile(ctx, userID, st.ClientName, st.ClientPhone); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("profile update failed")
	}

	b.reply(chatID, "✅ Booked! Check your bookings with /my_bookings")
	b.sendMainMenu(chatID)
	return nil
}

func (b *Bot) handleCancelCallback(chatID, userID int64) {
	b.state.reset(userID)
	b.reply(chatID, "Cancelled. /book to start over")
}

// loaderFor returns the user's availability loader, creating one whose
// deliveries are forwarded to the update loop for rendering. The loader
// callback runs on fetch goroutines and must not touch form state itself.
func (b *Bot) loaderFor(userID int64) *booking.Loader {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.loaders[userID]; ok {
		return l
	}
	l := booking.NewLoader(b.api, b.opts.FetchDebounce, b.logger, func(res booking.Result) {
		b.deliveries <- availabilityDelivery{userID: userID, res: res}
	})
	b.loaders[userID] = l
	return l
}

func (b *Bot) requestAvailability(ctx context.Context, userID int64, st *userState) {
	sel := st.Selection.Snapshot()
	b.loaderFor(userID).Request(ctx, sel.SpaceID, sel.Date, sel.DurationHours, "")
}
