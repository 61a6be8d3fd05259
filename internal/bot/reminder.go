package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"venuehub/internal/api"
)

// StartReminders schedules a daily sweep that pings users about tomorrow's
// bookings. Bookings live on the platform, so the sweep walks the local
// profiles and asks the API per client reference.
func (b *Bot) StartReminders(ctx context.Context) {
	go func() {
		// First wait until next 09:00 local time, then tick every 24h.
		timer := time.NewTimer(timeUntilNextHour(9))
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				b.sendTomorrowReminders(ctx)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

func (b *Bot) sendTomorrowReminders(ctx context.Context) {
	profiles, err := b.store.ListProfiles(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("reminder: listing profiles failed")
		return
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	for _, p := range profiles {
		bookings, err := b.api.UserBookings(ctx, p.ClientRef)
		if err != nil {
			b.logger.Warn().Err(err).Int64("telegram_id", p.TelegramID).Msg("reminder: fetching bookings failed")
			continue
		}
		for _, bk := range bookings {
			if bk.Date != tomorrow || !shouldRemindStatus(bk.Status) {
				continue
			}
			msg := tgbotapi.NewMessage(p.TelegramID, formatReminderMessage(bk))
			if _, err := b.tg.Send(msg); err != nil {
				b.logger.Warn().Err(err).Int64("telegram_id", p.TelegramID).Msg("reminder: send failed")
			}
		}
	}
}

func shouldRemindStatus(status string) bool {
	switch strings.ToLower(status) {
	case "pending", "confirmed", "changed":
		return true
	default:
		return false
	}
}

func formatReminderMessage(bk api.Booking) string {
	var sb strings.Builder
	sb.WriteString("⏰ Reminder: you have a booking tomorrow")
	if bk.VenueName != "" {
		sb.WriteString(" at " + bk.VenueName)
		if bk.SpaceName != "" {
			sb.WriteString(" (" + bk.SpaceName + ")")
		}
	}
	if bk.StartTime != "" {
		sb.WriteString(", starting " + bk.StartTime)
	}
	sb.WriteString(". Status: " + bk.Status)
	return sb.String()
}

func timeUntilNextHour(hour int) time.Duration {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
