package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"venuehub/internal/api"
	"venuehub/internal/export"
	"venuehub/internal/metrics"
)

func (b *Bot) handleMyBookings(ctx context.Context, chatID, userID int64) {
	bookings, err := b.userBookings(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list bookings failed")
		b.reply(chatID, "Could not load your bookings, please try again later.")
		return
	}
	if len(bookings) == 0 {
		b.reply(chatID, "You have no bookings yet. /book to make one.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your bookings:\n")
	for _, bk := range bookings {
		sb.WriteString(bookingLine(bk))
		sb.WriteByte('\n')
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(bookings)+1)
	for _, bk := range bookings {
		if !cancellable(bk) {
			continue
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ Cancel %s %s", bk.Date, bk.StartTime),
				"cancelbk:"+bk.ExternalRef,
			),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("📤 Export to Excel", "export"),
	})

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	_, _ = b.tg.Send(msg)
}

func (b *Bot) userBookings(ctx context.Context, userID int64) ([]api.Booking, error) {
	profile, err := b.store.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.api.UserBookings(ctx, profile.ClientRef)
}

func cancellable(bk api.Booking) bool {
	switch strings.ToLower(bk.Status) {
	case "cancelled", "completed", "rejected":
		return false
	}
	start, err := time.ParseInLocation("2006-01-02", bk.Date, time.Local)
	if err != nil {
		return false
	}
	return start.AddDate(0, 0, 1).After(time.Now())
}

func (b *Bot) handleCancelBookingCallback(ctx context.Context, chatID, userID int64, data string) {
	ref := strings.TrimPrefix(data, "cancelbk:")
	if ref == "" {
		return
	}
	switch err := b.api.CancelBooking(ctx, ref); {
	case err == nil:
		metrics.IncBookingCancelled()
		b.reply(chatID, "Booking cancelled.")
		b.handleMyBookings(ctx, chatID, userID)
	case errors.Is(err, api.ErrNotFound):
		b.reply(chatID, "That booking no longer exists.")
	default:
		zerolog.Ctx(ctx).Error().Err(err).Str("external_ref", ref).Msg("cancel booking failed")
		b.reply(chatID, "Could not cancel the booking, please try again.")
	}
}

func (b *Bot) handleExportCallback(ctx context.Context, chatID, userID int64) {
	bookings, err := b.userBookings(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export: list bookings failed")
		b.reply(chatID, "Could not load your bookings, please try again later.")
		return
	}
	if len(bookings) == 0 {
		b.reply(chatID, "Nothing to export yet.")
		return
	}

	buf, err := export.Bookings(bookings)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export: building workbook failed")
		b.reply(chatID, "Export failed, please try again.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02")),
		Bytes: buf.Bytes(),
	})
	if _, err := b.tg.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export: sending document failed")
	}
}
