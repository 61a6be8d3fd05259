package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handlePrograms(ctx context.Context, chatID int64) {
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

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(venues))
	for _, v := range venues {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(v.Name, fmt.Sprintf("vprog:%d", v.ID)),
		})
	}
	msg := tgbotapi.NewMessage(chatID, "Programs at which venue?")
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleVenueProgramsCallback(ctx context.Context, chatID int64, data string) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, "vprog:"), 10, 64)
	if err != nil {
		return
	}
	programs, err := b.api.ListPrograms(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list programs failed")
		b.reply(chatID, "Could not load programs, please try again later.")
		return
	}
	if len(programs) == 0 {
		b.reply(chatID, "No programs scheduled at this venue.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Programs:\n\n")
	for _, p := range programs {
		fmt.Fprintf(&sb, "🎭 %s", p.Name)
		if p.Category != "" {
			fmt.Fprintf(&sb, " · %s", p.Category)
		}
		sb.WriteByte('\n')
		if p.Schedule != "" {
			fmt.Fprintf(&sb, "   %s\n", p.Schedule)
		}
		if p.Price > 0 {
			fmt.Fprintf(&sb, "   %.0f per person\n", p.Price)
		}
		if p.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", p.Description)
		}
		sb.WriteByte('\n')
	}
	b.reply(chatID, sb.String())
}
