package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"venuehub/internal/api"
	"venuehub/internal/metrics"
)

func (b *Bot) handleContests(ctx context.Context, chatID int64) {
	contests, err := b.api.ListContests(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list contests failed")
		b.reply(chatID, "Could not load contests, please try again later.")
		return
	}
	if len(contests) == 0 {
		b.reply(chatID, "No contests are running right now.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(contests))
	for _, c := range contests {
		label := c.Title
		if c.EndsAt != "" {
			label = fmt.Sprintf("%s (until %s)", c.Title, c.EndsAt)
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("contest:%d", c.ID)),
		})
	}
	msg := tgbotapi.NewMessage(chatID, "Running contests:")
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleContestCallback(ctx context.Context, chatID, userID int64, st *userState, data string) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, "contest:"), 10, 64)
	if err != nil {
		return
	}

	entered, err := b.store.HasContestEntry(ctx, userID, id)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("contest entry lookup failed")
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	if entered {
		b.reply(chatID, "You already entered this contest. One entry per person.")
		return
	}

	contests, err := b.api.ListContests(ctx)
	if err != nil {
		b.reply(chatID, "Could not load the contest, please try again later.")
		return
	}
	var contest api.Contest
	var found bool
	for _, c := range contests {
		if c.ID == id {
			contest, found = c, true
			break
		}
	}
	if !found {
		b.reply(chatID, "This contest has ended.")
		return
	}

	st.ContestID = contest.ID
	st.ContestTitle = contest.Title
	if contest.Question != "" {
		st.Step = stepContestAnswer
		b.reply(chatID, contest.Question)
		return
	}
	b.submitContestEntry(ctx, chatID, userID, st, "")
}

func (b *Bot) handleContestAnswer(ctx context.Context, chatID, userID int64, answer string) {
	st := b.state.get(userID)
	if st.ContestID == 0 {
		b.reply(chatID, "Pick a contest first: /contests")
		return
	}
	b.submitContestEntry(ctx, chatID, userID, st, answer)
}

func (b *Bot) submitContestEntry(ctx context.Context, chatID, userID int64, st *userState, answer string) {
	profile, err := b.store.GetOrCreateProfile(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("contest: profile lookup failed")
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	ref := uuid.NewString()
	resp, err := b.api.SubmitContestEntry(ctx, api.ContestEntryRequest{
		ContestID:   st.ContestID,
		ClientName:  profile.Name,
		ClientPhone: profile.Phone,
		Answer:      answer,
		ExternalRef: ref,
	})
	if err != nil || !resp.Success {
		metrics.IncContestEntry("error")
		zerolog.Ctx(ctx).Error().Err(err).Int64("contest_id", st.ContestID).Msg("contest entry failed")
		b.reply(chatID, "Could not submit your entry, please try again.")
		return
	}
	metrics.IncContestEntry("ok")

	if err := b.store.RecordContestEntry(ctx, userID, st.ContestID, ref); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("contest: recording entry failed")
	}

	title := st.ContestTitle
	st.ContestID = 0
	st.ContestTitle = ""
	st.Step = stepNone
	b.reply(chatID, fmt.Sprintf("🎉 You're in! Entry for %q submitted.", title))
}
