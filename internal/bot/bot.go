package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"venuehub/internal/api"
	"venuehub/internal/booking"
	"venuehub/internal/store"
	"venuehub/internal/timeslot"
)

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	SelfUser() tgbotapi.User
}

type realTelegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *realTelegramClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.api.Send(msg)
}

func (c *realTelegramClient) Request(msg tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return c.api.Request(msg)
}

func (c *realTelegramClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

func (c *realTelegramClient) SelfUser() tgbotapi.User {
	return c.api.Self
}

// Options tunes the booking form behaviour.
type Options struct {
	DurationOptions []int
	AlternativesCap int
	FetchDebounce   time.Duration
}

// availabilityDelivery carries one loader result to the update loop. The
// chat to render into is looked up from the user's state at delivery time.
type availabilityDelivery struct {
	userID int64
	res    booking.Result
}

// Bot is the Telegram front end of the booking platform. All bookings and
// availability live behind the platform API; the local store only keeps
// profile prefill data and contest participation.
type Bot struct {
	api    *api.Client
	store  *store.Store
	tg     telegramClient
	state  *stateStore
	opts   Options
	logger *zerolog.Logger

	// deliveries funnels loader results onto the update loop; form state is
	// only ever touched from that goroutine.
	deliveries chan availabilityDelivery

	mu      sync.Mutex
	loaders map[int64]*booking.Loader
}

func New(token string, apiClient *api.Client, st *store.Store, opts Options, logger *zerolog.Logger) (*Bot, error) {
	tgapi, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(&realTelegramClient{api: tgapi}, apiClient, st, opts, logger)
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, apiClient *api.Client, st *store.Store, opts Options, logger *zerolog.Logger) (*Bot, error) {
	return newBot(tg, apiClient, st, opts, logger)
}

func newBot(tg telegramClient, apiClient *api.Client, st *store.Store, opts Options, logger *zerolog.Logger) (*Bot, error) {
	if tg == nil {
		return nil, fmt.Errorf("telegram client is nil")
	}
	if len(opts.DurationOptions) == 0 {
		opts.DurationOptions = []int{1, 2, 3, 4, 5, 6}
	}
	if opts.AlternativesCap <= 0 {
		opts.AlternativesCap = timeslot.DefaultAlternativesCap
	}
	return &Bot{
		api:        apiClient,
		store:      st,
		tg:         tg,
		state:      newStateStore(),
		opts:       opts,
		logger:     logger,
		deliveries: make(chan availabilityDelivery, 16),
		loaders:    make(map[int64]*booking.Loader),
	}, nil
}

var mainMenu = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton("🗓 Book a space"),
		tgbotapi.NewKeyboardButton("📌 My bookings"),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton("🎭 Programs"),
		tgbotapi.NewKeyboardButton("🎁 Contests"),
	),
)

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "What would you like to do?")
	msg.ReplyMarkup = mainMenu
	_, _ = b.tg.Send(msg)
}

// Start begins polling updates and blocks until the context is cancelled.
// Updates and availability deliveries are handled on this one goroutine,
// which is the only writer of user form state.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	b.logger.Info().Str("username", b.tg.SelfUser().UserName).Msg("bot authorized")

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			requestID := uuid.New().String()
			l := b.logger.With().Str("request_id", requestID).Logger()
			updateCtx := l.WithContext(ctx)
			b.handleUpdate(updateCtx, &update)
		case d := <-b.deliveries:
			b.onAvailability(d.userID, d.res)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	if update.CallbackQuery != nil {
		l.Debug().
			Int64("user_id", update.CallbackQuery.From.ID).
			Str("data", update.CallbackQuery.Data).
			Msg("handling callback query")
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		l.Debug().
			Int64("user_id", update.Message.From.ID).
			Str("text", update.Message.Text).
			Msg("handling message")
		b.handleMessage(ctx, update.Message)
		return
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)

	// Commands interrupt any active flow.
	switch {
	case strings.HasPrefix(text, "/start"):
		b.state.reset(msg.From.ID)
		b.reply(msg.Chat.ID, "Welcome! Book venue spaces by the hour, browse programs and join contests.")
		b.sendMainMenu(msg.Chat.ID)
		return
	case text == "🗓 Book a space" || strings.HasPrefix(text, "/book"):
		b.startBookingFlow(ctx, msg.Chat.ID, msg.From.ID)
		return
	case text == "📌 My bookings" || strings.HasPrefix(text, "/my_bookings"):
		b.handleMyBookings(ctx, msg.Chat.ID, msg.From.ID)
		return
	case text == "🎭 Programs" || strings.HasPrefix(text, "/programs"):
		b.handlePrograms(ctx, msg.Chat.ID)
		return
	case text == "🎁 Contests" || strings.HasPrefix(text, "/contests"):
		b.handleContests(ctx, msg.Chat.ID)
		return
	case strings.HasPrefix(text, "/cancel"):
		b.state.reset(msg.From.ID)
		b.reply(msg.Chat.ID, "Cancelled.")
		b.sendMainMenu(msg.Chat.ID)
		return
	case strings.HasPrefix(text, "/help"):
		b.reply(msg.Chat.ID, "Commands: /book, /my_bookings, /programs, /contests, /cancel")
		return
	}

	st := b.state.get(msg.From.ID)
	switch st.Step {
	case stepClientName:
		if text == "" {
			b.reply(msg.Chat.ID, "Please enter your name.")
			return
		}
		st.ClientName = text
		st.Step = stepClientPhone
		b.promptClientPhone(ctx, msg.Chat.ID, msg.From.ID)
	case stepClientPhone:
		phone, ok := normalizeAndValidatePhone(text)
		if !ok {
			b.reply(msg.Chat.ID, "That doesn't look like a phone number. Example: +1 555 123-4567")
			return
		}
		st.ClientPhone = phone
		st.Step = stepConfirm
		b.sendConfirm(msg.Chat.ID, msg.From.ID)
	case stepContestAnswer:
		b.handleContestAnswer(ctx, msg.Chat.ID, msg.From.ID, text)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.Message == nil {
		return
	}
	data := cq.Data
	_ = b.answerCallback(cq.ID)
	if data == "noop" {
		return
	}

	userID := cq.From.ID
	chatID := cq.Message.Chat.ID
	st := b.state.get(userID)
	st.ChatID = chatID

	switch {
	case strings.HasPrefix(data, "venue:"):
		b.handleVenueCallback(ctx, chatID, userID, st, data)
	case strings.HasPrefix(data, "space:"):
		b.handleSpaceCallback(ctx, chatID, userID, st, data)
	case strings.HasPrefix(data, "month:"):
		b.handleMonthCallback(chatID, data)
	case strings.HasPrefix(data, "date:"):
		b.handleDateCallback(ctx, chatID, userID, st, data)
	case strings.HasPrefix(data, "slot:"):
		b.handleSlotCallback(ctx, chatID, userID, st, data)
	case strings.HasPrefix(data, "dur:"):
		b.handleDurationCallback(ctx, chatID, userID, st, data)
	case strings.HasPrefix(data, "back:"):
		b.handleBack(ctx, chatID, userID, st, data)
	case data == "profname":
		b.handleProfileNameCallback(ctx, chatID, userID, st)
	case data == "profphone":
		b.handleProfilePhoneCallback(ctx, chatID, userID, st)
	case data == "confirm":
		b.handleConfirmCallback(ctx, chatID, userID, st)
	case data == "cancel":
		b.handleCancelCallback(chatID, userID)
	case strings.HasPrefix(data, "cancelbk:"):
		b.handleCancelBookingCallback(ctx, chatID, userID, data)
	case data == "export":
		b.handleExportCallback(ctx, chatID, userID)
	case strings.HasPrefix(data, "vprog:"):
		b.handleVenueProgramsCallback(ctx, chatID, data)
	case strings.HasPrefix(data, "contest:"):
		b.handleContestCallback(ctx, chatID, userID, st, data)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = b.tg.Send(msg)
}

func (b *Bot) answerCallback(id string) error {
	_, err := b.tg.Request(tgbotapi.NewCallback(id, ""))
	return err
}
