// Package bot is the Telegram presentation layer. It renders whatever mode
// a chat's suggestion cycle is in and translates button presses into the
// two cycle signals; it holds no suggestion state of its own.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chewsy/internal/history"
	"chewsy/internal/metrics"
	"chewsy/internal/suggest"
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

// Bot wires chat updates to per-chat suggestion cycles.
type Bot struct {
	tg       telegramClient
	sessions *suggest.SessionStore
	journal  *history.DB // optional
	managers map[int64]struct{}
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

func New(token string, sessions *suggest.SessionStore, journal *history.DB, managers []int64, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(&realTelegramClient{api: api}, sessions, journal, managers, logger)
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, sessions *suggest.SessionStore, journal *history.DB, managers []int64, logger *zerolog.Logger) (*Bot, error) {
	return newBot(tg, sessions, journal, managers, logger)
}

func newBot(tg telegramClient, sessions *suggest.SessionStore, journal *history.DB, managers []int64, logger *zerolog.Logger) (*Bot, error) {
	if tg == nil {
		return nil, fmt.Errorf("telegram client is nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is nil")
	}
	mgrs := make(map[int64]struct{})
	for _, id := range managers {
		mgrs[id] = struct{}{}
	}
	return &Bot{
		tg:       tg,
		sessions: sessions,
		journal:  journal,
		managers: mgrs,
		// Telegram tolerates roughly 30 messages/sec per bot.
		limiter: rate.NewLimiter(rate.Limit(20), 30),
		logger:  logger,
	}, nil
}

// Start begins polling updates and handles them to completion, one at a
// time.
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
			b.handleUpdate(l.WithContext(ctx), &update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	if update.CallbackQuery != nil {
		l.Debug().
			Int64("user_id", update.CallbackQuery.From.ID).
			Str("data", update.CallbackQuery.Data).
			Msg("handling callback")
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		l.Debug().
			Int64("user_id", update.Message.From.ID).
			Str("text", update.Message.Text).
			Msg("handling message")
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	switch {
	case strings.HasPrefix(text, "/start"):
		cycle := b.sessions.Reset(chatID)
		b.recordPresented(ctx, chatID, cycle)
		b.present(ctx, chatID, 0, cycle, 0)
	case strings.HasPrefix(text, "/next"):
		b.advance(ctx, chatID, 0)
	case strings.HasPrefix(text, "/list"):
		b.toggleTabulation(ctx, chatID, 0)
	case strings.HasPrefix(text, "/stats") && b.isManager(msg.From.ID):
		b.handleStats(ctx, chatID)
	case strings.HasPrefix(text, "/export") && b.isManager(msg.From.ID):
		b.handleExport(ctx, chatID)
	case strings.HasPrefix(text, "/help"):
		b.reply(ctx, chatID, "I pick a place to eat that's open right now.\n/start — new round of suggestions\n/next — thumbs-down, show another\n/list — all places with open/closed flags")
	default:
		// Anything else nudges the current state back onto the screen.
		b.present(ctx, chatID, 0, b.sessions.GetOrCreate(chatID), 0)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch {
	case cb.Data == callbackNext:
		b.advance(ctx, chatID, messageID)
	case cb.Data == callbackList:
		b.toggleTabulation(ctx, chatID, messageID)
	case strings.HasPrefix(cb.Data, callbackListPage):
		page, err := strconv.Atoi(strings.TrimPrefix(cb.Data, callbackListPage))
		if err != nil || page < 0 {
			page = 0
		}
		b.present(ctx, chatID, messageID, b.sessions.GetOrCreate(chatID), page)
	}

	if _, err := b.tg.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("answer callback failed")
	}
}

// advance delivers the reject-current signal to the chat's cycle.
func (b *Bot) advance(ctx context.Context, chatID int64, messageID int) {
	cycle := b.sessions.GetOrCreate(chatID)
	prev := cycle.Mode()
	mode := cycle.Advance()

	switch mode {
	case suggest.ModePresenting:
		if prev == suggest.ModeTerminated {
			metrics.IncCycleRestarted()
			b.record(ctx, chatID, history.EventRestarted, "")
		}
		b.recordPresented(ctx, chatID, cycle)
	case suggest.ModeTerminated:
		metrics.IncCycleTerminated()
		b.record(ctx, chatID, history.EventTerminated, "")
	}

	b.present(ctx, chatID, messageID, cycle, 0)
}

func (b *Bot) toggleTabulation(ctx context.Context, chatID int64, messageID int) {
	cycle := b.sessions.GetOrCreate(chatID)
	mode := cycle.ToggleTabulation()

	if mode == suggest.ModeTabulating {
		metrics.IncTabulationToggled("on")
		b.record(ctx, chatID, history.EventTabulated, "")
	} else {
		metrics.IncTabulationToggled("off")
	}

	b.present(ctx, chatID, messageID, cycle, 0)
}

// recordPresented journals whatever the cycle now has on display: the
// current suggestion, or the terminal state when it started out empty.
func (b *Bot) recordPresented(ctx context.Context, chatID int64, cycle *suggest.Cycle) {
	if cur, ok := cycle.Current(); ok {
		metrics.IncSuggestionShown()
		b.record(ctx, chatID, history.EventSuggested, cur.Name)
	} else if cycle.Mode() == suggest.ModeTerminated {
		metrics.IncCycleTerminated()
		b.record(ctx, chatID, history.EventTerminated, "")
	}
}

// present renders the cycle's current mode into the chat, editing the
// originating message when there is one.
func (b *Bot) present(ctx context.Context, chatID int64, messageID int, cycle *suggest.Cycle, page int) {
	var text string
	var keyboard tgbotapi.InlineKeyboardMarkup

	switch cycle.Mode() {
	case suggest.ModeTabulating:
		rows := cycle.Rows()
		text = listingText(rows, page)
		keyboard = listingKeyboard(rows, page)
	case suggest.ModeTerminated:
		text = terminalMessage
		keyboard = terminatedKeyboard()
	default:
		cur, ok := cycle.Current()
		if !ok {
			text = terminalMessage
			keyboard = terminatedKeyboard()
			break
		}
		text = suggestionText(cur)
		keyboard = suggestionKeyboard()
	}

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
		b.send(ctx, edit)
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(ctx, msg)
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	if b.journal == nil {
		b.reply(ctx, chatID, "The suggestion journal is disabled.")
		return
	}

	counts, err := b.journal.EventCounts(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("stats query failed")
		b.reply(ctx, chatID, "Stats are unavailable right now.")
		return
	}
	top, err := b.journal.TopSuggested(ctx, 5)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("stats query failed")
		b.reply(ctx, chatID, "Stats are unavailable right now.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Suggestions shown: %d\n", counts[history.EventSuggested])
	fmt.Fprintf(&sb, "Cycles exhausted: %d\n", counts[history.EventTerminated])
	fmt.Fprintf(&sb, "Cycles restarted: %d\n", counts[history.EventRestarted])
	if len(top) > 0 {
		sb.WriteString("\nMost suggested:\n")
		for i, rc := range top {
			fmt.Fprintf(&sb, "%d. %s — %d\n", i+1, rc.Restaurant, rc.Count)
		}
	}
	b.reply(ctx, chatID, sb.String())
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	if b.journal == nil {
		b.reply(ctx, chatID, "The suggestion journal is disabled.")
		return
	}

	var buf bytes.Buffer
	if err := b.journal.ExportXLSX(ctx, &buf); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export failed")
		b.reply(ctx, chatID, "Export failed.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "chewsy_history.xlsx",
		Bytes: buf.Bytes(),
	})
	b.send(ctx, doc)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(ctx context.Context, msg tgbotapi.Chattable) {
	if err := b.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := b.tg.Send(msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) record(ctx context.Context, chatID int64, event, restaurant string) {
	if b.journal == nil {
		return
	}
	if err := b.journal.RecordEvent(ctx, chatID, event, restaurant); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("journal write failed")
	}
}

func (b *Bot) isManager(userID int64) bool {
	_, ok := b.managers[userID]
	return ok
}
