// Package telegram is a thin chat surface over the assistant: every text
// message is classified and dispatched, and the response text is sent back.
package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/reachkit/reachkit/internal/assistant"
	"github.com/reachkit/reachkit/internal/database"
	"github.com/reachkit/reachkit/internal/intent"
)

// Bot represents the Telegram bot
type Bot struct {
	bot        *bot.Bot
	db         *database.DB
	classifier *intent.Classifier
	dispatcher *assistant.Dispatcher
	logger     *slog.Logger
}

// BotDeps dependencies for creating a bot
type BotDeps struct {
	Token      string
	DB         *database.DB
	Classifier *intent.Classifier
	Dispatcher *assistant.Dispatcher
	Logger     *slog.Logger
}

// NewBot creates a new Telegram bot
func NewBot(deps BotDeps) (*Bot, error) {
	b := &Bot{
		db:         deps.DB,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger.With("component", "telegram_bot"),
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.defaultHandler),
	}

	tgBot, err := bot.New(deps.Token, opts...)
	if err != nil {
		return nil, err
	}

	b.bot = tgBot
	b.registerHandlers()

	return b, nil
}

// registerHandlers registers command handlers
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/autopilot", bot.MatchTypePrefix, b.handleAutopilot)
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("starting telegram bot")
	b.bot.Start(ctx)
}

// defaultHandler routes any free-text message through the assistant
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}

	text := update.Message.Text
	userID := strconv.FormatInt(update.Message.From.ID, 10)

	result := b.classifier.Classify(ctx, text)
	b.logger.Debug("classified message",
		"intent", result.Intent,
		"confidence", result.Confidence)

	reply := b.dispatcher.Dispatch(ctx, result, assistant.Request{
		UserID:  userID,
		Message: text,
	})

	b.sendMessage(ctx, update.Message.Chat.ID, reply)
}

// handleStart handles /start command
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleHelp(ctx, tgBot, update)
}

// handleHelp handles /help command
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	text := `I'm your LinkedIn outreach assistant. Just tell me what you want in plain language:

"show my campaigns"
"create a campaign named Q3 outreach targeting CTOs"
"start Q3 outreach"
"show pending actions" / "approve all"
"linkedin status"

Commands:
/autopilot on|off - toggle automatic sending
/help - this message`

	b.sendMessage(ctx, update.Message.Chat.ID, text)
}

// handleAutopilot handles /autopilot on|off
func (b *Bot) handleAutopilot(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := strconv.FormatInt(update.Message.From.ID, 10)
	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/autopilot"))

	switch strings.ToLower(arg) {
	case "on":
		if err := b.db.SetAutopilot(ctx, userID, true); err != nil {
			b.logger.Error("failed to enable autopilot", "user_id", userID, "error", err)
			b.sendMessage(ctx, update.Message.Chat.ID, "Couldn't update autopilot right now.")
			return
		}
		b.sendMessage(ctx, update.Message.Chat.ID, "Autopilot is ON. Connection requests and follow-ups go out automatically.")
	case "off":
		if err := b.db.SetAutopilot(ctx, userID, false); err != nil {
			b.logger.Error("failed to disable autopilot", "user_id", userID, "error", err)
			b.sendMessage(ctx, update.Message.Chat.ID, "Couldn't update autopilot right now.")
			return
		}
		b.sendMessage(ctx, update.Message.Chat.ID, "Autopilot is OFF. I'll queue everything for your approval instead of sending.")
	default:
		settings, err := b.db.GetSettingsForUser(ctx, userID)
		if err != nil {
			b.logger.Error("failed to load settings", "user_id", userID, "error", err)
			b.sendMessage(ctx, update.Message.Chat.ID, "Couldn't read your settings right now.")
			return
		}
		state := "OFF"
		if settings.AutopilotEnabled {
			state = "ON"
		}
		b.sendMessage(ctx, update.Message.Chat.ID, "Autopilot is currently "+state+". Use /autopilot on or /autopilot off to change it.")
	}
}

// sendMessage sends a plain-text message
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	_, err := b.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
