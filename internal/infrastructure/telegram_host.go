package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"greeterbot/internal/entities"
	"greeterbot/internal/interfaces"
	"greeterbot/internal/usecases"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHost polls a bot for updates and drives the lifecycle hooks
type TelegramHost struct {
	bot       *tgbotapi.BotAPI
	sender    interfaces.Sender
	lifecycle *usecases.Lifecycle
	sessions  *SessionManager
	limiter   *RateLimiter
	logger    *slog.Logger
}

// NewTelegramHost connects to the Bot API with token
func NewTelegramHost(token string, lifecycle *usecases.Lifecycle, sessions *SessionManager, limiter *RateLimiter, logger *slog.Logger) (*TelegramHost, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "telegram")

	return &TelegramHost{
		bot:       bot,
		sender:    NewTelegramClient(bot, logger),
		lifecycle: lifecycle,
		sessions:  sessions,
		limiter:   limiter,
		logger:    logger,
	}, nil
}

func (h *TelegramHost) BotName() string {
	if h.bot == nil {
		return ""
	}
	return h.bot.Self.UserName
}

// Run handles updates until ctx is done. Updates are handled in order so a
// chat's greeting always precedes its echoes.
func (h *TelegramHost) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	h.logger.Info("Started polling", "bot", h.BotName())

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.logger.Info("Stopped polling")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *TelegramHost) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
	if h.limiter != nil && !h.limiter.Allow(entities.PlatformTelegram+":"+chatID) {
		h.logger.Debug("Rate limited", "chat", chatID)
		return
	}

	if update.Message.IsCommand() && update.Message.Command() == "start" {
		id := h.sessions.Reset(entities.PlatformTelegram, chatID)
		s := h.lifecycle.NewSession(id, entities.PlatformTelegram, chatID, h.sender)
		if err := h.lifecycle.StartSession(ctx, s); err != nil {
			h.logger.Error("Failed to start session", "chat", chatID, "error", err)
		}
		return
	}

	id, started := h.sessions.Touch(entities.PlatformTelegram, chatID)
	s := h.lifecycle.NewSession(id, entities.PlatformTelegram, chatID, h.sender)
	if started {
		if err := h.lifecycle.StartSession(ctx, s); err != nil {
			h.logger.Error("Failed to start session", "chat", chatID, "error", err)
		}
	}

	msg := entities.Message{
		ID:      strconv.Itoa(update.Message.MessageID),
		From:    chatID,
		Content: update.Message.Text,
	}
	if err := h.lifecycle.Deliver(ctx, s, msg); err != nil {
		h.logger.Error("Failed to handle message", "chat", chatID, "error", err)
	}
}
