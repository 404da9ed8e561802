package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"greeterbot/internal/entities"
	"greeterbot/internal/interfaces"
	"greeterbot/internal/usecases"

	"go.mau.fi/whatsmeow/types/events"
)

// WhatsAppHost routes direct messages into the lifecycle hooks. WhatsApp has
// no session-start event, so a chat's first message opens the session.
type WhatsAppHost struct {
	client    *WhatsAppClient
	sender    interfaces.Sender
	lifecycle *usecases.Lifecycle
	sessions  *SessionManager
	limiter   *RateLimiter
	logger    *slog.Logger
}

func NewWhatsAppHost(client *WhatsAppClient, lifecycle *usecases.Lifecycle, sessions *SessionManager, limiter *RateLimiter, logger *slog.Logger) *WhatsAppHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhatsAppHost{
		client:    client,
		sender:    client,
		lifecycle: lifecycle,
		sessions:  sessions,
		limiter:   limiter,
		logger:    logger.With("component", "whatsapp"),
	}
}

// Run connects the client and handles events until ctx is done
func (h *WhatsAppHost) Run(ctx context.Context) error {
	h.client.AddHandler(func(evt interface{}) {
		h.HandleEvent(ctx, evt)
	})
	if err := h.client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect whatsapp: %w", err)
	}

	<-ctx.Done()
	h.client.Disconnect()
	h.logger.Info("Disconnected")
	return nil
}

func (h *WhatsAppHost) HandleEvent(ctx context.Context, evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		if v.Info.IsGroup || v.Info.IsFromMe {
			return
		}
		chat, content := parseWhatsAppMessage(v)
		h.handleIncoming(ctx, chat, v.Info.ID, content)
	case *events.Connected:
		h.logger.Info("Connected")
	case *events.LoggedOut:
		h.logger.Warn("Logged out", "reason", v.Reason)
	}
}

func (h *WhatsAppHost) handleIncoming(ctx context.Context, chatID, msgID, content string) {
	if chatID == "" {
		return
	}
	if h.limiter != nil && !h.limiter.Allow(entities.PlatformWhatsApp+":"+chatID) {
		h.logger.Debug("Rate limited", "chat", chatID)
		return
	}

	id, started := h.sessions.Touch(entities.PlatformWhatsApp, chatID)
	s := h.lifecycle.NewSession(id, entities.PlatformWhatsApp, chatID, h.sender)
	if started {
		if err := h.lifecycle.StartSession(ctx, s); err != nil {
			h.logger.Error("Failed to start session", "chat", chatID, "error", err)
		}
	}

	msg := entities.Message{ID: msgID, From: chatID, Content: content}
	if err := h.lifecycle.Deliver(ctx, s, msg); err != nil {
		h.logger.Error("Failed to handle message", "chat", chatID, "error", err)
	}
}
