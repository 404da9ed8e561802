package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"greeterbot/internal/entities"
	"greeterbot/internal/interfaces"
)

var ErrNoSender = errors.New("session has no sender")

// StartHandler runs once when a chat session begins
type StartHandler func(ctx context.Context, s *Session) error

// MessageHandler runs for every inbound message in a session
type MessageHandler func(ctx context.Context, s *Session, msg entities.Message) error

// Session is one user's conversation on one platform
type Session struct {
	ID       string
	Platform string
	ChatID   string

	sender    interfaces.Sender
	lifecycle *Lifecycle
}

// Send transmits msg to the session's chat through the platform sender
func (s *Session) Send(ctx context.Context, msg entities.Outbound) error {
	if s.sender == nil {
		return ErrNoSender
	}
	if err := s.sender.Send(ctx, s.ChatID, msg); err != nil {
		return err
	}
	if s.lifecycle != nil {
		for _, o := range s.lifecycle.observers {
			o.MessageSent(ctx, s.Platform)
		}
	}
	return nil
}

// Lifecycle holds the session-start and message hooks that hosts invoke
type Lifecycle struct {
	mu        sync.RWMutex
	onStart   []StartHandler
	onMessage []MessageHandler
	observers []interfaces.Observer
	logger    *slog.Logger
}

func NewLifecycle(logger *slog.Logger, observers ...interfaces.Observer) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{
		observers: observers,
		logger:    logger.With("component", "lifecycle"),
	}
}

// OnSessionStart registers fn to run when a session starts
func (l *Lifecycle) OnSessionStart(fn StartHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onStart = append(l.onStart, fn)
}

// OnMessage registers fn to run for each inbound message
func (l *Lifecycle) OnMessage(fn MessageHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onMessage = append(l.onMessage, fn)
}

// NewSession binds a session to the sender of its platform
func (l *Lifecycle) NewSession(id, platform, chatID string, sender interfaces.Sender) *Session {
	return &Session{
		ID:        id,
		Platform:  platform,
		ChatID:    chatID,
		sender:    sender,
		lifecycle: l,
	}
}

// StartSession runs every start handler in registration order
func (l *Lifecycle) StartSession(ctx context.Context, s *Session) error {
	l.mu.RLock()
	handlers := l.onStart
	l.mu.RUnlock()

	for _, o := range l.observers {
		o.SessionStarted(ctx, s.Platform)
	}
	l.logger.Debug("Session started", "session", s.ID, "platform", s.Platform, "chat", s.ChatID)

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("session start %s: %w", s.ID, err)
	}
	return nil
}

// Deliver runs every message handler for an inbound message
func (l *Lifecycle) Deliver(ctx context.Context, s *Session, msg entities.Message) error {
	l.mu.RLock()
	handlers := l.onMessage
	l.mu.RUnlock()

	for _, o := range l.observers {
		o.MessageReceived(ctx, s.Platform)
	}
	l.logger.Debug("Message received", "session", s.ID, "platform", s.Platform, "chat", s.ChatID)

	if msg.SessionID == "" {
		msg.SessionID = s.ID
	}
	if msg.Platform == "" {
		msg.Platform = s.Platform
	}

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, s, msg); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("message in session %s: %w", s.ID, err)
	}
	return nil
}
