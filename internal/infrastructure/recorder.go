package infrastructure

import (
	"context"
	"sync"

	"greeterbot/internal/entities"
)

// MessageRecorder is a sender for request/response hosts: outbound messages
// are collected and returned in the response body.
type MessageRecorder struct {
	mu       sync.Mutex
	messages []entities.Outbound
}

func (r *MessageRecorder) Send(_ context.Context, _ string, msg entities.Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns the recorded messages in send order
func (r *MessageRecorder) Messages() []entities.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.Outbound, len(r.messages))
	copy(out, r.messages)
	return out
}
