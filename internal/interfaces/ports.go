package interfaces

import (
	"context"

	"greeterbot/internal/entities"
)

// Sender delivers an outbound message to a chat on one platform
type Sender interface {
	Send(ctx context.Context, to string, msg entities.Outbound) error
}

// Observer is notified of session and message traffic. Calls run inline on
// the message path.
type Observer interface {
	SessionStarted(ctx context.Context, platform string)
	MessageReceived(ctx context.Context, platform string)
	MessageSent(ctx context.Context, platform string)
}
