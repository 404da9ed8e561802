package infrastructure

import (
	"context"
	"sync"
	"testing"

	"greeterbot/internal/config"
	"greeterbot/internal/entities"
	"greeterbot/internal/usecases"

	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	To  string
	Msg entities.Outbound
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (r *recordingSender) Send(_ context.Context, to string, msg entities.Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{To: to, Msg: msg})
	return nil
}

func (r *recordingSender) contents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, s := range r.sent {
		out = append(out, s.Msg.Content)
	}
	return out
}

// newGreeterLifecycle wires a status greeter with every variable unset
func newGreeterLifecycle(t *testing.T) *usecases.Lifecycle {
	t.Helper()
	g, err := usecases.NewGreeter(config.VariantStatus, usecases.WithLookup(func(string) (string, bool) {
		return "", false
	}))
	require.NoError(t, err)

	l := usecases.NewLifecycle(nil)
	g.Register(l)
	return l
}

const defaultStatusGreeting = "\nDeployment: Default Name\nLogo URL: Default URL\nRestaurant: Default Restaurant\nDescription: Default Description\n"
