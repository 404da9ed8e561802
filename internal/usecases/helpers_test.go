package usecases

import (
	"context"
	"sync"

	"greeterbot/internal/entities"
)

type sent struct {
	To  string
	Msg entities.Outbound
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to string, msg entities.Outbound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{To: to, Msg: msg})
	return nil
}

type countingObserver struct {
	started, received, sent map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		started:  map[string]int{},
		received: map[string]int{},
		sent:     map[string]int{},
	}
}

func (o *countingObserver) SessionStarted(_ context.Context, platform string) { o.started[platform]++ }
func (o *countingObserver) MessageReceived(_ context.Context, platform string) { o.received[platform]++ }
func (o *countingObserver) MessageSent(_ context.Context, platform string) { o.sent[platform]++ }

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
