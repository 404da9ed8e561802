package infrastructure

import (
	"context"
	"fmt"

	"greeterbot/internal/interfaces"

	"github.com/prometheus/client_golang/prometheus"
)

var _ interfaces.Observer = (*Metrics)(nil)

// Metrics counts sessions and messages per platform
type Metrics struct {
	sessionsStarted  *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	messagesSent     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greeterbot",
			Name:      "sessions_started_total",
			Help:      "Chat sessions started.",
		}, []string{"platform"}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greeterbot",
			Name:      "messages_received_total",
			Help:      "Inbound chat messages.",
		}, []string{"platform"}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greeterbot",
			Name:      "messages_sent_total",
			Help:      "Outbound chat messages delivered to the platform.",
		}, []string{"platform"}),
	}

	for _, c := range []prometheus.Collector{m.sessionsStarted, m.messagesReceived, m.messagesSent} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) SessionStarted(_ context.Context, platform string) {
	m.sessionsStarted.WithLabelValues(platform).Inc()
}

func (m *Metrics) MessageReceived(_ context.Context, platform string) {
	m.messagesReceived.WithLabelValues(platform).Inc()
}

func (m *Metrics) MessageSent(_ context.Context, platform string) {
	m.messagesSent.WithLabelValues(platform).Inc()
}
