package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ChatSession tracks one chat's current session on a platform
type ChatSession struct {
	ID       string
	Platform string
	ChatID   string
	Started  time.Time
	LastSeen time.Time
}

// SessionManager opens a new session on first contact and after idle expiry
type SessionManager struct {
	sessions map[string]*ChatSession
	mu       sync.Mutex
	idle     time.Duration
	now      func() time.Time
}

func NewSessionManager(idle time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*ChatSession),
		idle:     idle,
		now:      time.Now,
	}
}

func sessionKey(platform, chatID string) string {
	return platform + ":" + chatID
}

func newSessionID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Touch returns the chat's session ID, opening a new session when the chat has
// none or its last activity is older than the idle timeout. started reports
// whether a new session was opened.
func (sm *SessionManager) Touch(platform, chatID string) (id string, started bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	key := sessionKey(platform, chatID)
	if s, ok := sm.sessions[key]; ok && now.Sub(s.LastSeen) < sm.idle {
		s.LastSeen = now
		return s.ID, false
	}
	return sm.open(key, platform, chatID, now).ID, true
}

// Reset always opens a new session for the chat
func (sm *SessionManager) Reset(platform, chatID string) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.open(sessionKey(platform, chatID), platform, chatID, sm.now()).ID
}

func (sm *SessionManager) open(key, platform, chatID string, now time.Time) *ChatSession {
	s := &ChatSession{
		ID:       newSessionID(),
		Platform: platform,
		ChatID:   chatID,
		Started:  now,
		LastSeen: now,
	}
	sm.sessions[key] = s
	return s
}

// Get returns a copy of the chat's session
func (sm *SessionManager) Get(platform, chatID string) (ChatSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[sessionKey(platform, chatID)]
	if !ok {
		return ChatSession{}, false
	}
	return *s, true
}

// Sweep drops idle sessions and returns how many were removed
func (sm *SessionManager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	removed := 0
	for key, s := range sm.sessions {
		if now.Sub(s.LastSeen) >= sm.idle {
			delete(sm.sessions, key)
			removed++
		}
	}
	return removed
}

func (sm *SessionManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// Run sweeps idle sessions every interval until ctx is done
func (sm *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.Sweep()
		}
	}
}
