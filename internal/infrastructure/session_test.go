package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSessionManager(idle time.Duration) (*SessionManager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	sm := NewSessionManager(idle)
	sm.now = clock.Now
	return sm, clock
}

func TestSessionManager_TouchOpensOnce(t *testing.T) {
	sm, clock := newTestSessionManager(time.Minute)

	id1, started := sm.Touch("whatsapp", "628")
	require.True(t, started)
	require.NotEmpty(t, id1)

	clock.Advance(30 * time.Second)
	id2, started := sm.Touch("whatsapp", "628")
	assert.False(t, started)
	assert.Equal(t, id1, id2)
}

func TestSessionManager_IdleExpiry(t *testing.T) {
	sm, clock := newTestSessionManager(time.Minute)

	id1, _ := sm.Touch("whatsapp", "628")
	clock.Advance(time.Minute)

	id2, started := sm.Touch("whatsapp", "628")
	assert.True(t, started)
	assert.NotEqual(t, id1, id2)
}

func TestSessionManager_KeysArePerPlatform(t *testing.T) {
	sm, _ := newTestSessionManager(time.Minute)

	idWA, _ := sm.Touch("whatsapp", "42")
	idTG, started := sm.Touch("telegram", "42")
	assert.True(t, started)
	assert.NotEqual(t, idWA, idTG)
	assert.Equal(t, 2, sm.Len())
}

func TestSessionManager_Reset(t *testing.T) {
	sm, _ := newTestSessionManager(time.Minute)

	id1, _ := sm.Touch("telegram", "7")
	id2 := sm.Reset("telegram", "7")
	assert.NotEqual(t, id1, id2)

	got, ok := sm.Get("telegram", "7")
	require.True(t, ok)
	assert.Equal(t, id2, got.ID)
	assert.Equal(t, "7", got.ChatID)
}

func TestSessionManager_Sweep(t *testing.T) {
	sm, clock := newTestSessionManager(time.Minute)

	sm.Touch("web", "a")
	clock.Advance(45 * time.Second)
	sm.Touch("web", "b")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, sm.Sweep())
	_, ok := sm.Get("web", "a")
	assert.False(t, ok)
	_, ok = sm.Get("web", "b")
	assert.True(t, ok)
}
