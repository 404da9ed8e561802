package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStart(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		days int
		want string
	}{
		{1, "2024-05-10"},
		{7, "2024-05-04"},
		{10, "2024-05-01"},
		{11, "2024-04-30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, historyStart(now, tt.days), "days=%d", tt.days)
	}
}

// Runs against a real database when GREETERBOT_TEST_DATABASE_URL is set
func TestUsageRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("GREETERBOT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GREETERBOT_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	// temp tables are per connection
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 1
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		CREATE TEMP TABLE message_usage (
			platform VARCHAR(20) NOT NULL,
			date DATE NOT NULL,
			sessions_started INT NOT NULL DEFAULT 0,
			messages_sent INT NOT NULL DEFAULT 0,
			messages_received INT NOT NULL DEFAULT 0,
			PRIMARY KEY (platform, date)
		)`)
	require.NoError(t, err)

	repo := NewUsageRepository(pool, nil)
	repo.SessionStarted(ctx, "web")
	repo.MessageReceived(ctx, "web")
	repo.MessageSent(ctx, "web")
	repo.MessageSent(ctx, "web")

	history, err := repo.GetUsageHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "web", history[0].Platform)
	assert.Equal(t, 1, history[0].SessionsStarted)
	assert.Equal(t, 1, history[0].MessagesReceived)
	assert.Equal(t, 2, history[0].MessagesSent)
}
