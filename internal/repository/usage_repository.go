package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greeterbot/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ interfaces.Observer = (*UsageRepository)(nil)

// usageWriteTimeout bounds each counter upsert so a slow database never stalls a chat
const usageWriteTimeout = 2 * time.Second

type UsageRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

type DailyUsage struct {
	Platform         string    `json:"platform"`
	Date             time.Time `json:"date"`
	SessionsStarted  int       `json:"sessions_started"`
	MessagesSent     int       `json:"messages_sent"`
	MessagesReceived int       `json:"messages_received"`
}

func NewUsageRepository(db *pgxpool.Pool, logger *slog.Logger) *UsageRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageRepository{
		db:     db,
		logger: logger.With("component", "usage"),
		now:    time.Now,
	}
}

// usageColumn maps a counter to its column; never interpolate caller input here
type usageColumn string

const (
	columnSessions usageColumn = "sessions_started"
	columnSent     usageColumn = "messages_sent"
	columnReceived usageColumn = "messages_received"
)

// increment adds one to a platform's counter for today
func (r *UsageRepository) increment(ctx context.Context, platform string, column usageColumn) error {
	today := r.now().Format("2006-01-02")
	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO message_usage (platform, date, %[1]s)
		VALUES ($1, $2, 1)
		ON CONFLICT (platform, date)
		DO UPDATE SET %[1]s = message_usage.%[1]s + 1
	`, column), platform, today)
	return err
}

func (r *UsageRepository) record(ctx context.Context, platform string, column usageColumn) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageWriteTimeout)
	defer cancel()
	if err := r.increment(ctx, platform, column); err != nil {
		r.logger.Warn("Failed to record usage", "platform", platform, "counter", string(column), "error", err)
	}
}

func (r *UsageRepository) SessionStarted(ctx context.Context, platform string) {
	r.record(ctx, platform, columnSessions)
}

func (r *UsageRepository) MessageReceived(ctx context.Context, platform string) {
	r.record(ctx, platform, columnReceived)
}

func (r *UsageRepository) MessageSent(ctx context.Context, platform string) {
	r.record(ctx, platform, columnSent)
}

// historyStart is the first date of a days-long window ending today
func historyStart(now time.Time, days int) string {
	return now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
}

// GetUsageHistory returns the last N calendar days of usage, today included, oldest first
func (r *UsageRepository) GetUsageHistory(ctx context.Context, days int) ([]DailyUsage, error) {
	startDate := historyStart(r.now(), days)
	rows, err := r.db.Query(ctx, `
		SELECT platform, date, sessions_started, messages_sent, messages_received
		FROM message_usage
		WHERE date >= $1
		ORDER BY date ASC, platform ASC
	`, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := []DailyUsage{}
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Platform, &u.Date, &u.SessionsStarted, &u.MessagesSent, &u.MessagesReceived); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
