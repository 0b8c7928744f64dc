package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	maxConnectAttempts = 5
	connectBackoff     = 2 * time.Second
)

// Connect opens a pooled connection to Postgres and verifies it with a ping,
// retrying with linear backoff before giving up. The pool handles idle-dropped
// connections from here on; there is no per-query reconnect path.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*sqlx.DB, error) {
	conn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(2 * time.Hour)

	var pingErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		pingErr = conn.PingContext(ctx)
		if pingErr == nil {
			return conn, nil
		}
		logger.Warn("database ping failed",
			zap.Int("attempt", attempt),
			zap.Error(pingErr),
		)
		select {
		case <-ctx.Done():
			conn.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * connectBackoff):
		}
	}
	conn.Close()
	return nil, fmt.Errorf("ping database after %d attempts: %w", maxConnectAttempts, pingErr)
}
