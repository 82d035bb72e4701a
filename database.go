package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	dbConnectAttempts = 60
	dbRetryDelay      = 2 * time.Second
)

// normalizeDatabaseURL rewrites postgresql:// to postgres:// and disables
// TLS unless the URL already picks an sslmode.
func normalizeDatabaseURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgresql:") {
		databaseURL = "postgres" + strings.TrimPrefix(databaseURL, "postgresql")
	}
	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "?"
		if strings.Contains(databaseURL, "?") {
			separator = "&"
		}
		databaseURL = databaseURL + separator + "sslmode=disable"
	}
	return databaseURL
}

// openPostgres connects through the pgx stdlib driver, waiting for the
// database to come up.
func openPostgres(ctx context.Context, databaseURL string, logger *slog.Logger) (*sql.DB, error) {
	config, err := pgx.ParseConfig(normalizeDatabaseURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	for i := 0; i < dbConnectAttempts; i++ {
		db := stdlib.OpenDB(*config)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			db.SetMaxOpenConns(20)
			db.SetMaxIdleConns(5)
			db.SetConnMaxIdleTime(5 * time.Minute)
			logger.Info("database connection established", "host", config.Host, "database", config.Database)
			return db, nil
		}
		db.Close()

		if i == dbConnectAttempts-1 {
			break
		}
		// the full error every 10 attempts keeps the startup log readable
		if i%10 == 0 || i < 5 {
			logger.Warn("database not ready, retrying", "delay", dbRetryDelay, "attempt", i+1, "max_attempts", dbConnectAttempts, "error", err)
		} else {
			logger.Warn("database not ready, retrying", "delay", dbRetryDelay, "attempt", i+1, "max_attempts", dbConnectAttempts)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dbRetryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", dbConnectAttempts, err)
}
