package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPostgresDB opens the sqlx pool and, when DB_AUTO_SCHEMA is set,
// creates missing tables.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if cfg.AutoSchema {
		if err := EnsureSchema(connectCtx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database schema ensured")
	}

	logger.Info("connected to postgres", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}
