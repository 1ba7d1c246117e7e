package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/RIT-ITS/DCVTool-sub002/internal/config"
)

// NewPostgresDB opens a pooled connection to one of the two backing stores.
// Created once per store in main and passed by reference into every
// repository constructor; there is no process-wide holder.
func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close is a nil-safe close helper for shutdown paths.
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
