package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the pq driver with database/sql.
	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection. Returns
// (nil, nil) when the DSN is empty (Postgres not configured).
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}
