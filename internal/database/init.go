package database

import (
	"context"
	"fmt"

	"github.com/ChrisJamesShevlin/snooker/internal/config"
)

// Initialize creates a database connection pool and verifies the schema is ready
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// TimescaleDB speeds up evaluation history queries but plain
	// PostgreSQL works, so a missing extension only warns.
	var extName string
	err = db.pool.QueryRow(ctx, "SELECT extname FROM pg_extension WHERE extname = 'timescaledb'").Scan(&extName)
	if err != nil {
		fmt.Println("Warning: TimescaleDB extension not found, evaluation history will use plain tables.")
	}

	// Verify migrations are applied by checking schema_migrations table
	var migrationCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount)
	if err != nil {
		// Table might not exist yet, which is OK for initial setup
		return db, nil
	}

	if migrationCount == 0 {
		fmt.Println("Warning: No migrations have been applied. Please run database migrations.")
	}

	return db, nil
}
