package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS relay_cache (
		target     TEXT     PRIMARY KEY,
		body       BLOB     NOT NULL,
		fetched_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_relay_cache_fetched_at ON relay_cache(fetched_at)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
