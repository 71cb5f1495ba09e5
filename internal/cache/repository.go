// Package cache stores relay response bodies for a short time so repeated
// scans of the same product do not hit the upstream API again.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository is a TTL cache of response bodies keyed by target URL.
type Repository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewRepository creates a cache repository. Entries older than ttl are
// treated as missing.
func NewRepository(db *sql.DB, ttl time.Duration) *Repository {
	return &Repository{db: db, ttl: ttl, now: time.Now}
}

// Get returns the cached body for key if it is still fresh.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	var fetchedAt time.Time
	err := r.db.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM relay_cache WHERE target = ?", key,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if r.now().Sub(fetchedAt) > r.ttl {
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores body for key, replacing any previous entry.
func (r *Repository) Put(ctx context.Context, key string, body []byte) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO relay_cache (target, body, fetched_at)
	VALUES (?, ?, ?)
	ON CONFLICT(target) DO UPDATE SET
		body = excluded.body,
		fetched_at = excluded.fetched_at
	`, key, body, r.now().UTC())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (r *Repository) Purge(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.ttl).UTC()
	result, err := r.db.ExecContext(ctx, "DELETE FROM relay_cache WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

// Len returns the number of stored entries, fresh or not.
func (r *Repository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM relay_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
