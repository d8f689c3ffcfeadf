package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/pkg/models"
)

// rateCacheKey is the fixed storage key for the single persisted table
const rateCacheKey = "exchange_rates"

// RateCacheStore persists the exchange-rate table in the rate_cache table
// so conversions survive process restarts without a network call.
type RateCacheStore struct {
	conn *sql.DB
}

// NewRateCacheStore creates a store over an open connection
func NewRateCacheStore(database *DB) *RateCacheStore {
	return &RateCacheStore{conn: database.Conn()}
}

// Ensure RateCacheStore implements the RateCache port
var _ interfaces.RateCache = (*RateCacheStore)(nil)

// Load returns the persisted table, or ok=false when none exists
func (s *RateCacheStore) Load() (models.RateTable, bool, error) {
	var payload string
	err := s.conn.QueryRow(
		`SELECT payload FROM rate_cache WHERE key = ?`, rateCacheKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RateTable{}, false, nil
	}
	if err != nil {
		return models.RateTable{}, false, fmt.Errorf("failed to read rate cache: %w", err)
	}

	var table models.RateTable
	if err := json.Unmarshal([]byte(payload), &table); err != nil {
		return models.RateTable{}, false, fmt.Errorf("failed to decode rate cache: %w", err)
	}
	return table, true, nil
}

// Save replaces the persisted table atomically (single upsert statement)
func (s *RateCacheStore) Save(table models.RateTable) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode rate table: %w", err)
	}

	_, err = s.conn.Exec(`
		INSERT INTO rate_cache (key, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		rateCacheKey, string(payload), table.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to persist rate table: %w", err)
	}
	return nil
}
