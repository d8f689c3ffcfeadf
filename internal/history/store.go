package history

import (
	"database/sql"
	"fmt"

	"github.com/themobileprof/omnibar/internal/db"
	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/pkg/models"
)

// Store persists the action history in the actions table. It is the
// system of record; the state machine keeps only a read-mostly in-memory
// window refreshed after every write.
type Store struct {
	conn *sql.DB
}

// NewStore creates a store over an open connection
func NewStore(database *db.DB) *Store {
	return &Store{conn: database.Conn()}
}

// Ensure Store implements the HistoryStore port
var _ interfaces.HistoryStore = (*Store)(nil)

// Record inserts an entry, or bumps frequency and last_accessed when the
// same target was selected before.
func (s *Store) Record(entry models.ActionEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history: entry has no id")
	}

	_, err := s.conn.Exec(`
		INSERT INTO actions (id, kind, content, name, icon, last_accessed, frequency)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			icon = excluded.icon,
			last_accessed = excluded.last_accessed,
			frequency = actions.frequency + 1`,
		entry.ID, entry.Kind, entry.Content, entry.Name, entry.Icon, entry.LastAccessed,
	)
	if err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recently accessed first
func (s *Store) Recent(limit int) ([]models.ActionEntry, error) {
	rows, err := s.conn.Query(`
		SELECT id, kind, content, name, icon, last_accessed, frequency
		FROM actions
		ORDER BY last_accessed DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var entries []models.ActionEntry
	for rows.Next() {
		var e models.ActionEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Content, &e.Name, &e.Icon, &e.LastAccessed, &e.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes all history entries
func (s *Store) Clear() error {
	if _, err := s.conn.Exec(`DELETE FROM actions`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
