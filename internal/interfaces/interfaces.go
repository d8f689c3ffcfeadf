package interfaces

import (
	"context"

	"github.com/themobileprof/omnibar/pkg/models"
)

// WindowLister enumerates currently open windows
type WindowLister interface {
	// ListWindows returns the open windows known to the compositor
	ListWindows(ctx context.Context) ([]models.Window, error)
}

// FileSearcher performs filesystem searches on behalf of the palette
type FileSearcher interface {
	// SearchFiles returns paths under basePath matching query
	SearchFiles(ctx context.Context, query, basePath string, includeHidden bool) ([]string, error)
}

// AppLister enumerates installed applications
type AppLister interface {
	// ListApps returns the installed applications
	ListApps(ctx context.Context) ([]models.App, error)
}

// ScriptLister enumerates user-configured scripts
type ScriptLister interface {
	// ListScripts returns the configured script shortcuts
	ListScripts(ctx context.Context) ([]models.Script, error)
}

// HistoryStore persists the action history used to bias ranking
type HistoryStore interface {
	// Record inserts or updates an entry keyed by its stable ID
	Record(entry models.ActionEntry) error
	// Recent returns up to limit entries, most recent first
	Recent(limit int) ([]models.ActionEntry, error)
	// Clear removes all history entries
	Clear() error
}

// RateProvider fetches exchange rates from an external source
type RateProvider interface {
	// Fetch returns rates relative to base, keyed by 3-letter code
	Fetch(ctx context.Context, base string) (map[string]float64, error)
}

// RateCache persists a fetched rate table across process restarts
type RateCache interface {
	// Load returns the persisted table; the bool is false when none exists
	Load() (models.RateTable, bool, error)
	// Save replaces the persisted table
	Save(table models.RateTable) error
}

// Localizer infers currency defaults from the host environment.
// Injected rather than read from the environment directly so tests can
// pin locale and timezone.
type Localizer interface {
	// LocaleCurrency returns the currency implied by the system locale,
	// or "" when none can be inferred
	LocaleCurrency() string
	// TimezoneCurrency returns the currency implied by the system
	// timezone's country, or "" when none can be inferred
	TimezoneCurrency() string
}
