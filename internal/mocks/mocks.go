package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/pkg/models"
)

// MockWindowLister is a mock implementation of WindowLister for testing
type MockWindowLister struct {
	ListWindowsFunc func(ctx context.Context) ([]models.Window, error)
	Windows         []models.Window
}

func (m *MockWindowLister) ListWindows(ctx context.Context) ([]models.Window, error) {
	if m.ListWindowsFunc != nil {
		return m.ListWindowsFunc(ctx)
	}
	return m.Windows, nil
}

// Ensure MockWindowLister implements WindowLister interface
var _ interfaces.WindowLister = (*MockWindowLister)(nil)

// MockFileSearcher is a mock implementation of FileSearcher for testing.
// It records every request it receives.
type MockFileSearcher struct {
	SearchFilesFunc func(ctx context.Context, query, basePath string, includeHidden bool) ([]string, error)
	Results         []string

	mu       sync.Mutex
	requests []string
}

func (m *MockFileSearcher) SearchFiles(ctx context.Context, query, basePath string, includeHidden bool) ([]string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, query)
	m.mu.Unlock()

	if m.SearchFilesFunc != nil {
		return m.SearchFilesFunc(ctx, query, basePath, includeHidden)
	}
	return m.Results, nil
}

// Requests returns the queries received so far
func (m *MockFileSearcher) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

var _ interfaces.FileSearcher = (*MockFileSearcher)(nil)

// MockAppLister is a mock implementation of AppLister for testing
type MockAppLister struct {
	ListAppsFunc func(ctx context.Context) ([]models.App, error)
	Apps         []models.App
}

func (m *MockAppLister) ListApps(ctx context.Context) ([]models.App, error) {
	if m.ListAppsFunc != nil {
		return m.ListAppsFunc(ctx)
	}
	return m.Apps, nil
}

var _ interfaces.AppLister = (*MockAppLister)(nil)

// MockScriptLister is a mock implementation of ScriptLister for testing
type MockScriptLister struct {
	ListScriptsFunc func(ctx context.Context) ([]models.Script, error)
	Scripts         []models.Script
}

func (m *MockScriptLister) ListScripts(ctx context.Context) ([]models.Script, error) {
	if m.ListScriptsFunc != nil {
		return m.ListScriptsFunc(ctx)
	}
	return m.Scripts, nil
}

var _ interfaces.ScriptLister = (*MockScriptLister)(nil)

// MockHistoryStore is an in-memory mock of HistoryStore keeping entries
// most-recent-first.
type MockHistoryStore struct {
	RecordFunc func(entry models.ActionEntry) error
	RecentFunc func(limit int) ([]models.ActionEntry, error)
	ClearFunc  func() error

	mu      sync.Mutex
	entries []models.ActionEntry
}

func (m *MockHistoryStore) Record(entry models.ActionEntry) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Replace an existing entry for the same id, bumping frequency
	for i, e := range m.entries {
		if e.ID == entry.ID {
			entry.Frequency = e.Frequency + 1
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	m.entries = append([]models.ActionEntry{entry}, m.entries...)
	return nil
}

func (m *MockHistoryStore) Recent(limit int) ([]models.ActionEntry, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]models.ActionEntry, limit)
	copy(out, m.entries[:limit])
	return out, nil
}

func (m *MockHistoryStore) Clear() error {
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

var _ interfaces.HistoryStore = (*MockHistoryStore)(nil)

// MockRateProvider is a mock implementation of RateProvider for testing.
// It counts fetches so dedup behavior can be asserted.
type MockRateProvider struct {
	FetchFunc func(ctx context.Context, base string) (map[string]float64, error)
	Rates     map[string]float64
	Err       error

	mu      sync.Mutex
	fetches int
}

func (m *MockRateProvider) Fetch(ctx context.Context, base string) (map[string]float64, error) {
	m.mu.Lock()
	m.fetches++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, base)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Rates == nil {
		return nil, fmt.Errorf("no rates configured")
	}
	return m.Rates, nil
}

// Fetches returns how many times Fetch was called
func (m *MockRateProvider) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

var _ interfaces.RateProvider = (*MockRateProvider)(nil)

// MockRateCache is an in-memory mock of RateCache
type MockRateCache struct {
	mu    sync.Mutex
	table models.RateTable
	has   bool

	LoadErr error
	SaveErr error
}

func (m *MockRateCache) Load() (models.RateTable, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return models.RateTable{}, false, m.LoadErr
	}
	return m.table, m.has, nil
}

func (m *MockRateCache) Save(table models.RateTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.table = table
	m.has = true
	return nil
}

var _ interfaces.RateCache = (*MockRateCache)(nil)

// MockLocalizer is a mock implementation of Localizer with fixed answers
type MockLocalizer struct {
	Locale   string
	Timezone string
}

func (m *MockLocalizer) LocaleCurrency() string   { return m.Locale }
func (m *MockLocalizer) TimezoneCurrency() string { return m.Timezone }

var _ interfaces.Localizer = (*MockLocalizer)(nil)
