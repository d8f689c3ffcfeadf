package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BaseCurrency != "USD" {
		t.Errorf("Expected base currency USD, got %s", cfg.BaseCurrency)
	}
	if cfg.RateTTLHours != 24 {
		t.Errorf("Expected rate TTL 24h, got %d", cfg.RateTTLHours)
	}
	if cfg.Prefixes.FileSearch != "ff" || cfg.Prefixes.Translate != "tr" {
		t.Errorf("Unexpected prefixes: %+v", cfg.Prefixes)
	}
	if cfg.DebounceMs != 300 {
		t.Errorf("Expected 300ms debounce, got %d", cfg.DebounceMs)
	}
	if cfg.Limits.Apps != 5 || cfg.Limits.Windows != 5 {
		t.Errorf("Unexpected display limits: %+v", cfg.Limits)
	}
	if cfg.DBPath == "" || cfg.LogPath == "" {
		t.Error("Expected non-empty default paths")
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// The file was written so the user can edit it
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Expected config file to be created on first load")
	}
	if cfg.BaseCurrency != "USD" {
		t.Errorf("Expected defaults, got base currency %s", cfg.BaseCurrency)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.BaseCurrency = "EUR"
	cfg.DebounceMs = 150
	cfg.FileSearch.IncludeHidden = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.BaseCurrency != "EUR" {
		t.Errorf("Expected EUR, got %s", loaded.BaseCurrency)
	}
	if loaded.DebounceMs != 150 {
		t.Errorf("Expected 150ms debounce, got %d", loaded.DebounceMs)
	}
	if !loaded.FileSearch.IncludeHidden {
		t.Error("Expected include_hidden to survive the round trip")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("base_currency: GBP\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatalf("Failed to write partial config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}
	if cfg.BaseCurrency != "GBP" {
		t.Errorf("Expected GBP from file, got %s", cfg.BaseCurrency)
	}
	if cfg.Prefixes.FileSearch != "ff" {
		t.Errorf("Expected default prefix to survive, got %s", cfg.Prefixes.FileSearch)
	}
	if cfg.DebounceMs != 300 {
		t.Errorf("Expected default debounce to survive, got %d", cfg.DebounceMs)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
