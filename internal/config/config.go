package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DBPath       string     `yaml:"db_path"`
	LogPath      string     `yaml:"log_path"`
	CatalogDir   string     `yaml:"catalog_dir"`
	BaseCurrency string     `yaml:"base_currency"`
	RateTTLHours int        `yaml:"rate_ttl_hours"`
	FileSearch   FileSearch `yaml:"file_search"`
	Prefixes     Prefixes   `yaml:"prefixes"`
	DebounceMs   int        `yaml:"debounce_ms"`
	Limits       Limits     `yaml:"limits"`
}

// FileSearch configures the debounced file-search sub-mode
type FileSearch struct {
	BasePath      string `yaml:"base_path"`
	IncludeHidden bool   `yaml:"include_hidden"`
}

// Prefixes holds the reserved query prefixes that switch modes
type Prefixes struct {
	FileSearch string `yaml:"file_search"`
	Translate  string `yaml:"translate"`
}

// Limits bounds the candidate lists shown per mode
type Limits struct {
	Apps         int `yaml:"apps"`
	Windows      int `yaml:"windows"`
	RecentWindow int `yaml:"recent_window"`
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		DBPath:       filepath.Join(homeDir, ".omnibar", "omnibar.db"),
		LogPath:      filepath.Join(homeDir, ".omnibar", "omnibar.log"),
		CatalogDir:   filepath.Join(homeDir, ".omnibar", "catalog"),
		BaseCurrency: "USD",
		RateTTLHours: 24,
		FileSearch: FileSearch{
			BasePath:      homeDir,
			IncludeHidden: false,
		},
		Prefixes: Prefixes{
			FileSearch: "ff",
			Translate:  "tr",
		},
		DebounceMs: 300,
		Limits: Limits{
			Apps:         5,
			Windows:      5,
			RecentWindow: 20,
		},
	}
}

// Load reads configuration from file, creating with defaults if it doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, create it with defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Read existing file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".omnibar", "config.yaml")
}
