package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/pkg/models"
)

// Loader reads app and script catalogs from YAML files in a catalog
// directory. It backs the AppLister and ScriptLister ports for hosts that
// keep their catalogs on disk (and for the standalone demo).
type Loader struct {
	dir string
}

// NewLoader creates a loader over a catalog directory
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Ensure Loader implements the lister ports
var (
	_ interfaces.AppLister    = (*Loader)(nil)
	_ interfaces.ScriptLister = (*Loader)(nil)
)

// appsFile holds the apps catalog document
type appsFile struct {
	Apps []models.App `yaml:"apps"`
}

// scriptsFile holds the scripts catalog document
type scriptsFile struct {
	Scripts []models.Script `yaml:"scripts"`
}

// ListApps reads apps.yaml. A missing file is an empty catalog, not an
// error.
func (l *Loader) ListApps(_ context.Context) ([]models.App, error) {
	path := filepath.Join(l.dir, "apps.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read app catalog: %w", err)
	}

	var doc appsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse app catalog: %w", err)
	}
	return doc.Apps, nil
}

// ListScripts reads scripts.yaml. A missing file is an empty catalog.
func (l *Loader) ListScripts(_ context.Context) ([]models.Script, error) {
	path := filepath.Join(l.dir, "scripts.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read script catalog: %w", err)
	}

	var doc scriptsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script catalog: %w", err)
	}

	// Reject entries that cannot be executed
	valid := doc.Scripts[:0]
	for _, s := range doc.Scripts {
		if s.Alias == "" || s.Path == "" {
			continue
		}
		valid = append(valid, s)
	}
	return valid, nil
}

// SaveApps writes the apps catalog, creating the directory as needed
func (l *Loader) SaveApps(apps []models.App) error {
	return l.save("apps.yaml", appsFile{Apps: apps})
}

// SaveScripts writes the scripts catalog
func (l *Loader) SaveScripts(scripts []models.Script) error {
	return l.save("scripts.yaml", scriptsFile{Scripts: scripts})
}

func (l *Loader) save(name string, doc interface{}) error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
