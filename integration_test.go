//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/themobileprof/omnibar/internal/catalog"
	"github.com/themobileprof/omnibar/internal/config"
	"github.com/themobileprof/omnibar/internal/db"
	"github.com/themobileprof/omnibar/internal/history"
	"github.com/themobileprof/omnibar/internal/host"
	"github.com/themobileprof/omnibar/internal/mocks"
	"github.com/themobileprof/omnibar/internal/omnibar"
	"github.com/themobileprof/omnibar/internal/rates"
	"github.com/themobileprof/omnibar/internal/skills"
	"github.com/themobileprof/omnibar/pkg/models"
)

// TestCLIBuild tests that the palette binary builds successfully
func TestCLIBuild(t *testing.T) {
	cmd := exec.Command("go", "build", "-o", "omnibar-test", "./cmd/omnibar")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Build failed: %v\nOutput: %s", err, output)
	}
	defer os.Remove("omnibar-test")

	if _, err := os.Stat("omnibar-test"); os.IsNotExist(err) {
		t.Fatal("Binary was not created")
	}
}

// TestCLIVersion tests that the --version flag works
func TestCLIVersion(t *testing.T) {
	cmd := exec.Command("go", "build", "-o", "omnibar-test", "./cmd/omnibar")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer os.Remove("omnibar-test")

	output, err := exec.Command("./omnibar-test", "--version").CombinedOutput()
	if err != nil {
		t.Fatalf("Version command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "Omnibar") {
		t.Errorf("Version output doesn't contain 'Omnibar': %s", output)
	}
}

// TestFullPipeline wires the real components end to end: YAML config,
// SQLite persistence, rate service against a stub endpoint, skill
// registry, and the query state machine.
func TestFullPipeline(t *testing.T) {
	tmpDir := t.TempDir()

	// Real config file
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.DBPath = filepath.Join(tmpDir, "omnibar.db")
	cfg.CatalogDir = filepath.Join(tmpDir, "catalog")
	cfg.FileSearch.BasePath = filepath.Join(tmpDir, "home")
	cfg.DebounceMs = 30

	// Real database plus stores
	database, err := db.New(cfg.DBPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()
	historyStore := history.NewStore(database)

	// Rate provider stub
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"success","rates":{"USD":1,"EUR":0.92}}`)
	}))
	defer srv.Close()

	rateService := rates.NewService(
		rates.NewHTTPProviderWithEndpoint(srv.URL),
		db.NewRateCacheStore(database),
		time.Duration(cfg.RateTTLHours)*time.Hour,
		cfg.BaseCurrency,
		zap.NewNop(),
	)
	if _, err := rateService.Refresh(context.Background()); err != nil {
		t.Fatalf("Failed to warm rate cache: %v", err)
	}

	// Catalog on disk
	loader := catalog.NewLoader(cfg.CatalogDir)
	if err := loader.SaveApps([]models.App{{Name: "Firefox", Exec: "firefox"}}); err != nil {
		t.Fatalf("Failed to write app catalog: %v", err)
	}
	if err := loader.SaveScripts([]models.Script{{Alias: "backup", Path: "/opt/bin/backup.sh"}}); err != nil {
		t.Fatalf("Failed to write script catalog: %v", err)
	}

	// A file for the search sub-mode to find
	notesPath := filepath.Join(cfg.FileSearch.BasePath, "notes.md")
	if err := os.MkdirAll(filepath.Dir(notesPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(notesPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	registry := skills.NewRegistry()
	registry.Register(skills.NewMathSkill())
	registry.Register(skills.NewCurrencySkill(rateService, &mocks.MockLocalizer{}))

	state := omnibar.New(registry, omnibar.Hosts{
		Windows: &mocks.MockWindowLister{},
		Files:   host.FileWalker{},
		Apps:    loader,
		Scripts: loader,
		History: historyStore,
	}, omnibar.Options{
		FileSearchPrefix: cfg.Prefixes.FileSearch,
		TranslatePrefix:  cfg.Prefixes.Translate,
		Debounce:         time.Duration(cfg.DebounceMs) * time.Millisecond,
		FileBasePath:     cfg.FileSearch.BasePath,
		AppLimit:         cfg.Limits.Apps,
		WindowLimit:      cfg.Limits.Windows,
		RecentWindow:     cfg.Limits.RecentWindow,
	}, zap.NewNop())
	state.Load(context.Background())

	// Math query resolves through the registry
	state.SetQuery("2+2*3")
	matched := state.Matched()
	if matched == nil || matched.Name != "Calculator" {
		t.Fatalf("Expected calculator match, got %+v", matched)
	}
	out, err := state.ExecuteMatch(context.Background())
	if err != nil || out != "8" {
		t.Fatalf("Expected 8, got %q (%v)", out, err)
	}

	// Currency query resolves from the persisted rate table
	state.SetQuery("100 usd to eur")
	matched = state.Matched()
	if matched == nil || !strings.Contains(matched.Description, "92.00 EUR") {
		t.Fatalf("Expected converted preview, got %+v", matched)
	}

	// App candidates come from the on-disk catalog
	state.SetQuery("fire")
	apps := state.FilteredApps()
	if len(apps) != 1 || apps[0].Exec != "firefox" {
		t.Fatalf("Expected firefox candidate, got %+v", apps)
	}

	// Recording a selection persists and survives a reload
	state.RecordSelection(models.ActionForApp(apps[0], time.Now()))
	recent, err := historyStore.Recent(10)
	if err != nil || len(recent) != 1 || recent[0].ID != "app:firefox" {
		t.Fatalf("Expected recorded selection, got %+v (%v)", recent, err)
	}

	// File search sub-mode finds the real file after the debounce
	state.SetQuery("ff notes")
	time.Sleep(200 * time.Millisecond)
	files := state.FileResults()
	if len(files) != 1 || files[0] != notesPath {
		t.Fatalf("Expected %s, got %+v", notesPath, files)
	}
}

// TestRatesSurviveRestart verifies the persisted rate table serves a fresh
// process without touching the network.
func TestRatesSurviveRestart(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "omnibar.db")

	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprint(w, `{"result":"success","rates":{"USD":1,"EUR":0.92}}`)
	}))
	defer srv.Close()

	database, err := db.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	svc := rates.NewService(rates.NewHTTPProviderWithEndpoint(srv.URL), db.NewRateCacheStore(database), rates.DefaultTTL, "USD", zap.NewNop())
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	database.Close()

	// Fresh process: same database file, new service
	database, err = db.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	svc = rates.NewService(rates.NewHTTPProviderWithEndpoint(srv.URL), db.NewRateCacheStore(database), rates.DefaultTTL, "USD", zap.NewNop())

	table, ok := svc.Fresh()
	if !ok {
		t.Fatal("Expected persisted table to be fresh after restart")
	}
	if table.Rates["EUR"] != 0.92 {
		t.Errorf("Expected persisted EUR rate, got %v", table.Rates["EUR"])
	}
	if fetches != 1 {
		t.Errorf("Expected a single fetch across restarts, got %d", fetches)
	}
}
