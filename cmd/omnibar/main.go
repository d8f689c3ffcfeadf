package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/themobileprof/omnibar/internal/catalog"
	"github.com/themobileprof/omnibar/internal/config"
	"github.com/themobileprof/omnibar/internal/db"
	"github.com/themobileprof/omnibar/internal/history"
	"github.com/themobileprof/omnibar/internal/host"
	"github.com/themobileprof/omnibar/internal/journey"
	"github.com/themobileprof/omnibar/internal/logging"
	"github.com/themobileprof/omnibar/internal/omnibar"
	"github.com/themobileprof/omnibar/internal/rates"
	"github.com/themobileprof/omnibar/internal/skills"
	"github.com/themobileprof/omnibar/internal/ui"
)

var (
	version     = "1.0.0"
	configPath  string
	dbPath      string
	debug       bool
	journeys    bool
	showVersion bool
)

func init() {
	flag.StringVar(&configPath, "config", config.GetConfigPath(), "Path to configuration file")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	flag.BoolVar(&journeys, "journeys", false, "Record per-query journey logs")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("Omnibar v%s\n", version)
		fmt.Println("Command palette for the terminal")
		return
	}

	// Load configuration (creates with defaults if doesn't exist)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	logger := logging.New(cfg.LogPath, debug)
	defer logger.Sync()

	// Open database
	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	historyStore := history.NewStore(database)
	rateService := rates.NewService(
		rates.NewHTTPProvider(),
		db.NewRateCacheStore(database),
		time.Duration(cfg.RateTTLHours)*time.Hour,
		cfg.BaseCurrency,
		logger,
	)

	// Skills register in priority order; earlier wins score ties
	registry := skills.NewRegistry()
	registry.Register(skills.NewMathSkill())
	registry.Register(skills.NewCurrencySkill(rateService, skills.EnvLocalizer{}))

	loader := catalog.NewLoader(cfg.CatalogDir)
	state := omnibar.New(registry, omnibar.Hosts{
		Windows: host.HyprctlWindows{},
		Files:   host.FileWalker{},
		Apps:    loader,
		Scripts: loader,
		History: historyStore,
	}, omnibar.Options{
		FileSearchPrefix: cfg.Prefixes.FileSearch,
		TranslatePrefix:  cfg.Prefixes.Translate,
		Debounce:         time.Duration(cfg.DebounceMs) * time.Millisecond,
		FileBasePath:     cfg.FileSearch.BasePath,
		IncludeHidden:    cfg.FileSearch.IncludeHidden,
		AppLimit:         cfg.Limits.Apps,
		WindowLimit:      cfg.Limits.Windows,
		RecentWindow:     cfg.Limits.RecentWindow,
	}, logger)

	if journeys {
		state.SetJourneyLogger(journey.NewLogger(filepath.Dir(cfg.LogPath), logger))
	}

	ctx := context.Background()
	state.Load(ctx)
	rateService.RefreshAsync()

	// Debounced file search plus a margin before the REPL renders
	settle := time.Duration(cfg.DebounceMs)*time.Millisecond + 150*time.Millisecond

	repl := ui.NewREPL(state, historyStore, settle)
	if err := repl.Start(ctx); err != nil {
		log.Fatalf("REPL error: %v", err)
	}
}
