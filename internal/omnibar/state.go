package omnibar

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/themobileprof/omnibar/internal/history"
	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/internal/journey"
	"github.com/themobileprof/omnibar/internal/skills"
	"github.com/themobileprof/omnibar/pkg/models"
)

// Mode is the palette's interaction mode. Exactly one is active at a time.
type Mode string

const (
	ModeIdle        Mode = "idle"
	ModeSearching   Mode = "searching"
	ModeChatting    Mode = "chatting"
	ModeExecuting   Mode = "executing"
	ModeTranslating Mode = "translating"
)

// ErrNoMatch is returned by ExecuteMatch when no candidate is matched
var ErrNoMatch = errors.New("no matched candidate")

// ErrHostExecuted is returned for candidates the host launches itself
// (scripts, internal actions); only skill candidates execute in-core.
var ErrHostExecuted = errors.New("candidate is executed by the host")

// Hosts bundles the host-collaborator ports the state machine drives
type Hosts struct {
	Windows interfaces.WindowLister
	Files   interfaces.FileSearcher
	Apps    interfaces.AppLister
	Scripts interfaces.ScriptLister
	History interfaces.HistoryStore
}

// Options tunes prefixes, debounce, and display bounds
type Options struct {
	FileSearchPrefix string        // reserved file-search command word, e.g. "ff"
	TranslatePrefix  string        // reserved translate command word, e.g. "tr"
	Debounce         time.Duration // file-search settle delay
	FileBasePath     string        // base directory for file searches
	IncludeHidden    bool
	AppLimit         int
	WindowLimit      int
	RecentWindow     int // size of the recent-action window read for ranking
}

// DefaultOptions mirrors the shipped configuration defaults
func DefaultOptions() Options {
	return Options{
		FileSearchPrefix: "ff",
		TranslatePrefix:  "tr",
		Debounce:         300 * time.Millisecond,
		AppLimit:         5,
		WindowLimit:      5,
		RecentWindow:     20,
	}
}

// State is the query state machine: it owns the current query text,
// interaction mode, and all derived candidate lists. Query mutations are
// processed in arrival order; async sub-searches are debounced and guarded
// by a generation counter so a superseded request that resolves late is
// never applied.
type State struct {
	mu sync.Mutex

	registry *skills.Registry
	hosts    Hosts
	opts     Options
	logger   *zap.Logger
	journeys *journey.Logger

	mode     Mode
	query    string
	selected int

	// host-provided source lists
	apps    []models.App
	scripts []models.Script
	windows []models.Window
	recent  []models.ActionEntry

	// derived candidate views
	matched         *models.Candidate
	matchedSkill    skills.Skill
	filteredWindows []models.Window
	filteredApps    []models.App
	filteredScripts []models.Script
	files           []string

	debouncer *Debouncer
	fileGen   uint64

	now func() time.Time
}

// New creates an idle state machine
func New(registry *skills.Registry, hosts Hosts, opts Options, logger *zap.Logger) *State {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	return &State{
		registry:  registry,
		hosts:     hosts,
		opts:      opts,
		logger:    logger,
		mode:      ModeIdle,
		debouncer: NewDebouncer(opts.Debounce),
		now:       time.Now,
	}
}

// SetJourneyLogger attaches optional per-query journey logging
func (s *State) SetJourneyLogger(j *journey.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journeys = j
}

// Load pulls apps, scripts, and the recent-action window from the host.
// Failures are logged and leave the prior lists untouched.
func (s *State) Load(ctx context.Context) {
	apps, err := s.hosts.Apps.ListApps(ctx)
	if err != nil {
		s.logger.Warn("load apps failed", zap.Error(err))
		apps = nil
	}
	scripts, err := s.hosts.Scripts.ListScripts(ctx)
	if err != nil {
		s.logger.Warn("load scripts failed", zap.Error(err))
		scripts = nil
	}
	recent, err := s.hosts.History.Recent(s.opts.RecentWindow)
	if err != nil {
		s.logger.Warn("load recent actions failed", zap.Error(err))
		recent = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if apps != nil {
		s.apps = apps
	}
	if scripts != nil {
		s.scripts = scripts
	}
	if recent != nil {
		s.recent = recent
	}
	s.recomputeLocked()
}

// SetQuery mutates the query text and recomputes mode, candidates, and
// the selection index. This is the single entry point for keystrokes.
func (s *State) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q

	// Mode derivation. chatting and executing are entered and exited only
	// by explicit actions, never re-derived from query text.
	if q != "" && s.mode == ModeIdle {
		s.mode = ModeSearching
		go s.refreshWindows()
	} else if q == "" && (s.mode == ModeSearching || s.mode == ModeTranslating) {
		s.mode = ModeIdle
	}

	if q != "" && strings.HasPrefix(q, s.opts.TranslatePrefix+" ") {
		s.mode = ModeTranslating
	} else if s.mode == ModeTranslating {
		// Prefix removed while query remains non-empty
		s.mode = ModeSearching
	}

	s.scheduleFileSearchLocked(q)
	s.recomputeLocked()
}

// scheduleFileSearchLocked manages the debounced file-search sub-mode.
// Every mutation bumps the generation counter, so an in-flight request
// from a superseded query can never apply its results.
func (s *State) scheduleFileSearchLocked(q string) {
	s.fileGen++
	gen := s.fileGen

	remainder, ok := s.fileQuery(q)
	if !ok {
		s.debouncer.Cancel()
		s.files = nil
		return
	}

	s.debouncer.Debounce(func() {
		s.runFileSearch(gen, remainder)
	})
}

// fileQuery extracts the file-search remainder, reporting whether the
// query is in file-search form (prefix plus non-empty remainder).
func (s *State) fileQuery(q string) (string, bool) {
	prefix := s.opts.FileSearchPrefix + " "
	lower := strings.ToLower(q)
	if !strings.HasPrefix(lower, prefix) {
		return "", false
	}
	remainder := strings.TrimSpace(q[len(prefix):])
	if remainder == "" {
		return "", false
	}
	return remainder, true
}

// runFileSearch issues the host file-search request for one generation
// and applies the results only if the generation is still current.
func (s *State) runFileSearch(gen uint64, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := s.now()
	results, err := s.hosts.Files.SearchFiles(ctx, query, s.opts.FileBasePath, s.opts.IncludeHidden)
	if err != nil {
		s.logger.Warn("file search failed", zap.String("query", query), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.fileGen {
		// A newer mutation superseded this request; discard
		return
	}
	s.files = results
	if s.journeys != nil {
		s.journeys.AddStep("files", len(results), 0, s.now().Sub(start))
	}
}

// refreshWindows asynchronously enumerates open windows on entering
// searching. A failure leaves the prior list untouched.
func (s *State) refreshWindows() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	windows, err := s.hosts.Windows.ListWindows(ctx)
	if err != nil {
		s.logger.Warn("window enumeration failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = windows
	s.recomputeLocked()
}

// recomputeLocked rebuilds every derived view from the current query and
// source lists, then re-derives the selection index: the matched skill or
// tool pre-selects slot 0; otherwise the first window/app/script candidate
// (slot 1) is the most actionable result.
func (s *State) recomputeLocked() {
	q := strings.ToLower(strings.TrimSpace(s.query))

	if s.journeys != nil {
		s.journeys.Begin(s.query, string(s.mode))
	}

	start := s.now()
	s.deriveMatchedLocked(q)
	if s.journeys != nil {
		count, score := 0, 0.0
		if s.matched != nil {
			count, score = 1, 1.0
		}
		s.journeys.AddStep("skill", count, score, s.now().Sub(start))
	}

	s.filteredWindows = history.FilterWindows(s.windows, q, s.opts.WindowLimit)
	s.filteredApps = history.RankApps(s.apps, q, s.recent, s.opts.AppLimit)
	s.filteredScripts = history.RankScripts(s.scripts, q, s.recent)

	if s.journeys != nil {
		s.journeys.AddStep("windows", len(s.filteredWindows), 0, 0)
		s.journeys.AddStep("apps", len(s.filteredApps), 0, 0)
		s.journeys.AddStep("scripts", len(s.filteredScripts), 0, 0)
	}

	switch {
	case s.matched != nil:
		s.selected = 0
	case len(s.filteredWindows)+len(s.filteredApps)+len(s.filteredScripts) > 0:
		s.selected = 1
	default:
		s.selected = 0
	}
}

// deriveMatchedLocked fills the single matched-candidate slot: an exact
// script alias wins, then the best skill above the confidence floor, then
// the internal settings entry.
func (s *State) deriveMatchedLocked(q string) {
	s.matched = nil
	s.matchedSkill = nil
	if q == "" {
		return
	}

	for _, script := range s.scripts {
		if strings.ToLower(script.Alias) == q {
			s.matched = &models.Candidate{
				Type:        models.CandidateScript,
				ID:          script.Alias,
				Name:        script.Alias,
				Description: "Run script: " + script.Alias,
				Icon:        "💻",
				Data:        script,
			}
			return
		}
	}

	if m := s.registry.Match(q); m != nil {
		desc := m.Preview
		if desc == "" {
			desc = m.Skill.Description()
		}
		s.matched = &models.Candidate{
			Type:        models.CandidateSkill,
			ID:          m.Skill.ID(),
			Name:        m.Skill.Name(),
			Description: desc,
			Icon:        m.Skill.Icon(),
			Data:        m.Data,
		}
		s.matchedSkill = m.Skill
		return
	}

	if len(q) > 1 && strings.Contains("settings", q) {
		s.matched = &models.Candidate{
			Type:        models.CandidateInternal,
			ID:          "settings",
			Name:        "Open Settings",
			Description: "Configure appearance, shortcuts, and skills",
			Icon:        "⚙️",
		}
	}
}

// OpenChat enters chatting mode (explicit user action)
func (s *State) OpenChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeChatting
}

// CloseChat leaves chatting mode, returning to searching or idle
// depending on the query.
func (s *State) CloseChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeChatting {
		return
	}
	s.exitExplicitModeLocked()
}

// BeginExecution enters executing mode (explicit user action, e.g. a
// script run whose output is being streamed).
func (s *State) BeginExecution() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeExecuting
}

// FinishExecution leaves executing mode
func (s *State) FinishExecution() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeExecuting {
		return
	}
	s.exitExplicitModeLocked()
}

func (s *State) exitExplicitModeLocked() {
	if s.query == "" {
		s.mode = ModeIdle
	} else if strings.HasPrefix(s.query, s.opts.TranslatePrefix+" ") {
		s.mode = ModeTranslating
	} else {
		s.mode = ModeSearching
	}
}

// ExecuteMatch runs the matched skill and returns its result. Script and
// internal candidates are launched by the host, not the core.
func (s *State) ExecuteMatch(ctx context.Context) (string, error) {
	s.mu.Lock()
	matched := s.matched
	skill := s.matchedSkill
	s.mu.Unlock()

	if matched == nil {
		return "", ErrNoMatch
	}
	if matched.Type != models.CandidateSkill || skill == nil {
		return "", ErrHostExecuted
	}
	return skill.Execute(ctx, matched.Data)
}

// RecordSelection writes a history entry through the host store and
// refreshes the in-memory recent window. Failures are logged, not
// surfaced; the palette keeps working on stale history.
func (s *State) RecordSelection(entry models.ActionEntry) {
	if entry.ID == "" {
		return
	}

	if err := s.hosts.History.Record(entry); err != nil {
		s.logger.Warn("record action failed", zap.String("id", entry.ID), zap.Error(err))
		return
	}

	if s.journeys != nil {
		s.journeys.End(entry.ID)
	}

	recent, err := s.hosts.History.Recent(s.opts.RecentWindow)
	if err != nil {
		s.logger.Warn("refresh recent actions failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = recent
	s.recomputeLocked()
}

// ClearHistory empties the action history wholesale
func (s *State) ClearHistory() error {
	if err := s.hosts.History.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = nil
	s.recomputeLocked()
	return nil
}

// Mode returns the current interaction mode
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Query returns the current query text
func (s *State) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SelectedIndex returns the pre-selected candidate index
func (s *State) SelectedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Matched returns the single matched skill/tool candidate, or nil
func (s *State) Matched() *models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matched
}

// FilteredWindows returns the bounded window candidates
func (s *State) FilteredWindows() []models.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredWindows
}

// FilteredApps returns the ranked, bounded app candidates
func (s *State) FilteredApps() []models.App {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredApps
}

// FilteredScripts returns the ranked script candidates
func (s *State) FilteredScripts() []models.Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredScripts
}

// FileResults returns the latest applied file-search results
func (s *State) FileResults() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}
