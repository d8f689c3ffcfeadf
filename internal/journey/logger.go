package journey

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Journey records how a single query session was interpreted: which
// sources produced candidates, with what scores, and what the user
// finally selected.
type Journey struct {
	SessionID     string    `json:"session_id"`
	Timestamp     time.Time `json:"timestamp"`
	Query         string    `json:"query"`
	Mode          string    `json:"mode"`
	Steps         []Step    `json:"steps"`
	UserSelection string    `json:"user_selection,omitempty"`
}

// Step represents a distinct candidate source consulted for the query
type Step struct {
	Source     string  `json:"source"`      // "skill", "windows", "apps", "scripts", "files"
	Candidates int     `json:"candidates"`  // count of candidates from this source
	TopScore   float64 `json:"top_score"`   // highest score, where the source scores
	DurationMs int64   `json:"duration_ms"` // time taken for this source
}

// Logger appends finished journeys to a JSONL file, one object per line
type Logger struct {
	mu      sync.Mutex
	current *Journey
	path    string
	logger  *zap.Logger
}

// NewLogger creates a journey logger writing beside the given directory
func NewLogger(dir string, logger *zap.Logger) *Logger {
	return &Logger{
		path:   filepath.Join(dir, "journey.jsonl"),
		logger: logger,
	}
}

// Begin starts a new journey for a query, discarding any unfinished one.
// Every keystroke begins a fresh journey; only selected ones get flushed.
func (l *Logger) Begin(query, mode string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &Journey{
		SessionID: uuid.NewString(),
		Timestamp: time.Now(),
		Query:     query,
		Mode:      mode,
		Steps:     make([]Step, 0, 4),
	}
}

// AddStep records one candidate source's contribution
func (l *Logger) AddStep(source string, candidates int, topScore float64, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	l.current.Steps = append(l.current.Steps, Step{
		Source:     source,
		Candidates: candidates,
		TopScore:   topScore,
		DurationMs: duration.Milliseconds(),
	})
}

// End finalizes the current journey with the user's selection and appends
// it to the log file.
func (l *Logger) End(selection string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	l.current.UserSelection = selection

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		l.logger.Warn("journey: create log dir failed", zap.Error(err))
		l.current = nil
		return
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.logger.Warn("journey: open log failed", zap.Error(err))
		l.current = nil
		return
	}
	defer f.Close()

	data, _ := json.Marshal(l.current)
	f.Write(data)
	f.WriteString("\n")

	l.current = nil
}
