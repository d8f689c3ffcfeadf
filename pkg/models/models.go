package models

import (
	"strings"
	"time"
)

// App represents an installed application as reported by the host
type App struct {
	Name string `json:"name"`
	Exec string `json:"exec"`
	Icon string `json:"icon,omitempty"`
}

// Script represents a user-defined script shortcut
type Script struct {
	Alias string   `yaml:"alias" json:"alias"`
	Path  string   `yaml:"path" json:"path"`
	Args  []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// Window represents a currently open window as reported by the host
type Window struct {
	Title   string `json:"title"`
	Class   string `json:"class"`
	Address string `json:"address"`
}

// Action kinds recorded in history
const (
	ActionApp    = "app"
	ActionScript = "script"
	ActionFile   = "file"
	ActionAI     = "ai"
)

// ActionEntry is a single history record of a user selection.
// ID is stable per target (kind-prefixed), so re-selecting the same target
// updates the existing entry instead of appending a new one.
type ActionEntry struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Content      string `json:"content"`
	Name         string `json:"name"`
	Icon         string `json:"icon,omitempty"`
	LastAccessed int64  `json:"last_accessed"` // unix milliseconds
	Frequency    int    `json:"frequency"`
}

// ActionForApp builds the history entry for launching an app
func ActionForApp(app App, when time.Time) ActionEntry {
	return ActionEntry{
		ID:           ActionApp + ":" + app.Exec,
		Kind:         ActionApp,
		Content:      app.Exec,
		Name:         app.Name,
		Icon:         app.Icon,
		LastAccessed: when.UnixMilli(),
		Frequency:    1,
	}
}

// ActionForScript builds the history entry for running a script
func ActionForScript(script Script, when time.Time) ActionEntry {
	return ActionEntry{
		ID:           ActionScript + ":" + script.Alias,
		Kind:         ActionScript,
		Content:      script.Path,
		Name:         script.Alias,
		LastAccessed: when.UnixMilli(),
		Frequency:    1,
	}
}

// ActionForFile builds the history entry for opening a file
func ActionForFile(path string, when time.Time) ActionEntry {
	name := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		name = path[idx+1:]
	}
	return ActionEntry{
		ID:           ActionFile + ":" + path,
		Kind:         ActionFile,
		Content:      path,
		Name:         name,
		LastAccessed: when.UnixMilli(),
		Frequency:    1,
	}
}

// ActionForSkill builds the history entry for invoking a skill or tool
func ActionForSkill(id, name string, when time.Time) ActionEntry {
	return ActionEntry{
		ID:           ActionAI + ":" + id,
		Kind:         ActionAI,
		Content:      id,
		Name:         name,
		LastAccessed: when.UnixMilli(),
		Frequency:    1,
	}
}

// SkillMatch is the result of a skill scoring a query.
// Score is a confidence in (0, 1]; higher always wins across skills.
type SkillMatch struct {
	Score   float64
	Data    interface{}
	Preview string
}

// Candidate types surfaced as the single matched skill/tool slot
const (
	CandidateSkill    = "skill"
	CandidateScript   = "script"
	CandidateInternal = "internal"
)

// Candidate is the matched skill/tool presented at the top of the palette
type Candidate struct {
	Type        string
	ID          string
	Name        string
	Description string
	Icon        string
	Data        interface{}
}

// RateTable maps 3-letter currency codes to rates relative to a single
// base currency, with the time the table was fetched.
type RateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt int64              `json:"fetched_at"` // unix milliseconds
}

// FetchedTime returns FetchedAt as a time.Time
func (t RateTable) FetchedTime() time.Time {
	return time.UnixMilli(t.FetchedAt)
}

// FresherThan reports whether the table was fetched within ttl of now
func (t RateTable) FresherThan(ttl time.Duration, now time.Time) bool {
	return len(t.Rates) > 0 && now.Sub(t.FetchedTime()) < ttl
}

// Convert cross-converts amount between two codes present in the table:
// (amount / rate[from]) * rate[to]. The second return is false when either
// code is absent.
func (t RateTable) Convert(amount float64, from, to string) (float64, bool) {
	rateFrom, okFrom := t.Rates[from]
	rateTo, okTo := t.Rates[to]
	if !okFrom || !okTo || rateFrom == 0 {
		return 0, false
	}
	return (amount / rateFrom) * rateTo, true
}
