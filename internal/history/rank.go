package history

import (
	"sort"
	"strings"

	"github.com/themobileprof/omnibar/pkg/models"
)

// weightBase anchors the recency weights. Position i in the recent window
// gets weight weightBase-i, so more recent selections always outrank
// older ones and anything outside the window gets 0.
const weightBase = 10000

// recencyWeights builds a content-identity to weight lookup from the
// recent-action window, restricted to one action kind.
func recencyWeights(recent []models.ActionEntry, kind string) map[string]int {
	weights := make(map[string]int)
	for i, action := range recent {
		if action.Kind != kind {
			continue
		}
		if _, seen := weights[action.Content]; !seen {
			weights[action.Content] = weightBase - i
		}
	}
	return weights
}

// RankApps filters apps by the query and orders them by history weight,
// then prefix match on name, then name. The result is truncated to limit.
// An empty query yields no candidates.
func RankApps(apps []models.App, query string, recent []models.ActionEntry, limit int) []models.App {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var matches []models.App
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), q) ||
			strings.Contains(strings.ToLower(app.Exec), q) {
			matches = append(matches, app)
		}
	}

	weights := recencyWeights(recent, models.ActionApp)

	sort.Slice(matches, func(i, j int) bool {
		wi, wj := weights[matches[i].Exec], weights[matches[j].Exec]
		if wi != wj {
			return wi > wj
		}
		iStarts := strings.HasPrefix(strings.ToLower(matches[i].Name), q)
		jStarts := strings.HasPrefix(strings.ToLower(matches[j].Name), q)
		if iStarts != jStarts {
			return iStarts
		}
		return matches[i].Name < matches[j].Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// RankScripts filters scripts by alias and orders them by history weight,
// then alias. Scripts are never truncated; an empty query returns the
// catalog in its own order, unranked.
func RankScripts(scripts []models.Script, query string, recent []models.ActionEntry) []models.Script {
	if query == "" {
		out := make([]models.Script, len(scripts))
		copy(out, scripts)
		return out
	}
	q := strings.ToLower(query)

	var matches []models.Script
	for _, script := range scripts {
		if strings.Contains(strings.ToLower(script.Alias), q) {
			matches = append(matches, script)
		}
	}

	weights := recencyWeights(recent, models.ActionScript)

	sort.Slice(matches, func(i, j int) bool {
		wi, wj := weights[matches[i].Path], weights[matches[j].Path]
		if wi != wj {
			return wi > wj
		}
		return matches[i].Alias < matches[j].Alias
	})

	return matches
}

// FilterWindows returns windows whose title or class contains the query,
// truncated to limit. Windows carry no history weight; they keep the
// host's order. An empty query yields no candidates.
func FilterWindows(windows []models.Window, query string, limit int) []models.Window {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var matches []models.Window
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Title), q) ||
			strings.Contains(strings.ToLower(w.Class), q) {
			matches = append(matches, w)
		}
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
