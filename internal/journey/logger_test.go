package journey

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readJourneys(t *testing.T, path string) []Journey {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var journeys []Journey
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var j Journey
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &j))
		journeys = append(journeys, j)
	}
	require.NoError(t, scanner.Err())
	return journeys
}

func TestLogger_SelectedJourneyIsFlushed(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir, zap.NewNop())

	l.Begin("2+2", "searching")
	l.AddStep("skill", 1, 1.0, 3*time.Millisecond)
	l.AddStep("apps", 0, 0, 0)
	l.End("ai:builtin-math")

	journeys := readJourneys(t, filepath.Join(dir, "journey.jsonl"))
	require.Len(t, journeys, 1)

	j := journeys[0]
	assert.NotEmpty(t, j.SessionID)
	assert.Equal(t, "2+2", j.Query)
	assert.Equal(t, "searching", j.Mode)
	assert.Equal(t, "ai:builtin-math", j.UserSelection)
	require.Len(t, j.Steps, 2)
	assert.Equal(t, "skill", j.Steps[0].Source)
	assert.Equal(t, 1.0, j.Steps[0].TopScore)
}

func TestLogger_KeystrokesDiscardUnfinishedJourneys(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir, zap.NewNop())

	// Each keystroke starts over; only the final selection lands on disk
	l.Begin("f", "searching")
	l.AddStep("apps", 2, 0, 0)
	l.Begin("fi", "searching")
	l.AddStep("apps", 1, 0, 0)
	l.End("app:firefox")

	journeys := readJourneys(t, filepath.Join(dir, "journey.jsonl"))
	require.Len(t, journeys, 1)
	assert.Equal(t, "fi", journeys[0].Query)
}

func TestLogger_EndWithoutBeginIsNoOp(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir, zap.NewNop())

	l.End("app:firefox")
	l.AddStep("apps", 1, 0, 0)

	_, err := os.Stat(filepath.Join(dir, "journey.jsonl"))
	assert.True(t, os.IsNotExist(err), "nothing to flush, no file created")
}

func TestLogger_AppendsAcrossJourneys(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir, zap.NewNop())

	l.Begin("2+2", "searching")
	l.End("ai:builtin-math")
	l.Begin("backup", "searching")
	l.End("script:backup")

	journeys := readJourneys(t, filepath.Join(dir, "journey.jsonl"))
	require.Len(t, journeys, 2)
	assert.NotEqual(t, journeys[0].SessionID, journeys[1].SessionID)
}
