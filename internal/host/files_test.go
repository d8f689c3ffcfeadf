package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFileWalker_MatchesByName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"))
	writeFile(t, filepath.Join(dir, "docs", "meeting-notes.txt"))
	writeFile(t, filepath.Join(dir, "docs", "report.pdf"))

	results, err := FileWalker{}.SearchFiles(context.Background(), "notes", dir, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "notes.md"),
		filepath.Join(dir, "docs", "meeting-notes.txt"),
	}, results)
}

func TestFileWalker_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Notes.MD"))

	results, err := FileWalker{}.SearchFiles(context.Background(), "NOTES", dir, false)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestFileWalker_HiddenEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hidden-notes.md"))
	writeFile(t, filepath.Join(dir, ".config", "notes.conf"))
	writeFile(t, filepath.Join(dir, "notes.md"))

	results, err := FileWalker{}.SearchFiles(context.Background(), "notes", dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.md")}, results)

	results, err = FileWalker{}.SearchFiles(context.Background(), "notes", dir, true)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFileWalker_EmptyQuery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"))

	results, err := FileWalker{}.SearchFiles(context.Background(), "  ", dir, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFileWalker_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileWalker{}.SearchFiles(ctx, "notes", dir, false)
	assert.ErrorIs(t, err, context.Canceled)
}
