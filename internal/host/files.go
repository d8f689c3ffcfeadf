package host

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/themobileprof/omnibar/internal/interfaces"
)

// maxFileResults bounds a single search pass
const maxFileResults = 50

// FileWalker searches the filesystem by case-insensitive substring match
// on the file name. It stands in for a dedicated host indexer.
type FileWalker struct{}

var _ interfaces.FileSearcher = FileWalker{}

// SearchFiles walks basePath and collects paths whose base name contains
// query. Hidden entries are skipped unless includeHidden is set.
func (FileWalker) SearchFiles(ctx context.Context, query, basePath string, includeHidden bool) ([]string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	var results []string
	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if !includeHidden && strings.HasPrefix(name, ".") && path != basePath {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && strings.Contains(strings.ToLower(name), query) {
			results = append(results, path)
			if len(results) >= maxFileResults {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
