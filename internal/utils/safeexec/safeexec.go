// Package safeexec resolves and builds commands without exec.LookPath,
// which relies on faccessat2 and dies with SIGSYS under the seccomp
// filters of some Android/Termux kernels.
package safeexec

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LookPath searches PATH for an executable. Drop-in replacement for
// exec.LookPath built on os.Stat, which only needs fstat.
func LookPath(file string) (string, error) {
	// A path with a separator is used as-is after a sanity check
	if strings.Contains(file, string(filepath.Separator)) {
		if isExecutable(file) {
			return file, nil
		}
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, file)
		if isExecutable(path) {
			return path, nil
		}
	}

	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// Command builds an exec.Cmd with the executable resolved via LookPath.
// When resolution fails the name is passed through unchanged and the
// failure surfaces on Run.
func Command(name string, arg ...string) *exec.Cmd {
	if path, err := LookPath(name); err == nil {
		return exec.Command(path, arg...)
	}
	return exec.Command(name, arg...)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0111 != 0
}
