package host

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/themobileprof/omnibar/internal/utils/safeexec"
	"github.com/themobileprof/omnibar/pkg/models"
)

// ScriptRunner executes catalog scripts on behalf of the palette
type ScriptRunner struct{}

// Run executes the script and returns its combined output
func (ScriptRunner) Run(ctx context.Context, script models.Script) (string, error) {
	if script.Path == "" {
		return "", fmt.Errorf("script %q has no path", script.Alias)
	}

	// Resolve through safeexec, then attach the context for cancellation
	resolved := safeexec.Command(script.Path, script.Args...)
	cmd := exec.CommandContext(ctx, resolved.Path, script.Args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("failed to run script %s: %w", script.Alias, err)
	}
	return string(out), nil
}
