package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/internal/utils/safeexec"
	"github.com/themobileprof/omnibar/pkg/models"
)

// HyprctlWindows enumerates open windows through the Hyprland control
// socket client. Hosts on other compositors supply their own lister.
type HyprctlWindows struct{}

var _ interfaces.WindowLister = HyprctlWindows{}

type hyprClient struct {
	Title   string `json:"title"`
	Class   string `json:"class"`
	Address string `json:"address"`
	Mapped  bool   `json:"mapped"`
}

// ListWindows runs `hyprctl clients -j` and decodes the mapped clients.
func (HyprctlWindows) ListWindows(ctx context.Context) ([]models.Window, error) {
	cmd := safeexec.Command("hyprctl", "clients", "-j")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run hyprctl: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var clients []hyprClient
	if err := json.Unmarshal(out, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}

	windows := make([]models.Window, 0, len(clients))
	for _, c := range clients {
		if !c.Mapped {
			continue
		}
		windows = append(windows, models.Window{
			Title:   c.Title,
			Class:   c.Class,
			Address: c.Address,
		})
	}
	return windows, nil
}
