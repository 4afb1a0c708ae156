package host

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tessro/chorus/internal/platform"
)

// CommandSharer hands shares to the Android share sheet via termux-share.
type CommandSharer struct {
	path string
}

// DetectSharer returns a native sharer, or nil when the host has none.
func DetectSharer() platform.Sharer {
	path, err := exec.LookPath("termux-share")
	if err != nil {
		return nil
	}
	return &CommandSharer{path: path}
}

func (s *CommandSharer) CanShare(data platform.ShareData) bool {
	return data.Text != "" || data.URL != ""
}

func (s *CommandSharer) Share(ctx context.Context, data platform.ShareData) error {
	cmd := exec.CommandContext(ctx, s.path, "-a", "send", "-t", data.Title)
	cmd.Stdin = strings.NewReader(shareBody(data))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("termux-share: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func shareBody(data platform.ShareData) string {
	switch {
	case data.Text == "":
		return data.URL
	case data.URL == "":
		return data.Text
	default:
		return data.Text + "\n" + data.URL
	}
}
