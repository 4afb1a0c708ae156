package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/core"
	choruserrors "github.com/tessro/chorus/internal/errors"
	"github.com/tessro/chorus/internal/search"
	"github.com/tessro/chorus/internal/tui"
	"github.com/tessro/chorus/internal/wizard"
)

var (
	studioUseAPI bool
	studioBell   bool
)

var studioCmd = &cobra.Command{
	Use:   "studio [track-id]",
	Short: "Play a preview with the live visualizer",
	Long: `Open the studio for a track: the 30-second preview plays with a
spectrum visualizer tinted by the cover art.

Keys: space play/pause, s share, d save card, m edit message, q quit.

Without a track id the search screen opens first.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"interactive": "true"},
	RunE:        runStudio,
}

func init() {
	studioCmd.Flags().BoolVar(&studioUseAPI, "api", false, "look tracks up through the chorus proxy at studio.api_url")
	studioCmd.Flags().BoolVar(&studioBell, "bell", false, "ring the terminal bell on key actions")
	rootCmd.AddCommand(studioCmd)
}

func runStudio(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !wizard.IsTerminal() {
		return wizard.ErrNotInteractive
	}
	applyTheme(cfg.TUI.Theme)

	source := newTrackSource(cfg, studioUseAPI)

	if wizard.NeedsTrack(args) {
		track, err := tui.RunSearch(ctx, search.New(source, nil, logger), "")
		if err != nil || track == nil {
			return err
		}
		return runStudioScreen(ctx, track)
	}

	id, err := parseTrackID(args[0])
	if err != nil {
		return err
	}
	track, err := source.Lookup(ctx, id)
	if err != nil {
		return err
	}
	return runStudioScreen(ctx, track)
}

// runStudioScreen plays track on the studio screen until the user quits.
func runStudioScreen(ctx context.Context, track *core.Track) error {
	deps := newStudioDeps(cfg, track, studioBell)
	logger.Debug().Int64("track_id", track.ID).Bool("has_audio", track.HasAudio()).Msg("opening studio")
	return tui.RunStudio(ctx, track, tui.StudioConfig{
		FrameRate: cfg.Studio.FrameRate,
		Services:  deps.Services,
		Images:    deps.Images,
		Options:   deps.Options,
	})
}

// parseTrackID parses a positive decimal catalog id.
func parseTrackID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, choruserrors.ErrInvalidTrackID
	}
	return id, nil
}
