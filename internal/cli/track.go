package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform/host"
)

var trackUseAPI bool

var trackCmd = &cobra.Command{
	Use:   "track <id>",
	Short: "Show one track",
	Long: `Look a track up by catalog id and print its details, including the
share link the studio would use.

Examples:
  chorus track 1690184476
  chorus track --json 1690184476`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().BoolVar(&trackUseAPI, "api", false, "look up through the chorus proxy at studio.api_url")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	id, err := parseTrackID(args[0])
	if err != nil {
		return err
	}

	track, err := newTrackSource(cfg, trackUseAPI).Lookup(context.Background(), id)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return PrintJSON(track)
	}
	printTrack(track, host.TrackURL(cfg.Studio.ShareURL, track.ID))
	return nil
}

func printTrack(t *core.Track, link string) {
	_, _ = accentColor.Println(t.Title)
	Normal("Artist", t.Artist)
	if t.Album != "" {
		Normal("Album", t.Album)
	}
	Normal("ID", t.IDString())
	preview := "none"
	if t.HasAudio() {
		preview = t.AudioURL
	}
	Normal("Preview", preview)
	if t.CoverURL != "" {
		Normal("Cover", t.CoverURL)
	}
	Normal("Share", link)
	if !t.HasAudio() {
		fmt.Println()
		_, _ = mutedColor.Println("The studio can show this track but has nothing to play.")
	}
}
