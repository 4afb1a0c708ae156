package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/core"
	choruserrors "github.com/tessro/chorus/internal/errors"
	"github.com/tessro/chorus/internal/search"
	"github.com/tessro/chorus/internal/tui"
	"github.com/tessro/chorus/internal/wizard"
)

var (
	searchUseAPI      bool
	searchPage        int
	searchPick        bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog for songs",
	Long: `Search the catalog and list matching songs, 20 per page.

With --pick, choose one of the results and open it in the studio. With
--interactive, browse results on the full search screen instead.

Examples:
  chorus search hype boy
  chorus search --page 2 newjeans
  chorus search --pick "super shy"
  chorus search -i`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchUseAPI, "api", false, "query the chorus proxy at studio.api_url instead of the catalog")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "page of results to show")
	searchCmd.Flags().BoolVar(&searchPick, "pick", false, "pick a result and open it in the studio")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "open the search screen")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPage < 1 {
		return fmt.Errorf("invalid page %d", searchPage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")
	source := newTrackSource(cfg, searchUseAPI)

	if searchInteractive {
		if !wizard.IsTerminal() {
			return wizard.ErrNotInteractive
		}
		applyTheme(cfg.TUI.Theme)
		ctrl := search.New(source, nil, logger)
		track, err := tui.RunSearch(ctx, ctrl, query)
		if err != nil || track == nil {
			return err
		}
		return runStudioScreen(ctx, track)
	}

	if strings.TrimSpace(query) == "" {
		return choruserrors.ErrMissingQuery
	}

	tracks, err := source.Search(ctx, query)
	if err != nil {
		return err
	}

	if searchPick {
		picker := wizard.NewInteractive()
		track, err := picker.PickTrack(fmt.Sprintf("Results for %q", query), tracks)
		if err != nil || track == nil {
			return err
		}
		applyTheme(cfg.TUI.Theme)
		return runStudioScreen(ctx, track)
	}

	page, hasMore := pageOf(tracks, searchPage)
	if len(page) == 0 {
		return fmt.Errorf("page %d is past the last page (%d results)", searchPage, len(tracks))
	}

	if JSONOutput() {
		return PrintJSON(map[string]interface{}{
			"query":    query,
			"page":     searchPage,
			"total":    len(tracks),
			"has_more": hasMore,
			"results":  page,
		})
	}

	printTracks(page, TerminalWidth(100))
	fmt.Println()
	start := (searchPage - 1) * search.PageSize
	shown := start + len(page)
	_, _ = mutedColor.Printf("Showing %s-%s of %s results\n",
		humanize.Comma(int64(start+1)), humanize.Comma(int64(shown)), humanize.Comma(int64(len(tracks))))
	if hasMore {
		_, _ = mutedColor.Printf("Next page: chorus search --page %d %s\n", searchPage+1, query)
	}
	return nil
}

// pageOf returns the n-th page (1-based) of tracks and whether more follow.
func pageOf(tracks []core.Track, n int) ([]core.Track, bool) {
	if n < 1 {
		n = 1
	}
	start := (n - 1) * search.PageSize
	if start >= len(tracks) {
		return nil, false
	}
	end := min(start+search.PageSize, len(tracks))
	return tracks[start:end], end < len(tracks)
}

// printTracks writes tracks as a table sized to width.
func printTracks(tracks []core.Track, width int) {
	col := max((width-24)/3, 12)
	table := NewTable("ID", "TITLE", "ARTIST", "ALBUM", "PREVIEW")
	for _, t := range tracks {
		table.Row(
			t.IDString(),
			TruncateString(t.Title, col),
			TruncateString(t.Artist, col),
			TruncateString(t.Album, col),
			StatusIcon(t.HasAudio()),
		)
	}
	table.Flush()
}
