package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/core"
	choruserrors "github.com/tessro/chorus/internal/errors"
	"github.com/tessro/chorus/internal/platform/host"
	"github.com/tessro/chorus/internal/session"
	"github.com/tessro/chorus/internal/studio"
	"github.com/tessro/chorus/internal/tail"
)

var (
	playUseAPI     bool
	playFormat     string
	playTimestamps bool
	playNoEmoji    bool
	playExport     bool
	playMessage    string
)

// exportTimeout bounds the wait for a card export at the end of a session.
const exportTimeout = 30 * time.Second

var playCmd = &cobra.Command{
	Use:   "play <track-id>",
	Short: "Play a preview without the studio screen",
	Long: `Play a track's preview headlessly and print playback events as they
happen. The command exits when the preview ends.

Format templates see: .Type .Emoji .Time .ID .Title .Artist .Album
.Position .Duration .Progress .Color .Message

Examples:
  chorus play 1690184476
  chorus play --export --message "on repeat" 1690184476
  chorus play --format '{{.Time}} {{.Type}} {{.Position}}' 1690184476`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playUseAPI, "api", false, "look up through the chorus proxy at studio.api_url")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom output format (Go template)")
	playCmd.Flags().BoolVarP(&playTimestamps, "timestamps", "t", false, "prefix events with the time")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji in output")
	playCmd.Flags().BoolVarP(&playExport, "export", "e", false, "save the share card when playback ends")
	playCmd.Flags().StringVarP(&playMessage, "message", "m", "", "share message printed on the card")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := parseTrackID(args[0])
	if err != nil {
		return err
	}

	opts := []tail.FormatterOption{
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamps),
	}
	if playFormat != "" {
		tmpl, err := tail.ParseTemplate(playFormat)
		if err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
		opts = append(opts, tail.WithTemplate(tmpl))
	}
	formatter := tail.NewFormatter(opts...)

	track, err := newTrackSource(cfg, playUseAPI).Lookup(ctx, id)
	if err != nil {
		return err
	}
	if !track.HasAudio() && !playExport {
		return choruserrors.ErrNoAudio
	}

	return playHeadless(ctx, track, formatter)
}

// playHeadless runs one session, printing events until playback stops.
func playHeadless(ctx context.Context, track *core.Track, formatter *tail.Formatter) error {
	deps := newStudioDeps(cfg, track, false)
	notifier := host.NotifierFunc(func(msg string) {
		_, _ = mutedColor.Fprintln(os.Stderr, msg)
	})
	deps.Services.Notifier = notifier
	if d, ok := deps.Services.Downloader.(*host.Downloader); ok {
		d.Notifier = notifier
	}
	if playMessage != "" {
		deps.Options.Message = playMessage
	}

	watcher := tail.NewWatcher(track)
	stopped := make(chan struct{}, 1)

	sess, err := session.New(ctx, track, session.Config{
		FrameRate: cfg.Studio.FrameRate,
		Services:  deps.Services,
		Images:    deps.Images,
		Options:   deps.Options,
		OnChange: func(s studio.State, _ []byte) {
			watcher.Observe(s)
			if s.Phase == studio.PhasePaused && !s.IsPlaying && !s.IsSaving {
				select {
				case stopped <- struct{}{}:
				default:
				}
			}
		},
	})
	if err != nil {
		return err
	}
	defer watcher.Stop()
	defer sess.Close()

	emit := func(e tail.Event) {
		if JSONOutput() {
			printEventJSON(e)
			return
		}
		fmt.Println(formatter.Format(e))
	}
	drain := func() {
		for {
			select {
			case e := <-watcher.Events():
				emit(e)
			default:
				return
			}
		}
	}

	logger.Debug().Int64("track_id", track.ID).Msg("headless playback")
	sess.Start()

	for {
		select {
		case <-ctx.Done():
			drain()
			return nil
		case e := <-watcher.Events():
			emit(e)
		case <-stopped:
			drain()
			if playExport {
				return exportCard(ctx, sess, watcher, emit)
			}
			return nil
		}
	}
}

// exportCard saves the share card and waits for the export to settle.
func exportCard(ctx context.Context, sess *session.Session, watcher *tail.Watcher, emit func(tail.Event)) error {
	sess.Save()
	timeout := time.After(exportTimeout)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("export timed out after %s", exportTimeout)
		case e := <-watcher.Events():
			emit(e)
			if e.Type == tail.EventSaved {
				return nil
			}
		}
	}
}

func printEventJSON(e tail.Event) {
	data, err := json.Marshal(tail.NewTemplateData(e))
	if err != nil {
		logger.Warn().Err(err).Msg("encode event")
		return
	}
	fmt.Println(string(data))
}
