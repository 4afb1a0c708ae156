// Package wizard holds the interactive fallbacks commands use when an
// argument is missing and a person is at the keyboard.
package wizard

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tessro/chorus/internal/core"
)

// ErrNotInteractive is returned when a prompt is needed but nobody can answer it.
var ErrNotInteractive = errors.New("not running in a terminal")

// maxOptions caps how many tracks the picker lists.
const maxOptions = 50

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PickTrack shows a picker over tracks and returns the chosen one.
func (i *Interactive) PickTrack(title string, tracks []core.Track) (*core.Track, error) {
	if !i.CanInteract() {
		return nil, ErrNotInteractive
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description("The studio opens with the track you pick").
				Options(TrackOptions(tracks)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return FindTrack(tracks, selected), nil
}

// TrackOptions builds picker options keyed by catalog id. Tracks without
// a preview are labelled since the studio cannot play them.
func TrackOptions(tracks []core.Track) []huh.Option[string] {
	n := len(tracks)
	if n > maxOptions {
		n = maxOptions
	}

	options := make([]huh.Option[string], 0, n)
	for _, t := range tracks[:n] {
		label := fmt.Sprintf("%s — %s", t.Title, t.Artist)
		if !t.HasAudio() {
			label += " [no preview]"
		}
		options = append(options, huh.NewOption(label, t.IDString()))
	}
	return options
}

// FindTrack returns the track whose id is id, or nil.
func FindTrack(tracks []core.Track, id string) *core.Track {
	want, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil
	}
	for i := range tracks {
		if tracks[i].ID == want {
			return &tracks[i]
		}
	}
	return nil
}

// NeedsTrack returns true if a track argument is required but missing.
func NeedsTrack(args []string) bool {
	return len(args) == 0
}
