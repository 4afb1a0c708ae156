package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/studio"
	"github.com/tessro/chorus/internal/tui/styles"
)

// discFrames are the record glyphs for each quarter turn.
var discFrames = []string{"◐", "◓", "◑", "◒"}

// barLevels are the partial cells for a bar, in eighths.
var barLevels = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Player displays the track, its spinning record and the visualizer
type Player struct {
	// SpectrumHeight is the bar height in rows at rest scale.
	SpectrumHeight int
}

// NewPlayer creates a new Player component
func NewPlayer() *Player {
	return &Player{SpectrumHeight: 6}
}

// PlayerState is everything the player panel draws.
type PlayerState struct {
	Track *core.Track
	State studio.State
	// Bins is the latest byte spectrum.
	Bins  []byte
	Angle float64
	Scale float64
}

// Render renders the player panel
func (p *Player) Render(ps PlayerState, width int, focused bool) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	accent := styles.Accent(ps.State.DominantColor)

	title := styles.Title.Width(inner - 4).Render(truncate(ps.Track.Title, inner-4))
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(accent).Render(Disc(ps.Angle))+"  ",
		title,
	)

	lines := []string{
		header,
		"   " + styles.Subtitle.Render(truncate(ps.Track.Artist, inner-3)),
		"",
	}

	switch {
	case !ps.State.HasAudio:
		lines = append(lines, styles.Muted.Render("No preview available for this track"))
	case ps.State.Visualizer:
		rows := int(math.Round(float64(p.SpectrumHeight) * ps.Scale))
		lines = append(lines, Spectrum(ps.Bins, inner, rows, styles.Gradient(ps.State.DominantColor, rows)))
	default:
		lines = append(lines, styles.Dim.Render("Visualizer unavailable"))
	}

	if ps.State.HasAudio {
		barWidth := inner - len(ps.State.CurrentTime) - len(ps.State.Duration) - 4
		lines = append(lines,
			"",
			fmt.Sprintf("%s %s %s  %s",
				ps.State.CurrentTime,
				styles.ProgressBar(ps.State.Progress, barWidth, accent),
				ps.State.Duration,
				styles.StatusIcon(ps.State.IsPlaying),
			),
		)
	}

	return styles.Panel(focused).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Disc returns the record glyph for a rotation angle in degrees.
func Disc(angle float64) string {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return discFrames[int(a/90)%len(discFrames)]
}

// Spectrum renders bins as vertical bars, width columns by height rows.
// Bins are averaged into columns; colors, when given, tint rows top to bottom.
func Spectrum(bins []byte, width, height int, colors []lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	levels := make([]int, width)
	if len(bins) > 0 {
		for col := range levels {
			lo := col * len(bins) / width
			hi := (col + 1) * len(bins) / width
			if hi <= lo {
				hi = lo + 1
			}
			sum := 0
			for _, v := range bins[lo:hi] {
				sum += int(v)
			}
			avg := float64(sum) / float64(hi-lo)
			levels[col] = int(math.Round(avg / 255 * float64(height*8)))
		}
	}

	rows := make([]string, height)
	var b strings.Builder
	for r := 0; r < height; r++ {
		b.Reset()
		// Eighths below this row's floor are covered by the rows beneath it.
		floor := (height - 1 - r) * 8
		for _, lvl := range levels {
			fill := lvl - floor
			if fill < 0 {
				fill = 0
			}
			if fill > 8 {
				fill = 8
			}
			b.WriteRune(barLevels[fill])
		}
		line := b.String()
		if r < len(colors) {
			line = lipgloss.NewStyle().Foreground(colors[r]).Render(line)
		}
		rows[r] = line
	}
	return strings.Join(rows, "\n")
}
