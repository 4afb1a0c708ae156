package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tessro/chorus/internal/core"
)

// Colors - a dark palette the cover accent is layered on
var (
	// Primary colors
	Primary   = lipgloss.Color("#EC4899") // Pink
	Secondary = lipgloss.Color("#8B5CF6") // Violet

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red

	// Neutral colors
	Border    = lipgloss.Color("#4B5563") // Light gray
	Text      = lipgloss.Color("#F9FAFB") // White
	TextMuted = lipgloss.Color("#9CA3AF") // Gray
	TextDim   = lipgloss.Color("#6B7280") // Darker gray
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(Success)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	Notice = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	Selected = lipgloss.NewStyle().
			Background(lipgloss.Color("237"))
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)
)

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// Accent returns the cover color lifted to stay readable on a dark terminal.
func Accent(c core.RGB) lipgloss.Color {
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := col.Hsl()
	if l < 0.55 {
		l = 0.55
	}
	if s < 0.35 && s > 0 {
		s = 0.35
	}
	return lipgloss.Color(colorful.Hsl(h, s, l).Clamped().Hex())
}

// Gradient returns n colors blended from the accent toward the primary color.
func Gradient(c core.RGB, n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	from, _ := colorful.Hex(string(Accent(c)))
	to, _ := colorful.Hex(string(Primary))
	out := make([]lipgloss.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
	}
	return out
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int, fill lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(fill)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}
