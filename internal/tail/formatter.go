package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl *template.Template) FormatterOption {
	return func(f *Formatter) {
		f.template = tmpl
	}
}

// ParseTemplate compiles a custom format. Fields are those of TemplateData.
func ParseTemplate(text string) (*template.Template, error) {
	return template.New("format").Parse(text)
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine renders "[time] [emoji] description".
func (f *Formatter) formatLine(e Event) string {
	parts := make([]string, 0, 3)
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	return strings.Join(append(parts, eventDescription(e)), " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, NewTemplateData(e)); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// NewTemplateData flattens e for a format template.
func NewTemplateData(e Event) TemplateData {
	d := TemplateData{
		Type:      EventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Position:  e.Current.CurrentTime,
		Duration:  e.Current.Duration,
		Progress:  e.Current.Progress,
		Color:     e.Current.DominantColor.Hex(),
		Message:   e.Current.CustomMessage,
	}
	if t := e.Track; t != nil {
		d.ID, d.Title, d.Artist, d.Album = t.ID, t.Title, t.Artist, t.Album
	}
	return d
}

// TemplateData is what a custom format template sees. It doubles as the
// JSON form of an event.
type TemplateData struct {
	Type      string    `json:"type"`
	Emoji     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"-"`
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album,omitempty"`
	Position  string    `json:"position"`
	Duration  string    `json:"duration"`
	Progress  float64   `json:"progress"`
	Color     string    `json:"color"`
	Message   string    `json:"message,omitempty"`
}

// eventDescription returns a human-readable description of the event.
func eventDescription(e Event) string {
	title, artist := "", ""
	if e.Track != nil {
		title, artist = e.Track.Title, e.Track.Artist
	}

	switch e.Type {
	case EventStart:
		return fmt.Sprintf("Now playing: %s - %s", artist, title)
	case EventComplete:
		return fmt.Sprintf("Finished: %s - %s", artist, title)
	case EventPause:
		return fmt.Sprintf("Paused at %s", e.Previous.CurrentTime)
	case EventResume:
		return "Playing from the top"
	case EventColor:
		return fmt.Sprintf("Cover color: %s", e.Current.DominantColor.Hex())
	case EventSaved:
		return "Export finished"
	case EventMessage:
		if e.Current.CustomMessage == "" {
			return "Message cleared"
		}
		return fmt.Sprintf("Message: %q", e.Current.CustomMessage)
	case EventNoAudio:
		return "No playable preview"
	case EventNoVisualizer:
		return "Visualizer unavailable"
	default:
		return "Unknown event"
	}
}

// eventMeta is the machine name and emoji of an event type.
var eventMeta = map[EventType]struct{ name, emoji string }{
	EventStart:        {"start", "🎵"},
	EventComplete:     {"complete", "✅"},
	EventPause:        {"pause", "⏸️"},
	EventResume:       {"resume", "▶️"},
	EventColor:        {"color", "🎨"},
	EventSaved:        {"saved", "💾"},
	EventMessage:      {"message", "💬"},
	EventNoAudio:      {"no_audio", "⚠️"},
	EventNoVisualizer: {"no_visualizer", "⚠️"},
}

// EventTypeName returns the machine name of an event type.
func EventTypeName(t EventType) string {
	if m, ok := eventMeta[t]; ok {
		return m.name
	}
	return "unknown"
}

func eventEmoji(t EventType) string {
	if m, ok := eventMeta[t]; ok {
		return m.emoji
	}
	return "❓"
}
