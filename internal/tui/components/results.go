package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/tui/styles"
)

// Results displays search results with a cursor
type Results struct {
	offset   int
	selected int
}

// NewResults creates a new Results component
func NewResults() *Results {
	return &Results{}
}

// Down moves the cursor down, stopping at the last of n rows
func (r *Results) Down(n int) {
	if r.selected < n-1 {
		r.selected++
	}
}

// Up moves the cursor up
func (r *Results) Up() {
	if r.selected > 0 {
		r.selected--
	}
}

// Reset moves the cursor to the top
func (r *Results) Reset() {
	r.offset = 0
	r.selected = 0
}

// Selected returns the selected index
func (r *Results) Selected() int {
	return r.selected
}

// Render renders the result rows. A trailing "load more" row is shown when
// hasMore is set; its index is len(tracks).
func (r *Results) Render(tracks []core.Track, hasMore bool, width, maxLines int) string {
	rows := len(tracks)
	if hasMore {
		rows++
	}
	if rows == 0 {
		return ""
	}
	if r.selected >= rows {
		r.selected = rows - 1
	}

	if maxLines < 1 {
		maxLines = 1
	}
	// Keep the cursor on screen
	if r.selected < r.offset {
		r.offset = r.selected
	}
	if r.selected >= r.offset+maxLines {
		r.offset = r.selected - maxLines + 1
	}

	end := r.offset + maxLines
	if end > rows {
		end = rows
	}

	// Fixed overhead: "> " (2) + "XX. " (4) + " — " (3) = 9 chars
	const overhead = 9

	lines := make([]string, 0, end-r.offset)
	for i := r.offset; i < end; i++ {
		var line string
		if i == len(tracks) {
			line = styles.Highlight.Render("      Load more")
		} else {
			t := tracks[i]
			available := width - overhead
			artistSpace := available / 3
			if artistSpace < 10 {
				artistSpace = 10
			}
			if len(t.Artist) < artistSpace {
				artistSpace = len(t.Artist)
			}
			title := truncate(t.Title, available-artistSpace)
			artist := truncate(t.Artist, artistSpace)
			line = fmt.Sprintf("%s %s — %s",
				styles.Dim.Render(fmt.Sprintf("%2d.", i+1)),
				title,
				styles.Muted.Render(artist))
		}

		if i == r.selected {
			line = styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
