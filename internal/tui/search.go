package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/search"
	"github.com/tessro/chorus/internal/tui/components"
	"github.com/tessro/chorus/internal/tui/styles"
)

const visibleResults = 12

type searchDoneMsg struct{}

// SearchModel is the search screen
type SearchModel struct {
	ctx  context.Context
	ctrl *search.Controller

	keys    searchKeys
	help    help.Model
	input   textinput.Model
	spinner spinner.Model
	results *components.Results

	state  search.State
	chosen *core.Track
	// pending runs with Init.
	pending []tea.Cmd

	width    int
	height   int
	quitting bool
}

// NewSearchModel creates the search screen over ctrl.
func NewSearchModel(ctx context.Context, ctrl *search.Controller) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search for a song or artist..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Highlight

	return SearchModel{
		ctx:     ctx,
		ctrl:    ctrl,
		keys:    newSearchKeys(),
		help:    help.New(),
		input:   ti,
		spinner: sp,
		results: components.NewResults(),
		state:   ctrl.State(),
	}
}

// WithQuery fills in query and searches for it as soon as the screen starts.
func (m SearchModel) WithQuery(query string) SearchModel {
	m.input.SetValue(query)
	m.ctrl.SetQuery(query)
	m.state.Loading = true
	m.state.ResultMode = true
	m.pending = append(m.pending, m.doSearch(), m.spinner.Tick)
	return m
}

// Chosen returns the track picked before the screen closed, if any.
func (m SearchModel) Chosen() *core.Track {
	return m.chosen
}

func (m SearchModel) doSearch() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Search(ctx)
		return searchDoneMsg{}
	}
}

// Init starts the cursor blinking
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(append([]tea.Cmd{textinput.Blink}, m.pending...)...)
}

// Update handles messages
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case searchDoneMsg:
		m.state = m.ctrl.State()
		m.results.Reset()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SearchModel) rows() int {
	n := len(m.state.Results)
	if m.state.HasMore && m.state.ResultMode && !m.state.Loading {
		n++
	}
	return n
}

func (m SearchModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		if !m.state.ResultMode && m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.ctrl.Clear()
		m.input.SetValue("")
		m.input.Focus()
		m.state = m.ctrl.State()
		m.results.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.input.Focused() && m.rows() > 0 {
			m.input.Blur()
			m.results.Reset()
			return m, nil
		}
		m.results.Down(m.rows())
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if !m.input.Focused() {
			if m.results.Selected() == 0 {
				m.results.Reset()
				cmd := m.input.Focus()
				return m, cmd
			}
			m.results.Up()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.input.Focused() {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.ctrl.SetQuery(query)
			m.state.Loading = true
			m.state.ResultMode = true
			m.state.Results = nil
			return m, tea.Batch(m.doSearch(), m.spinner.Tick)
		}
		return m.choose()
	}

	if !m.input.Focused() {
		// Typing jumps back into the query
		m.results.Reset()
		cmd := m.input.Focus()
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		return m, tea.Batch(cmd, inputCmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SearchModel) choose() (tea.Model, tea.Cmd) {
	i := m.results.Selected()
	if i < len(m.state.Results) {
		t := m.state.Results[i]
		m.chosen = &t
		m.quitting = true
		return m, tea.Quit
	}
	if i == len(m.state.Results) && m.state.HasMore {
		m.ctrl.LoadMore()
		m.state = m.ctrl.State()
	}
	return m, nil
}

// View renders the UI
func (m SearchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Highlight.Render("CHORUS"))
	b.WriteString(styles.Dim.Render("  find a song to share"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + styles.Muted.Render(" Searching..."))
	case !m.state.ResultMode:
		b.WriteString(styles.Dim.Render("Type a title or artist and press enter"))
	case len(m.state.Results) == 0:
		b.WriteString(styles.Muted.Render("No results found"))
	default:
		b.WriteString(styles.Dim.Render(fmt.Sprintf("Showing %d of %s results",
			len(m.state.Results), humanize.Comma(int64(m.state.Total)))))
		b.WriteString("\n")
		cursorless := m.input.Focused()
		list := m.results.Render(m.state.Results, m.state.HasMore, 56, visibleResults)
		if cursorless {
			list = styles.Dim.Render(list)
		}
		b.WriteString(list)
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	if m.width == 0 {
		return styles.FocusedBorder.Render(content)
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}
