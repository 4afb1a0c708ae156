package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/motion"
	"github.com/tessro/chorus/internal/studio"
	"github.com/tessro/chorus/internal/tui/components"
	"github.com/tessro/chorus/internal/tui/styles"
)

const noticeTTL = 3 * time.Second

// StudioActions are the controller operations bound to keys. Implementations
// must not block the caller.
type StudioActions interface {
	Toggle()
	Share()
	Save()
	SetMessage(msg string)
}

// Messages
type frameMsg time.Time

type studioStateMsg struct {
	state studio.State
	bins  []byte
}

type noticeMsg string

type noticeExpiredMsg int

// StudioModel is the playback screen
type StudioModel struct {
	track   *core.Track
	actions StudioActions
	fps     int

	keys   studioKeys
	help   help.Model
	player *components.Player
	motion *motion.Motion

	state studio.State
	bins  []byte

	message textinput.Model
	editing bool

	notice   string
	noticeID int

	width    int
	quitting bool
}

// NewStudioModel creates the playback screen for track, starting from state.
func NewStudioModel(track *core.Track, state studio.State, actions StudioActions, fps int) StudioModel {
	if fps <= 0 {
		fps = 60
	}

	ti := textinput.New()
	ti.Placeholder = studio.DefaultShareMessage
	ti.CharLimit = 140
	ti.Width = 48

	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = styles.Dim
	h.Styles.ShortDesc = styles.Dim
	h.Styles.FullKey = styles.Dim
	h.Styles.FullDesc = styles.Dim

	return StudioModel{
		track:   track,
		actions: actions,
		fps:     fps,
		keys:    newStudioKeys(),
		help:    h,
		player:  components.NewPlayer(),
		motion:  motion.New(fps),
		state:   state,
		message: ti,
		width:   72,
	}
}

func (m StudioModel) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init starts the animation clock
func (m StudioModel) Init() tea.Cmd {
	return m.frame()
}

// Update handles messages
func (m StudioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleMessageKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.motion.Step(m.state.RotationTarget, m.state.ScaleTarget)
		return m, m.frame()

	case studioStateMsg:
		m.state = msg.state
		m.bins = msg.bins
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		m.noticeID++
		id := m.noticeID
		return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
			return noticeExpiredMsg(id)
		})

	case noticeExpiredMsg:
		if int(msg) == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.message, cmd = m.message.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m StudioModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		if m.state.HasAudio {
			m.actions.Toggle()
		}
	case key.Matches(msg, m.keys.Share):
		m.actions.Share()
	case key.Matches(msg, m.keys.Save):
		m.actions.Save()
	case key.Matches(msg, m.keys.Message):
		m.editing = true
		m.message.SetValue(m.state.CustomMessage)
		m.message.CursorEnd()
		cmd := m.message.Focus()
		return m, cmd
	}
	return m, nil
}

func (m StudioModel) handleMessageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		m.editing = false
		m.message.Blur()
		text := strings.TrimSpace(m.message.Value())
		m.state.CustomMessage = text
		m.actions.SetMessage(text)
		return m, nil
	case "esc":
		m.editing = false
		m.message.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.message, cmd = m.message.Update(msg)
	return m, cmd
}

// View renders the UI
func (m StudioModel) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width > 72 {
		width = 72
	}

	panel := m.player.Render(components.PlayerState{
		Track: m.track,
		State: m.state,
		Bins:  m.bins,
		Angle: m.motion.Angle(),
		Scale: m.motion.Scale.Value(),
	}, width, true)

	return lipgloss.JoinVertical(lipgloss.Left,
		panel,
		m.renderMessage(),
		m.renderStatusBar(),
	)
}

func (m StudioModel) renderMessage() string {
	if m.editing {
		return " " + styles.Highlight.Render("Message: ") + m.message.View()
	}
	msg := m.state.CustomMessage
	if msg == "" {
		return " " + styles.Dim.Render("\""+studio.DefaultShareMessage+"\"")
	}
	return " " + styles.Muted.Render("\""+msg+"\"")
}

func (m StudioModel) renderStatusBar() string {
	var status string
	switch {
	case m.state.IsSaving:
		status = styles.Notice.Render("Saving...")
	case m.notice != "":
		status = styles.Notice.Render(m.notice)
	case m.editing:
		status = styles.Dim.Render("enter:save  esc:cancel")
	default:
		status = m.help.View(m.keys)
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(status)
}
