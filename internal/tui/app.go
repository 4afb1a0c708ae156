package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
	"github.com/tessro/chorus/internal/platform/host"
	"github.com/tessro/chorus/internal/search"
	"github.com/tessro/chorus/internal/session"
	"github.com/tessro/chorus/internal/studio"
)

// StudioConfig wires the playback screen.
type StudioConfig struct {
	FrameRate int
	// Services are the host capabilities. The notifier is supplied by the
	// screen.
	Services platform.Services
	// Images fetches covers for exported cards.
	Images  platform.ImageLoader
	Options studio.Options
}

// RunStudio plays track on an interactive screen until the user quits.
func RunStudio(ctx context.Context, track *core.Track, cfg StudioConfig) error {
	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}
	notifier := host.NotifierFunc(func(msg string) { send(noticeMsg(msg)) })

	svc := cfg.Services
	svc.Notifier = notifier
	if d, ok := svc.Downloader.(*host.Downloader); ok && d.Notifier == nil {
		d.Notifier = notifier
	}

	sess, err := session.New(ctx, track, session.Config{
		FrameRate: cfg.FrameRate,
		Services:  svc,
		Images:    cfg.Images,
		Options:   cfg.Options,
		OnChange: func(s studio.State, bins []byte) {
			send(studioStateMsg{state: s, bins: bins})
		},
	})
	if err != nil {
		return err
	}

	model := NewStudioModel(track, sess.State(), sess, cfg.FrameRate)
	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	sess.Start()
	_, err = p.Run()

	// The program has stopped reading, so change notifications no longer block.
	sess.Close()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// RunSearch shows the search screen and returns the chosen track, or nil
// when the user left without choosing. A non-empty query is searched at once.
func RunSearch(ctx context.Context, ctrl *search.Controller, query string) (*core.Track, error) {
	model := NewSearchModel(ctx, ctrl)
	if query != "" {
		model = model.WithQuery(query)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}

	if s, ok := final.(SearchModel); ok {
		return s.Chosen(), nil
	}
	return nil, nil
}
