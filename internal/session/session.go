// Package session runs one studio controller on its own loop together with
// the offscreen canvas and share card it exports.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/loop"
	"github.com/tessro/chorus/internal/platform"
	"github.com/tessro/chorus/internal/platform/host"
	"github.com/tessro/chorus/internal/studio"
)

// CardID names the share card a session exports.
const CardID = "share-card"

// VisualHeight is the logical height of the visualizer strip on a card.
const VisualHeight = 160

// Config wires a session.
type Config struct {
	FrameRate int
	// Services are the host capabilities. Scheduler and Rasterizer are
	// supplied by the session.
	Services platform.Services
	// Images fetches covers for exported cards.
	Images  platform.ImageLoader
	Options studio.Options
	// OnChange receives every state change with the matching spectrum, on
	// the loop goroutine. It must not block for long.
	OnChange func(studio.State, []byte)
}

// Session owns the loop goroutine and everything that runs on it.
type Session struct {
	track      *core.Track
	loop       *loop.Loop
	cancel     context.CancelFunc
	ctrl       *studio.Controller
	canvas     *host.Canvas
	rasterizer *host.CardRasterizer
	draw       *host.CanvasContext
	closed     bool
}

// New starts the loop and builds the controller. Call Start to begin
// playback and Close when done.
func New(ctx context.Context, track *core.Track, cfg Config) (*Session, error) {
	if track == nil {
		return nil, errors.New("no track to play")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		track:      track,
		loop:       loop.New(cfg.FrameRate),
		cancel:     cancel,
		canvas:     host.NewCanvas(host.CardWidth, VisualHeight),
		rasterizer: host.NewCardRasterizer(cfg.Images),
	}

	svc := cfg.Services
	svc.Scheduler = s.loop
	svc.Rasterizer = s.rasterizer

	opts := cfg.Options
	onChange := cfg.OnChange
	opts.OnChange = func(st studio.State) {
		bins := s.ctrl.Spectrum()
		if s.draw != nil {
			s.draw.DrawSpectrum(bins, st.DominantColor, st.ScaleTarget)
		}
		if onChange != nil {
			onChange(st, bins)
		}
	}
	s.ctrl = studio.New(track, svc, opts)

	dc, err := s.ctrl.CreateRenderer(s.canvas)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	s.draw, _ = dc.(*host.CanvasContext)

	s.rasterizer.Register(CardID, s.card)
	go func() { _ = s.loop.Run(loopCtx) }()
	return s, nil
}

// card snapshots the share card. It runs on the rasterizing goroutine.
func (s *Session) card() host.Card {
	c := host.Card{CoverURL: s.track.CoverURL, Color: core.NeutralGray}
	s.loop.Call(func() { c.Color = s.ctrl.State().DominantColor })
	c.Visual = s.canvas.Snapshot()
	return c
}

// Controller returns the controller. Only touch it from Do callbacks.
func (s *Session) Controller() *studio.Controller {
	return s.ctrl
}

// State returns the initial state before Start, and a loop-synchronized
// snapshot afterwards.
func (s *Session) State() studio.State {
	var st studio.State
	if !s.loop.Call(func() { st = s.ctrl.State() }) {
		return s.ctrl.State()
	}
	return st
}

// Start initializes the controller: cover sampling and autoplay.
func (s *Session) Start() {
	s.loop.Post(s.ctrl.Init)
}

// Do runs fn on the loop goroutine without waiting.
func (s *Session) Do(fn func(c *studio.Controller)) {
	s.loop.Post(func() { fn(s.ctrl) })
}

// Toggle pauses or replays.
func (s *Session) Toggle() { s.loop.Post(s.ctrl.Toggle) }

// Share shares the track.
func (s *Session) Share() { s.loop.Post(s.ctrl.HandleShare) }

// Save exports the share card.
func (s *Session) Save() {
	s.loop.Post(func() { s.ctrl.DownloadImage(CardID) })
}

// SetMessage replaces the share message.
func (s *Session) SetMessage(msg string) {
	s.loop.Post(func() { s.ctrl.SetCustomMessage(msg) })
}

// Close releases the controller and stops the loop. OnChange must not be
// blocked when Close is called.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if !s.loop.Call(s.ctrl.Cleanup) {
		<-s.loop.Done()
		s.ctrl.Cleanup()
	}
	s.cancel()
	<-s.loop.Done()
	s.rasterizer.Unregister(CardID)
}
