// Package audio implements platform media and audio graphs on the beep
// speaker. Every Media shares one speaker; analysers tap the decoded
// stream ahead of the volume stage.
//
// Pipeline per media:
//
//	[Decode] -> [Resample] -> [Tap] -> [Volume] -> [Ctrl] -> [Speaker]
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/platform"
)

// SampleRate is the speaker output rate.
const SampleRate beep.SampleRate = 44100

// maxMediaBytes caps a downloaded preview.
const maxMediaBytes = 64 << 20

// Engine owns the speaker and creates media and audio graphs on it.
type Engine struct {
	client *http.Client
	log    zerolog.Logger

	mu        sync.Mutex
	ready     bool
	initSpeak func() error
}

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient sets the client used to fetch media.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an engine. The speaker opens on first playback.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    zerolog.Nop(),
		initSpeak: func() error {
			return speaker.Init(SampleRate, SampleRate.N(time.Second/10))
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewMedia returns media bound to url. Nothing is fetched until Play.
func (e *Engine) NewMedia(url string, opts platform.MediaOptions) (platform.Media, error) {
	if url == "" {
		return nil, fmt.Errorf("media: empty url")
	}
	return newMedia(e, url, opts), nil
}

// NewAudioGraph returns a graph that is suspended until the speaker opens.
func (e *Engine) NewAudioGraph() (platform.AudioGraph, error) {
	return &Graph{engine: e}, nil
}

// Ready reports whether the speaker is open.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// open initializes the speaker once.
func (e *Engine) open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := e.initSpeak(); err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}
	e.ready = true
	e.log.Debug().Int("sample_rate", int(SampleRate)).Msg("speaker open")
	return nil
}

// fetch downloads url into memory so the decoder can seek.
func (e *Engine) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch media: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	return data, nil
}

var (
	_ platform.MediaFactory      = (*Engine)(nil)
	_ platform.AudioGraphFactory = (*Engine)(nil)
)
