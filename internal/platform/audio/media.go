package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/tessro/chorus/internal/platform"
)

// tapSize holds enough history for the largest analyser transform.
const tapSize = 32768

// timeUpdateInterval matches the slowest cadence browsers fire timeupdate at.
const timeUpdateInterval = 250 * time.Millisecond

// Media is one preview on the shared speaker.
type Media struct {
	engine *Engine
	url    string
	opts   platform.MediaOptions

	// load is single-flight; loadErr sticks.
	loadOnce sync.Once
	loadErr  error

	// Guarded by the speaker lock once queued.
	streamer beep.StreamSeekCloser
	format   beep.Format
	tap      *Tap
	ctrl     *beep.Ctrl

	// queued is true while the pipeline is on the speaker.
	queued atomic.Bool

	mu      sync.Mutex
	closed  bool
	ticker  chan struct{}
	onTime  func()
	onEnded func()
}

func newMedia(e *Engine, url string, opts platform.MediaOptions) *Media {
	return &Media{engine: e, url: url, opts: opts}
}

// Play loads the preview on first use, opens the speaker and resumes output.
func (m *Media) Play(ctx context.Context) error {
	if m.isClosed() {
		return fmt.Errorf("play: media closed")
	}
	if err := m.load(ctx); err != nil {
		return err
	}
	if err := m.engine.open(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("play: media closed")
	}

	speaker.Lock()
	m.ctrl.Paused = false
	speaker.Unlock()

	if !m.queued.Swap(true) {
		speaker.Play(beep.Seq(m.ctrl, beep.Callback(m.finished)))
	}
	m.startTicker()
	return nil
}

func (m *Media) load(ctx context.Context) error {
	m.loadOnce.Do(func() {
		data, err := m.engine.fetch(ctx, m.url)
		if err != nil {
			m.loadErr = err
			return
		}

		streamer, format, err := Decode(ctx, data)
		if err != nil {
			m.loadErr = fmt.Errorf("decode %s: %w", m.url, err)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			_ = streamer.Close()
			m.loadErr = fmt.Errorf("load: media closed")
			return
		}
		m.streamer = streamer
		m.format = format
		m.tap = NewTap(m.source(), tapSize)
		m.ctrl = &beep.Ctrl{Streamer: volume(m.tap, m.opts.Volume), Paused: true}
	})
	return m.loadErr
}

// source resamples the decoder to the speaker rate. A resampler that has
// reached the end stays exhausted after the decoder seeks, so a fresh one is
// built for every pass.
func (m *Media) source() beep.Streamer {
	if m.format.SampleRate == SampleRate {
		return m.streamer
	}
	return beep.Resample(4, m.format.SampleRate, SampleRate, m.streamer)
}

// volume applies a linear gain as beep's base-2 volume.
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain >= 1 {
		return s
	}
	v := &effects.Volume{Streamer: s, Base: 2}
	if gain <= 0 {
		v.Silent = true
	} else {
		v.Volume = math.Log2(gain)
	}
	return v
}

// finished runs on the speaker goroutine with the speaker locked, so the
// bookkeeping that needs m.mu happens elsewhere.
func (m *Media) finished() {
	m.queued.Store(false)
	go m.ended()
}

func (m *Media) ended() {
	m.mu.Lock()
	if !m.queued.Load() {
		m.stopTicker()
	}
	closed, fn := m.closed, m.onEnded
	m.mu.Unlock()

	if !closed && fn != nil {
		fn()
	}
}

func (m *Media) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	speaker.Lock()
	m.ctrl.Paused = true
	speaker.Unlock()
	m.stopTicker()
}

func (m *Media) SeekToStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streamer == nil {
		return
	}
	speaker.Lock()
	_ = m.streamer.Seek(0)
	m.tap.SetSource(m.source())
	speaker.Unlock()
	m.tap.Reset()
}

func (m *Media) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := m.streamer.Position()
	speaker.Unlock()
	return m.format.SampleRate.D(pos).Seconds()
}

// Duration is NaN until the preview has loaded.
func (m *Media) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streamer == nil {
		return math.NaN()
	}
	return m.format.SampleRate.D(m.streamer.Len()).Seconds()
}

func (m *Media) OnTimeUpdate(fn func()) {
	m.mu.Lock()
	m.onTime = fn
	m.mu.Unlock()
}

func (m *Media) OnEnded(fn func()) {
	m.mu.Lock()
	m.onEnded = fn
	m.mu.Unlock()
}

// Close stops output and releases the decoder. Safe to call twice.
func (m *Media) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.stopTicker()

	if m.ctrl != nil {
		speaker.Lock()
		m.ctrl.Paused = true
		m.ctrl.Streamer = nil
		speaker.Unlock()
	}
	if m.streamer != nil {
		return m.streamer.Close()
	}
	return nil
}

func (m *Media) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Tap exposes the analysis tap, nil before the preview has loaded.
func (m *Media) Tap() *Tap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tap
}

// startTicker fires time updates while playing. Caller holds m.mu.
func (m *Media) startTicker() {
	if m.ticker != nil {
		return
	}
	stop := make(chan struct{})
	m.ticker = stop
	go func() {
		t := time.NewTicker(timeUpdateInterval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				m.mu.Lock()
				fn := m.onTime
				m.mu.Unlock()
				if fn != nil {
					fn()
				}
			}
		}
	}()
}

// stopTicker ends time updates. Caller holds m.mu.
func (m *Media) stopTicker() {
	if m.ticker != nil {
		close(m.ticker)
		m.ticker = nil
	}
}

var _ platform.Media = (*Media)(nil)
