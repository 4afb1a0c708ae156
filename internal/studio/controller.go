// Package studio drives the playback screen: it owns the audio resource and
// its analyser, samples bass energy once per display refresh and exposes
// spring targets, progress and export state to the rendering layer.
//
// A Controller is single-threaded. Every method must be called on the
// goroutine behind the platform Scheduler; blocking host calls run on
// their own goroutines and re-enter through Scheduler.Post.
package studio

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

const (
	// placeholderDuration stands in for previews whose length is unknown.
	placeholderDuration = 30

	activeRotation = 2
	restRotation   = 0
	restScale      = 1

	hapticPulse = 10 * time.Millisecond
)

// Options tunes a Controller. Zero values take the defaults noted per field.
type Options struct {
	// Volume is the linear output gain, default 0.5.
	Volume float64
	// FFTSize is the analyser transform size, default 256.
	FFTSize int
	// PixelRatio for captures; 0 uses the device ratio, falling back to 2.
	PixelRatio float64
	// SettleDelay lets pending visual updates paint before a capture, default 100ms.
	SettleDelay time.Duration
	// ExportPrefix starts exported file names, default "chorus".
	ExportPrefix string
	// ShareTitle is the share sheet title, default "CHORUS".
	ShareTitle string
	// DefaultMessage is shared when no custom message is set.
	DefaultMessage string
	// Message seeds the custom share message.
	Message string
	Logger  zerolog.Logger
	// OnChange receives a snapshot after every state change, on the
	// scheduler goroutine.
	OnChange func(State)
}

func (o *Options) applyDefaults() {
	if o.Volume <= 0 || o.Volume > 1 {
		o.Volume = 0.5
	}
	if o.FFTSize <= 0 {
		o.FFTSize = 256
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 100 * time.Millisecond
	}
	if o.ExportPrefix == "" {
		o.ExportPrefix = "chorus"
	}
	if o.ShareTitle == "" {
		o.ShareTitle = "CHORUS"
	}
	if o.DefaultMessage == "" {
		o.DefaultMessage = DefaultShareMessage
	}
}

// Controller is the playback and audio-visual controller for one track.
type Controller struct {
	track *core.Track
	svc   platform.Services
	sched platform.Scheduler
	opts  Options
	log   zerolog.Logger

	state State

	ctx    context.Context
	cancel context.CancelFunc

	media      platform.Media
	graph      platform.AudioGraph
	analyser   platform.Analyser
	bins       []byte
	graphTried bool

	frame        platform.FrameID
	framePending bool

	// playSeq stamps play requests; stale results are dropped.
	playSeq     uint64
	playPending bool

	spawn func(func())
}

// New returns an idle controller for track. svc.Scheduler must be set.
func New(track *core.Track, svc platform.Services, opts Options) *Controller {
	opts.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		track:  track,
		svc:    svc,
		sched:  svc.Scheduler,
		opts:   opts,
		log:    opts.Logger.With().Str("component", "studio").Int64("track_id", track.ID).Logger(),
		state:  initialState(track),
		ctx:    ctx,
		cancel: cancel,
		spawn:  func(fn func()) { go fn() },
	}
	c.state.CustomMessage = opts.Message
	return c
}

// Track returns the track under control.
func (c *Controller) Track() *core.Track {
	return c.track
}

// State returns a snapshot of the observable state.
func (c *Controller) State() State {
	return c.state
}

// Init samples the cover color, binds the audio resource and attempts
// autoplay. Calls after the first are ignored.
func (c *Controller) Init() {
	if c.state.Phase != PhaseIdle {
		return
	}
	c.state.Phase = PhaseReady

	if c.track.CoverURL != "" {
		c.sampleColor(c.track.CoverURL)
	}

	if c.load() {
		c.requestPlay()
	} else {
		c.state.Phase = PhasePaused
	}
	c.changed()
}

// load builds the media resource. It reports whether playback is possible.
func (c *Controller) load() bool {
	if !c.track.HasAudio() || c.svc.Media == nil {
		return false
	}

	m, err := c.svc.Media.NewMedia(c.track.AudioURL, platform.MediaOptions{
		CrossOrigin: "anonymous",
		Volume:      c.opts.Volume,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("audio unavailable")
		c.state.HasAudio = false
		return false
	}

	m.OnTimeUpdate(func() { c.sched.Post(c.timeUpdated) })
	m.OnEnded(func() { c.sched.Post(c.ended) })
	c.media = m
	return true
}

// Toggle pauses when playing and restarts from the top when paused.
// While a play request is unresolved it only gives haptic feedback.
func (c *Controller) Toggle() {
	c.haptic()
	if c.media == nil || c.state.Phase == PhaseDisposed || c.playPending {
		return
	}

	if c.state.IsPlaying {
		c.media.Pause()
		c.stop()
		c.changed()
		return
	}

	c.ensureAnalyser()
	c.media.SeekToStart()
	c.requestPlay()
}

// requestPlay asks the host to start playback and applies the outcome
// once it resolves.
func (c *Controller) requestPlay() {
	c.playSeq++
	seq := c.playSeq
	c.playPending = true

	m, ctx := c.media, c.ctx
	c.spawn(func() {
		err := m.Play(ctx)
		c.sched.Post(func() { c.playResolved(seq, err) })
	})
}

func (c *Controller) playResolved(seq uint64, err error) {
	if seq != c.playSeq || c.state.Phase == PhaseDisposed {
		return
	}
	c.playPending = false

	if err != nil {
		c.log.Debug().Err(err).Msg("playback rejected")
		c.state.IsPlaying = false
		c.state.Phase = PhasePaused
		c.changed()
		return
	}

	c.state.IsPlaying = true
	c.state.Phase = PhasePlaying
	c.state.RotationTarget = activeRotation
	c.ensureAnalyser()
	c.startSampling()
	c.changed()
}

func (c *Controller) timeUpdated() {
	if c.media == nil {
		return
	}

	current := c.media.CurrentTime()
	duration := c.media.Duration()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		duration = placeholderDuration
	}

	c.state.Progress = clamp(current/duration*100, 0, 100)
	c.state.CurrentTime = core.FormatTime(current)
	c.state.Duration = core.FormatTime(duration)
	c.changed()
}

func (c *Controller) ended() {
	if c.media == nil || c.state.Phase == PhaseDisposed {
		return
	}
	c.stop()
	c.changed()
}

// stop is the shared pause and end-of-media transition: everything returns
// to rest and the position rewinds.
func (c *Controller) stop() {
	c.state.IsPlaying = false
	c.state.Phase = PhasePaused
	c.state.RotationTarget = restRotation
	c.state.ScaleTarget = restScale
	c.state.BassPower = 0
	c.state.Progress = 0
	c.state.CurrentTime = core.FormatTime(0)
	if c.media != nil {
		c.media.SeekToStart()
	}
	c.cancelFrame()
}

// Cleanup releases every resource. It is safe to call at any point and
// more than once.
func (c *Controller) Cleanup() {
	if c.state.Phase == PhaseDisposed {
		return
	}
	c.state.Phase = PhaseDisposed
	c.playSeq++
	c.playPending = false
	c.cancelFrame()
	c.cancel()

	if c.media != nil {
		c.media.Pause()
		if err := c.media.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close media")
		}
		c.media = nil
	}
	if c.graph != nil {
		if err := c.graph.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close audio graph")
		}
		c.graph = nil
	}
	c.analyser = nil
	c.bins = nil

	c.state.IsPlaying = false
	c.state.BassPower = 0
	c.state.RotationTarget = restRotation
	c.state.ScaleTarget = restScale
	c.changed()
}

// SetCustomMessage replaces the message attached to shares.
func (c *Controller) SetCustomMessage(msg string) {
	c.state.CustomMessage = msg
	c.changed()
}

func (c *Controller) haptic() {
	if c.svc.Haptics == nil {
		return
	}
	if err := c.svc.Haptics.Vibrate(hapticPulse); err != nil {
		c.log.Debug().Err(err).Msg("haptic feedback")
	}
}

func (c *Controller) notify(msg string) {
	if c.svc.Notifier != nil {
		c.svc.Notifier.Notify(msg)
	}
}

func (c *Controller) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.state)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
