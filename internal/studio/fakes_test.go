package studio

import (
	"context"
	"errors"
	"image"
	"math"
	"time"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

// fakeScheduler queues everything so tests step the loop by hand.
type fakeScheduler struct {
	posts  []func()
	frames map[platform.FrameID]func()
	nextID platform.FrameID
	afters []time.Duration
	timers []func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{frames: make(map[platform.FrameID]func())}
}

func (s *fakeScheduler) Post(fn func()) { s.posts = append(s.posts, fn) }

func (s *fakeScheduler) RequestFrame(fn func()) platform.FrameID {
	s.nextID++
	s.frames[s.nextID] = fn
	return s.nextID
}

func (s *fakeScheduler) CancelFrame(id platform.FrameID) { delete(s.frames, id) }

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.afters = append(s.afters, d)
	s.timers = append(s.timers, fn)
}

// drain runs posted work until none is left.
func (s *fakeScheduler) drain() {
	for len(s.posts) > 0 {
		fn := s.posts[0]
		s.posts = s.posts[1:]
		fn()
	}
}

// tick runs one display refresh.
func (s *fakeScheduler) tick() {
	pending := s.frames
	s.frames = make(map[platform.FrameID]func())
	for _, fn := range pending {
		fn()
	}
	s.drain()
}

// fire runs all elapsed timers.
func (s *fakeScheduler) fire() {
	timers := s.timers
	s.timers = nil
	for _, fn := range timers {
		fn()
	}
	s.drain()
}

type fakeMedia struct {
	playErrs []error
	plays    int
	pauses   int
	seeks    int
	closes   int
	current  float64
	duration float64
	onTime   func()
	onEnded  func()
}

func (m *fakeMedia) Play(context.Context) error {
	m.plays++
	if len(m.playErrs) == 0 {
		return nil
	}
	err := m.playErrs[0]
	m.playErrs = m.playErrs[1:]
	return err
}

func (m *fakeMedia) Pause() { m.pauses++ }
func (m *fakeMedia) SeekToStart() { m.seeks++; m.current = 0 }
func (m *fakeMedia) CurrentTime() float64 { return m.current }
func (m *fakeMedia) Duration() float64 { return m.duration }
func (m *fakeMedia) OnTimeUpdate(fn func()) { m.onTime = fn }
func (m *fakeMedia) OnEnded(fn func()) { m.onEnded = fn }
func (m *fakeMedia) Close() error { m.closes++; return nil }

type fakeMediaFactory struct {
	media *fakeMedia
	err   error
	urls  []string
	opts  []platform.MediaOptions
}

func (f *fakeMediaFactory) NewMedia(url string, opts platform.MediaOptions) (platform.Media, error) {
	f.urls = append(f.urls, url)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.media, nil
}

type fakeAnalyser struct {
	bins []byte
}

func (a *fakeAnalyser) FrequencyBinCount() int { return len(a.bins) }

func (a *fakeAnalyser) ByteFrequencyData(dst []byte) { copy(dst, a.bins) }

type fakeGraph struct {
	state       platform.GraphState
	analyser    *fakeAnalyser
	analyserErr error
	fftSizes    []int
	resumes     int
	closes      int
}

func (g *fakeGraph) State() platform.GraphState { return g.state }

func (g *fakeGraph) Resume(context.Context) error {
	g.resumes++
	g.state = platform.GraphRunning
	return nil
}

func (g *fakeGraph) NewAnalyser(_ platform.Media, fftSize int) (platform.Analyser, error) {
	g.fftSizes = append(g.fftSizes, fftSize)
	if g.analyserErr != nil {
		return nil, g.analyserErr
	}
	return g.analyser, nil
}

func (g *fakeGraph) Close() error { g.closes++; return nil }

type fakeAudio struct {
	graph   *fakeGraph
	err     error
	created int
}

func (f *fakeAudio) NewAudioGraph() (platform.AudioGraph, error) {
	f.created++
	if f.err != nil {
		return nil, f.err
	}
	return f.graph, nil
}

type fakeImages struct {
	img  image.Image
	err  error
	urls []string
}

func (f *fakeImages) LoadImage(_ context.Context, url string) (image.Image, error) {
	f.urls = append(f.urls, url)
	return f.img, f.err
}

type fakeRasterizer struct {
	targets map[string]bool
	uri     string
	err     error
	calls   []platform.RasterOptions
}

func (r *fakeRasterizer) Has(id string) bool { return r.targets[id] }

func (r *fakeRasterizer) Rasterize(_ context.Context, _ string, opts platform.RasterOptions) (string, error) {
	r.calls = append(r.calls, opts)
	return r.uri, r.err
}

type fakeSharer struct {
	can    bool
	err    error
	shared []platform.ShareData
}

func (s *fakeSharer) CanShare(platform.ShareData) bool { return s.can }

func (s *fakeSharer) Share(_ context.Context, data platform.ShareData) error {
	s.shared = append(s.shared, data)
	return s.err
}

type fakeClipboard struct {
	texts []string
	err   error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.texts = append(c.texts, text)
	return c.err
}

type fakeNotifier struct{ msgs []string }

func (n *fakeNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

type fakeHaptics struct{ pulses int }

func (h *fakeHaptics) Vibrate(time.Duration) error {
	h.pulses++
	return errors.New("no vibration motor")
}

type fakeViewer struct{ opened []string }

func (v *fakeViewer) Open(uri string) error {
	v.opened = append(v.opened, uri)
	return nil
}

type fakeDownloader struct {
	names []string
	uris  []string
	err   error
}

func (d *fakeDownloader) Download(name, uri string) error {
	d.names = append(d.names, name)
	d.uris = append(d.uris, uri)
	return d.err
}

type fakeEnv struct {
	mobile bool
	ratio  float64
	loc    string
}

func (e fakeEnv) IsMobile() bool { return e.mobile }
func (e fakeEnv) PixelRatio() float64 { return e.ratio }
func (e fakeEnv) Location() string { return e.loc }

// harness wires a controller to a full set of fakes.
type harness struct {
	sched      *fakeScheduler
	media      *fakeMedia
	mediaF     *fakeMediaFactory
	graph      *fakeGraph
	audio      *fakeAudio
	images     *fakeImages
	rasterizer *fakeRasterizer
	sharer     *fakeSharer
	clipboard  *fakeClipboard
	notifier   *fakeNotifier
	haptics    *fakeHaptics
	viewer     *fakeViewer
	downloader *fakeDownloader
	env        fakeEnv

	changes int
}

func newHarness() *harness {
	bins := make([]byte, 128)
	for i := range bins {
		bins[i] = 255
	}
	media := &fakeMedia{duration: math.NaN()}
	graph := &fakeGraph{analyser: &fakeAnalyser{bins: bins}}
	return &harness{
		sched:      newFakeScheduler(),
		media:      media,
		mediaF:     &fakeMediaFactory{media: media},
		graph:      graph,
		audio:      &fakeAudio{graph: graph},
		images:     &fakeImages{err: platform.ErrTainted},
		rasterizer: &fakeRasterizer{targets: map[string]bool{"card": true}, uri: "data:image/png;base64,AAAA"},
		sharer:     &fakeSharer{},
		clipboard:  &fakeClipboard{},
		notifier:   &fakeNotifier{},
		haptics:    &fakeHaptics{},
		viewer:     &fakeViewer{},
		downloader: &fakeDownloader{},
		env:        fakeEnv{ratio: 3, loc: "http://localhost:8080/track/42"},
	}
}

func (h *harness) services() platform.Services {
	svc := platform.Services{
		Scheduler:  h.sched,
		Media:      h.mediaF,
		Images:     h.images,
		Rasterizer: h.rasterizer,
		Sharer:     h.sharer,
		Clipboard:  h.clipboard,
		Notifier:   h.notifier,
		Haptics:    h.haptics,
		Viewer:     h.viewer,
		Downloader: h.downloader,
		Env:        h.env,
	}
	if h.audio != nil {
		svc.Audio = h.audio
	}
	return svc
}

func (h *harness) controller(track *core.Track, opts Options) *Controller {
	opts.OnChange = func(State) { h.changes++ }
	c := New(track, h.services(), opts)
	c.spawn = func(fn func()) { fn() }
	return c
}

func testTrack() *core.Track {
	return &core.Track{
		ID:       42,
		Title:    "Hype Boy",
		Artist:   "NewJeans",
		Album:    "New Jeans",
		CoverURL: "https://example.com/cover.jpg",
		AudioURL: "https://example.com/preview.m4a",
	}
}
