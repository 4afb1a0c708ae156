// Package platform defines the host capabilities the studio depends on:
// media playback, audio analysis, image loading, capture and the small
// share/notify/haptics conveniences. Implementations live in the audio and
// host subpackages; tests supply fakes.
package platform

import (
	"context"
	"errors"
	"image"
	"time"
)

// FrameID identifies a pending display-refresh callback.
type FrameID uint64

// Scheduler runs work on the single UI goroutine. Post may be called from any
// goroutine; the remaining methods are only called from the UI goroutine.
type Scheduler interface {
	// Post queues fn to run on the UI goroutine.
	Post(fn func())
	// RequestFrame runs fn once on the next display refresh.
	RequestFrame(fn func()) FrameID
	// CancelFrame drops a pending frame callback. Unknown ids are ignored.
	CancelFrame(id FrameID)
	// After runs fn on the UI goroutine once d has elapsed.
	After(d time.Duration, fn func())
}

// MediaOptions configures a new media resource.
type MediaOptions struct {
	// CrossOrigin is the credentials mode for fetching the source ("anonymous").
	CrossOrigin string
	// Volume is the linear output gain in [0,1].
	Volume float64
}

// Media is one playable audio resource.
type Media interface {
	// Play starts playback. It blocks until the host accepts or rejects the request.
	Play(ctx context.Context) error
	Pause()
	SeekToStart()
	// CurrentTime is the playback position in seconds.
	CurrentTime() float64
	// Duration is the total length in seconds, NaN while unknown.
	Duration() float64
	// OnTimeUpdate registers a callback fired periodically while playing.
	// Callbacks may arrive on any goroutine.
	OnTimeUpdate(fn func())
	// OnEnded registers a callback fired when playback reaches the end.
	OnEnded(fn func())
	Close() error
}

// MediaFactory constructs media resources.
type MediaFactory interface {
	NewMedia(url string, opts MediaOptions) (Media, error)
}

// GraphState is the run state of an audio graph.
type GraphState int

const (
	GraphRunning GraphState = iota
	GraphSuspended
	GraphClosed
)

func (s GraphState) String() string {
	switch s {
	case GraphRunning:
		return "running"
	case GraphSuspended:
		return "suspended"
	case GraphClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Analyser exposes byte-resolution frequency snapshots.
type Analyser interface {
	FrequencyBinCount() int
	// ByteFrequencyData fills dst with the latest spectrum, one byte per bin.
	ByteFrequencyData(dst []byte)
}

// AudioGraph routes a media resource through an analyser to the output.
type AudioGraph interface {
	State() GraphState
	Resume(ctx context.Context) error
	// NewAnalyser taps m with a transform of fftSize points.
	NewAnalyser(m Media, fftSize int) (Analyser, error)
	Close() error
}

// AudioGraphFactory constructs audio graphs.
type AudioGraphFactory interface {
	NewAudioGraph() (AudioGraph, error)
}

// ImageLoader fetches and decodes remote images without credentials.
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) (image.Image, error)
}

// ErrTainted reports that image pixels may not be read back.
var ErrTainted = errors.New("image is cross-origin tainted")

// RasterOptions configures a capture.
type RasterOptions struct {
	PixelRatio float64
	CacheBust  bool
}

// Rasterizer renders a named on-screen element to an image.
type Rasterizer interface {
	Has(targetID string) bool
	// Rasterize returns the capture as a data URI.
	Rasterize(ctx context.Context, targetID string, opts RasterOptions) (string, error)
}

// ContextOptions are the drawing-context flags requested from a Surface.
type ContextOptions struct {
	PreserveDrawingBuffer bool
	Alpha                 bool
	Antialias             bool
}

// DrawContext is an opaque drawing context handed to the rendering layer.
type DrawContext interface {
	Options() ContextOptions
}

// Surface is a rendering target that can produce a drawing context.
type Surface interface {
	NewContext(opts ContextOptions) (DrawContext, error)
}

// ShareData is the payload passed to a native share facility.
type ShareData struct {
	Title string
	Text  string
	URL   string
}

// Sharer is a native share facility.
type Sharer interface {
	CanShare(data ShareData) bool
	Share(ctx context.Context, data ShareData) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Notifier shows a short user-visible notice.
type Notifier interface {
	Notify(msg string)
}

// Haptics produces tactile feedback where the host supports it.
type Haptics interface {
	Vibrate(d time.Duration) error
}

// Viewer opens a resource in a new viewing context.
type Viewer interface {
	Open(uri string) error
}

// Downloader saves a data URI under a file name.
type Downloader interface {
	Download(name, dataURI string) error
}

// Environment describes the client the studio runs on.
type Environment interface {
	// IsMobile reports a touch/mobile-class client.
	IsMobile() bool
	// PixelRatio is the device pixel density.
	PixelRatio() float64
	// Location is the shareable address of the current screen.
	Location() string
}

// Services bundles the host capabilities. Scheduler is required; any other
// nil field disables the feature that depends on it.
type Services struct {
	Scheduler  Scheduler
	Media      MediaFactory
	Audio      AudioGraphFactory
	Images     ImageLoader
	Rasterizer Rasterizer
	Sharer     Sharer
	Clipboard  Clipboard
	Notifier   Notifier
	Haptics    Haptics
	Viewer     Viewer
	Downloader Downloader
	Env        Environment
}
