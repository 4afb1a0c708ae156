package audio

import (
	"context"
	"errors"
	"sync"

	"github.com/tessro/chorus/internal/platform"
)

var (
	// ErrForeignMedia is returned when a graph is asked to analyse media
	// from another engine.
	ErrForeignMedia = errors.New("media does not belong to this engine")
	// ErrGraphClosed is returned by a closed graph.
	ErrGraphClosed = errors.New("audio graph closed")
)

// Graph routes media through analysers. It is suspended until the speaker
// opens, like a browser audio context before a user gesture.
type Graph struct {
	engine *Engine

	mu     sync.Mutex
	closed bool
}

func (g *Graph) State() platform.GraphState {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.closed:
		return platform.GraphClosed
	case g.engine.Ready():
		return platform.GraphRunning
	default:
		return platform.GraphSuspended
	}
}

// Resume opens the speaker.
func (g *Graph) Resume(ctx context.Context) error {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return ErrGraphClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.engine.open()
}

// NewAnalyser taps m, which must come from the same engine.
func (g *Graph) NewAnalyser(m platform.Media, fftSize int) (platform.Analyser, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, ErrGraphClosed
	}

	media, ok := m.(*Media)
	if !ok || media.engine != g.engine {
		return nil, ErrForeignMedia
	}
	return NewAnalyser(media.Tap, fftSize)
}

// Close detaches the graph. The speaker stays open for other media.
func (g *Graph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

var _ platform.AudioGraph = (*Graph)(nil)
