// Package tail turns studio state changes into a stream of playback events
// for headless sessions.
package tail

import (
	"sync"
	"time"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/studio"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventStart EventType = iota
	EventComplete
	EventPause
	EventResume
	EventColor
	EventSaved
	EventMessage
	EventNoAudio
	EventNoVisualizer
)

// completeThreshold is the progress, in percent, past which a stop counts
// as the preview finishing rather than a pause.
const completeThreshold = 95

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Track     *core.Track
	Previous  studio.State
	Current   studio.State
}

// Watcher diffs successive studio snapshots and emits events.
type Watcher struct {
	track *core.Track
	now   func() time.Time

	mu      sync.Mutex
	prev    *studio.State
	started bool
	closed  bool
	events  chan Event
}

// NewWatcher creates a watcher for track.
func NewWatcher(track *core.Track) *Watcher {
	return &Watcher{
		track:  track,
		now:    time.Now,
		events: make(chan Event, 16),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Observe records a new snapshot. It never blocks; events are dropped when
// nobody keeps up with the channel.
func (w *Watcher) Observe(curr studio.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	var prev studio.State
	if w.prev != nil {
		prev = *w.prev
	} else {
		// Nothing seen yet: compare against a fresh controller.
		prev = studio.State{HasAudio: w.track.HasAudio(), Visualizer: true, DominantColor: core.NeutralGray}
	}

	now := w.now()
	for _, t := range diffStates(prev, curr, w.started) {
		if t == EventStart {
			w.started = true
		}
		select {
		case w.events <- Event{Type: t, Timestamp: now, Track: w.track, Previous: prev, Current: curr}:
		default:
			// Drop event if channel is full
		}
	}

	w.prev = &curr
}

// Stop closes the event channel. Later snapshots are ignored.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.events)
	}
}

// diffStates compares two snapshots and returns the detected events.
func diffStates(prev, curr studio.State, started bool) []EventType {
	var events []EventType

	if prev.HasAudio && !curr.HasAudio {
		events = append(events, EventNoAudio)
	}
	if prev.Visualizer && !curr.Visualizer {
		events = append(events, EventNoVisualizer)
	}
	if prev.DominantColor != curr.DominantColor {
		events = append(events, EventColor)
	}

	// Pause/Resume detection
	if prev.IsPlaying && !curr.IsPlaying && curr.Phase != studio.PhaseDisposed {
		if wasCompleted(prev) {
			events = append(events, EventComplete)
		} else {
			events = append(events, EventPause)
		}
	} else if !prev.IsPlaying && curr.IsPlaying {
		if started {
			events = append(events, EventResume)
		} else {
			events = append(events, EventStart)
		}
	}

	if prev.IsSaving && !curr.IsSaving {
		events = append(events, EventSaved)
	}
	if prev.CustomMessage != curr.CustomMessage {
		events = append(events, EventMessage)
	}

	return events
}

// wasCompleted returns true if the preview likely ran to its end.
func wasCompleted(state studio.State) bool {
	return state.Progress >= completeThreshold
}
