// Package loop provides the single goroutine that owns all studio state,
// plus a display-refresh frame scheduler in the spirit of requestAnimationFrame.
package loop

import (
	"context"
	"sort"
	"time"

	"github.com/tessro/chorus/internal/platform"
)

// Loop serializes work onto one goroutine. It implements platform.Scheduler.
type Loop struct {
	tasks    chan func()
	interval time.Duration
	done     chan struct{}

	// Owned by the loop goroutine.
	frames map[platform.FrameID]func()
	nextID platform.FrameID
}

// New creates a loop that refreshes frames at frameRate Hz.
func New(frameRate int) *Loop {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Loop{
		tasks:    make(chan func(), 256),
		interval: time.Second / time.Duration(frameRate),
		done:     make(chan struct{}),
		frames:   make(map[platform.FrameID]func()),
	}
}

// Run processes posted work and frame callbacks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.runFrames()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn. Work posted after the loop stopped is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Call runs fn on the loop goroutine and waits for it. It returns false if
// the loop stopped before fn ran.
func (l *Loop) Call(fn func()) bool {
	ran := make(chan struct{})
	l.Post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// RequestFrame schedules fn for the next refresh. Loop goroutine only.
func (l *Loop) RequestFrame(fn func()) platform.FrameID {
	l.nextID++
	l.frames[l.nextID] = fn
	return l.nextID
}

// CancelFrame drops a pending frame callback. Loop goroutine only.
func (l *Loop) CancelFrame(id platform.FrameID) {
	delete(l.frames, id)
}

// After posts fn once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

// runFrames runs the callbacks pending at the start of this refresh, in
// request order. Frames requested while running wait for the next refresh.
func (l *Loop) runFrames() {
	if len(l.frames) == 0 {
		return
	}
	pending := l.frames
	l.frames = make(map[platform.FrameID]func())

	ids := make([]platform.FrameID, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		pending[id]()
	}
}

var _ platform.Scheduler = (*Loop)(nil)
