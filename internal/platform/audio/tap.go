package audio

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// Tap passes audio through while keeping the most recent mono samples in
// a ring buffer for analysis.
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap wraps s with a ring buffer of size samples.
func NewTap(s beep.Streamer, size int) *Tap {
	return &Tap{
		s:    s,
		buf:  make([]float64, size),
		size: size,
	}
}

// Stream captures a mono mix of everything that passes through.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error {
	return t.s.Err()
}

// Latest copies the newest len(dst) samples into dst, oldest first.
func (t *Tap) Latest(dst []float64) {
	n := len(dst)
	if n > t.size {
		clear(dst[:n-t.size])
		dst = dst[n-t.size:]
		n = t.size
	}
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		dst[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
}

// SetSource replaces the upstream streamer. Callers hold the speaker lock
// while the tap is playing.
func (t *Tap) SetSource(s beep.Streamer) {
	t.s = s
}

// Reset silences the buffer, as after a seek.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.buf)
	t.mu.Unlock()
}
