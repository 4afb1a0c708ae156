package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/tessro/chorus/internal/platform"
)

// Defaults of a browser AnalyserNode.
const (
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

const (
	minFFTSize = 32
	maxFFTSize = 32768
)

// Analyser produces byte frequency spectra from a tap the same way a
// browser AnalyserNode does: Blackman window, magnitude smoothing over
// time, then decibels scaled into [0,255].
type Analyser struct {
	source  func() *Tap
	fftSize int

	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64

	window   []float64
	samples  []float64
	buf      []float64
	smoothed []float64
}

// NewAnalyser returns an analyser over the tap returned by source, which
// may be nil until audio is loaded. fftSize must be a power of two in
// [32, 32768].
func NewAnalyser(source func() *Tap, fftSize int) (*Analyser, error) {
	if fftSize < minFFTSize || fftSize > maxFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size %d: must be a power of two in [%d, %d]", fftSize, minFFTSize, maxFFTSize)
	}

	return &Analyser{
		source:      source,
		fftSize:     fftSize,
		Smoothing:   DefaultSmoothing,
		MinDecibels: DefaultMinDecibels,
		MaxDecibels: DefaultMaxDecibels,
		window:      blackman(fftSize),
		samples:     make([]float64, fftSize),
		buf:         make([]float64, fftSize),
		smoothed:    make([]float64, fftSize/2),
	}, nil
}

func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}

// FrequencyBinCount is half the transform size.
func (a *Analyser) FrequencyBinCount() int {
	return a.fftSize / 2
}

// ByteFrequencyData fills dst from the newest samples on the tap.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	var tap *Tap
	if a.source != nil {
		tap = a.source()
	}
	if tap == nil {
		clear(a.samples)
	} else {
		tap.Latest(a.samples)
	}
	a.analyse(a.samples, dst)
}

func (a *Analyser) analyse(samples []float64, dst []byte) {
	for i := range a.buf {
		a.buf[i] = samples[i] * a.window[i]
	}
	spectrum := fft.FFTReal(a.buf)

	scale := 255 / (a.MaxDecibels - a.MinDecibels)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(a.fftSize)
		a.smoothed[k] = a.Smoothing*a.smoothed[k] + (1-a.Smoothing)*mag
		if k >= len(dst) {
			continue
		}

		db := 20 * math.Log10(a.smoothed[k])
		v := math.Floor(scale * (db - a.MinDecibels))
		switch {
		case math.IsNaN(v) || v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = byte(v)
		}
	}
}

var _ platform.Analyser = (*Analyser)(nil)
