package studio

import "github.com/tessro/chorus/internal/platform"

const (
	bassBins   = 10
	maxBinByte = 255
	// bassScale is how far full bass power pushes the scale target above rest.
	bassScale = 0.15
)

// BassPower averages the first ten bins of a byte spectrum into [0,1].
// Missing bins count as silence.
func BassPower(bins []byte) float64 {
	var sum int
	for i := 0; i < bassBins && i < len(bins); i++ {
		sum += int(bins[i])
	}
	return float64(sum) / (bassBins * maxBinByte)
}

// ensureAnalyser builds the audio graph on first use and resumes it when
// the host suspended it. A failed build is not retried.
func (c *Controller) ensureAnalyser() {
	if !c.graphTried && c.media != nil {
		c.graphTried = true
		c.buildAnalyser()
	}

	if c.graph != nil && c.graph.State() == platform.GraphSuspended {
		g, ctx := c.graph, c.ctx
		c.spawn(func() {
			if err := g.Resume(ctx); err != nil {
				c.log.Warn().Err(err).Msg("resume audio graph")
			}
		})
	}
}

func (c *Controller) buildAnalyser() {
	if c.svc.Audio == nil {
		c.state.Visualizer = false
		return
	}

	g, err := c.svc.Audio.NewAudioGraph()
	if err != nil {
		c.log.Warn().Err(err).Msg("visualizer unavailable")
		c.state.Visualizer = false
		return
	}

	a, err := g.NewAnalyser(c.media, c.opts.FFTSize)
	if err != nil {
		c.log.Warn().Err(err).Msg("visualizer unavailable")
		_ = g.Close()
		c.state.Visualizer = false
		return
	}

	c.graph = g
	c.analyser = a
	c.bins = make([]byte, a.FrequencyBinCount())
}

// startSampling runs one iteration now; each iteration schedules the next.
func (c *Controller) startSampling() {
	c.cancelFrame()
	c.sample()
}

func (c *Controller) sample() {
	c.framePending = false
	if !c.state.IsPlaying || c.analyser == nil || c.bins == nil {
		return
	}

	c.analyser.ByteFrequencyData(c.bins)
	power := BassPower(c.bins)
	c.state.BassPower = power
	c.state.ScaleTarget = restScale + power*bassScale
	c.changed()

	c.frame = c.sched.RequestFrame(c.sample)
	c.framePending = true
}

func (c *Controller) cancelFrame() {
	if c.framePending {
		c.sched.CancelFrame(c.frame)
		c.framePending = false
	}
}

// Sampling reports whether a sampling iteration is scheduled.
func (c *Controller) Sampling() bool {
	return c.framePending
}

// Spectrum returns a copy of the latest byte spectrum, nil before analysis starts.
func (c *Controller) Spectrum() []byte {
	if c.bins == nil {
		return nil
	}
	out := make([]byte, len(c.bins))
	copy(out, c.bins)
	return out
}
