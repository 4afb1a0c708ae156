package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/gopxl/beep/v2"
)

var pcmFormat = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

const pcmFrameBytes = 4

// pcm streams interleaved little-endian 16-bit stereo samples.
type pcm struct {
	data []byte
	pos  int
	err  error
}

func newPCM(data []byte) *pcm {
	return &pcm{data: data[:len(data)/pcmFrameBytes*pcmFrameBytes]}
}

func (p *pcm) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) && p.pos < p.Len() {
		off := p.pos * pcmFrameBytes
		l := int16(binary.LittleEndian.Uint16(p.data[off:]))
		r := int16(binary.LittleEndian.Uint16(p.data[off+2:]))
		samples[n][0] = float64(l) / (1 << 15)
		samples[n][1] = float64(r) / (1 << 15)
		n++
		p.pos++
	}
	return n, n > 0
}

func (p *pcm) Err() error { return p.err }

func (p *pcm) Len() int { return len(p.data) / pcmFrameBytes }

func (p *pcm) Position() int { return p.pos }

func (p *pcm) Seek(pos int) error {
	if pos < 0 || pos > p.Len() {
		return fmt.Errorf("seek position %d out of range [0, %d]", pos, p.Len())
	}
	p.pos = pos
	return nil
}

func (p *pcm) Close() error { return nil }
