package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for audio no decoder understands.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// memFile lets the decoders seek within a downloaded file.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// transcoder converts arbitrary audio to 16-bit stereo PCM at SampleRate.
// It is nil when no transcoder is installed.
var transcoder = ffmpegTranscoder()

func ffmpegTranscoder() func(ctx context.Context, data []byte) ([]byte, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil
	}
	return func(ctx context.Context, data []byte) ([]byte, error) {
		cmd := exec.CommandContext(ctx, path,
			"-hide_banner", "-loglevel", "error",
			"-i", "pipe:0",
			"-f", "s16le", "-ac", "2", "-ar", fmt.Sprint(int(SampleRate)),
			"pipe:1",
		)
		cmd.Stdin = bytes.NewReader(data)
		var out, stderr bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return out.Bytes(), nil
	}
}

// Decode picks a decoder from the file's leading bytes. MP3 and WAV are
// decoded natively; anything else, such as AAC previews, goes through the
// transcoder when one is installed.
func Decode(ctx context.Context, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	switch {
	case isWAV(data):
		return wav.Decode(memFile{bytes.NewReader(data)})
	case isMP3(data):
		return mp3.Decode(memFile{bytes.NewReader(data)})
	case transcoder != nil:
		pcm, err := transcoder(ctx, data)
		if err != nil {
			return nil, beep.Format{}, err
		}
		return newPCM(pcm), pcmFormat, nil
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	// MPEG audio frame sync: 11 set bits, layer III.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 && data[1]&0x06 == 0x02
}
