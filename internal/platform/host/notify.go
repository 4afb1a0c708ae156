package host

import (
	"io"
	"time"

	"github.com/tessro/chorus/internal/platform"
)

// NotifierFunc adapts a function to platform.Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Bell stands in for a vibration motor by ringing the terminal bell.
type Bell struct {
	W io.Writer
}

func (b Bell) Vibrate(time.Duration) error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

var (
	_ platform.Notifier = NotifierFunc(nil)
	_ platform.Haptics  = Bell{}
)
