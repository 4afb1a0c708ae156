package host

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/tessro/chorus/internal/platform"
)

// ErrNoClipboard is returned when no clipboard utility is installed.
var ErrNoClipboard = errors.New("no clipboard utility available")

// Clipboard writes to the system clipboard.
type Clipboard struct{}

func (Clipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}

var _ platform.Clipboard = Clipboard{}
