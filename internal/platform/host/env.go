package host

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/tessro/chorus/internal/platform"
)

// Env describes the running client.
type Env struct {
	Mobile bool
	Ratio  float64
	// URL is the shareable address of the current screen.
	URL string
}

func (e Env) IsMobile() bool { return e.Mobile }

func (e Env) PixelRatio() float64 { return e.Ratio }

func (e Env) Location() string { return e.URL }

// DetectMobile resolves an export mode to a mobile-class client: "view"
// forces it, "download" rules it out and "auto" checks the platform.
func DetectMobile(mode string) bool {
	switch mode {
	case "view":
		return true
	case "download":
		return false
	}
	return runtime.GOOS == "android" || runtime.GOOS == "ios" || os.Getenv("TERMUX_VERSION") != ""
}

// TrackURL is the shareable page for a track under base.
func TrackURL(base string, id int64) string {
	return strings.TrimRight(base, "/") + "/track/" + strconv.FormatInt(id, 10)
}

var _ platform.Environment = Env{}
