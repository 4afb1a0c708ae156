package cli

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chorus/internal/catalog"
	"github.com/tessro/chorus/internal/config"
	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
	"github.com/tessro/chorus/internal/platform/audio"
	"github.com/tessro/chorus/internal/platform/host"
	"github.com/tessro/chorus/internal/search"
	"github.com/tessro/chorus/internal/studio"
)

// trackSource finds tracks either through a running proxy or directly
// against the catalog.
type trackSource interface {
	Search(ctx context.Context, query string) ([]core.Track, error)
	Lookup(ctx context.Context, id int64) (*core.Track, error)
}

// newCatalog builds the upstream catalog client with its response cache.
func newCatalog(c *config.Config) *catalog.Client {
	client := catalog.New(c.Catalog, logger)
	if c.Server.CacheTTL > 0 {
		client.SetCache(catalog.NewCache(time.Duration(c.Server.CacheTTL)*time.Second, c.Server.CacheSize))
	}
	return client
}

// newTrackSource returns the proxy client when useAPI is set, the catalog
// otherwise.
func newTrackSource(c *config.Config, useAPI bool) trackSource {
	if useAPI {
		return search.NewAPIClient(c.Studio.APIURL, nil)
	}
	return newCatalog(c)
}

// mediaTimeout bounds preview and cover downloads.
const mediaTimeout = 30 * time.Second

// studioDeps are the host services for playing one track.
type studioDeps struct {
	Services platform.Services
	Images   platform.ImageLoader
	Options  studio.Options
}

// newStudioDeps wires the audio engine and host capabilities for track.
// bell rings the terminal bell in place of haptic feedback.
func newStudioDeps(c *config.Config, track *core.Track, bell bool) studioDeps {
	hc := &http.Client{Timeout: mediaTimeout}
	engine := audio.NewEngine(audio.WithHTTPClient(hc), audio.WithLogger(logger))
	images := host.NewImageLoader(hc)

	svc := platform.Services{
		Media:     engine,
		Audio:     engine,
		Images:    images,
		Clipboard: host.Clipboard{},
		Viewer:    host.NewViewer(c.Studio.ExportDir),
		Downloader: &host.Downloader{
			Dir:    c.Studio.ExportDir,
			Logger: logger,
		},
		Env: host.Env{
			Mobile: host.DetectMobile(c.Studio.ExportMode),
			Ratio:  c.Studio.PixelRatio,
			URL:    host.TrackURL(c.Studio.ShareURL, track.ID),
		},
	}
	svc.Sharer = host.DetectSharer()
	if bell {
		svc.Haptics = host.Bell{W: os.Stderr}
	}

	return studioDeps{
		Services: svc,
		Images:   images,
		Options:  studioOptions(c),
	}
}

// studioOptions maps the studio config section onto controller options.
func studioOptions(c *config.Config) studio.Options {
	return studio.Options{
		Volume:       float64(c.Studio.Volume) / 100,
		PixelRatio:   c.Studio.PixelRatio,
		SettleDelay:  time.Duration(c.Studio.SettleDelay) * time.Millisecond,
		ExportPrefix: c.Studio.ExportPrefix,
		ShareTitle:   c.Studio.ShareTitle,
		Message:      c.Studio.Message,
		Logger:       logger,
	}
}

// applyTheme pins the background lipgloss assumes when the theme is not auto.
func applyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}
