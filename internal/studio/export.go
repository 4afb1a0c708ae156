package studio

import (
	"errors"
	"fmt"

	"github.com/tessro/chorus/internal/platform"
)

// DefaultShareMessage is shared when the user has not written one.
const DefaultShareMessage = "Want to listen to this together?"

const (
	fallbackPixelRatio = 2

	noticeLinkCopied = "Link copied!"
	noticeSaveFailed = "Save failed"
)

// RendererOptions are the flags a capture-friendly drawing context needs.
// Without a preserved buffer the captured canvas comes out blank.
var RendererOptions = platform.ContextOptions{
	PreserveDrawingBuffer: true,
	Alpha:                 true,
	Antialias:             true,
}

var errNoExportTarget = errors.New("no export target")

// ExportFileName names an exported card.
func ExportFileName(prefix, title string) string {
	return fmt.Sprintf("%s_%s.png", prefix, title)
}

// CreateRenderer obtains a drawing context from surface configured for capture.
func (c *Controller) CreateRenderer(surface platform.Surface) (platform.DrawContext, error) {
	return surface.NewContext(RendererOptions)
}

// ShareData builds the share payload for the current track.
func (c *Controller) ShareData() platform.ShareData {
	msg := c.state.CustomMessage
	if msg == "" {
		msg = c.opts.DefaultMessage
	}
	return platform.ShareData{
		Title: c.opts.ShareTitle,
		Text:  fmt.Sprintf("🎵 %s - %s\n\"%s\"", c.track.Title, c.track.Artist, msg),
		URL:   c.location(),
	}
}

// HandleShare hands the track to the native share facility, or copies the
// link when there is none. Failures are logged only.
func (c *Controller) HandleShare() {
	c.haptic()
	if c.state.Phase == PhaseDisposed {
		return
	}

	data := c.ShareData()
	sharer, clip, ctx := c.svc.Sharer, c.svc.Clipboard, c.ctx
	c.spawn(func() {
		if sharer != nil && sharer.CanShare(data) {
			if err := sharer.Share(ctx, data); err != nil {
				c.log.Info().Err(err).Msg("share")
			}
			return
		}
		if clip == nil {
			c.log.Info().Msg("share: no share facility or clipboard")
			return
		}
		if err := clip.WriteText(data.URL); err != nil {
			c.log.Info().Err(err).Msg("share: copy link")
			return
		}
		c.sched.Post(func() { c.notify(noticeLinkCopied) })
	})
}

// DownloadImage captures targetID and exports it. Only one export runs at
// a time; calls while one is in flight are ignored.
func (c *Controller) DownloadImage(targetID string) {
	c.haptic()
	if c.state.IsSaving || c.state.Phase == PhaseDisposed {
		return
	}
	r := c.svc.Rasterizer
	if r == nil || !r.Has(targetID) {
		return
	}

	c.state.IsSaving = true
	c.changed()

	c.sched.After(c.opts.SettleDelay, func() {
		opts := platform.RasterOptions{PixelRatio: c.pixelRatio(), CacheBust: true}
		mobile := c.isMobile()
		name := ExportFileName(c.opts.ExportPrefix, c.track.Title)
		viewer, downloader, ctx := c.svc.Viewer, c.svc.Downloader, c.ctx

		c.spawn(func() {
			err := func() error {
				uri, err := r.Rasterize(ctx, targetID, opts)
				if err != nil {
					return err
				}
				if mobile {
					if viewer == nil {
						return errNoExportTarget
					}
					return viewer.Open(uri)
				}
				if downloader == nil {
					return errNoExportTarget
				}
				return downloader.Download(name, uri)
			}()
			c.sched.Post(func() { c.saved(err) })
		})
	})
}

func (c *Controller) saved(err error) {
	c.state.IsSaving = false
	if err != nil {
		c.log.Warn().Err(err).Msg("export image")
		if c.state.Phase != PhaseDisposed {
			c.notify(noticeSaveFailed)
		}
	}
	c.changed()
}

func (c *Controller) pixelRatio() float64 {
	if c.opts.PixelRatio > 0 {
		return c.opts.PixelRatio
	}
	if c.svc.Env != nil {
		if r := c.svc.Env.PixelRatio(); r > 0 {
			return r
		}
	}
	return fallbackPixelRatio
}

func (c *Controller) isMobile() bool {
	return c.svc.Env != nil && c.svc.Env.IsMobile()
}

func (c *Controller) location() string {
	if c.svc.Env == nil {
		return ""
	}
	return c.svc.Env.Location()
}
