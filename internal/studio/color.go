package studio

import (
	"errors"
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

// DominantColor scales img down to a single pixel and returns its color.
func DominantColor(img image.Image) core.RGB {
	b := img.Bounds()
	if b.Empty() {
		return core.NeutralGray
	}

	px := resize.Resize(1, 1, img, resize.Bilinear)
	c := color.NRGBAModel.Convert(px.At(px.Bounds().Min.X, px.Bounds().Min.Y)).(color.NRGBA)
	return core.RGB{R: c.R, G: c.G, B: c.B}
}

// sampleColor loads the cover in the background. Failures leave the
// current color in place.
func (c *Controller) sampleColor(url string) {
	if c.svc.Images == nil {
		return
	}

	images, ctx := c.svc.Images, c.ctx
	c.spawn(func() {
		img, err := images.LoadImage(ctx, url)
		if err != nil {
			if errors.Is(err, platform.ErrTainted) {
				c.log.Debug().Msg("cover pixels unreadable")
			} else {
				c.log.Debug().Err(err).Msg("load cover")
			}
			return
		}

		rgb := DominantColor(img)
		c.sched.Post(func() {
			if c.state.Phase == PhaseDisposed {
				return
			}
			c.state.DominantColor = rgb
			c.changed()
		})
	})
}
