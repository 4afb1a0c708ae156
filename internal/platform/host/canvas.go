package host

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

// Canvas is an offscreen pixel surface the visualizer renders into and
// share cards capture from.
type Canvas struct {
	width  int
	height int

	mu  sync.Mutex
	ctx *CanvasContext
}

// NewCanvas returns a canvas of the given pixel size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// NewContext creates the drawing context, replacing any previous one.
func (c *Canvas) NewContext(opts platform.ContextOptions) (platform.DrawContext, error) {
	if c.width <= 0 || c.height <= 0 {
		return nil, errors.New("canvas has no area")
	}
	ctx := &CanvasContext{
		opts: opts,
		back: image.NewNRGBA(image.Rect(0, 0, c.width, c.height)),
	}
	ctx.clear()

	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	return ctx, nil
}

// Snapshot returns what a capture reads back, or nil before a context exists.
func (c *Canvas) Snapshot() image.Image {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil {
		return nil
	}
	return ctx.snapshot()
}

// CanvasContext draws into a canvas.
type CanvasContext struct {
	opts platform.ContextOptions

	mu   sync.Mutex
	back *image.NRGBA
}

func (c *CanvasContext) Options() platform.ContextOptions {
	return c.opts
}

// DrawSpectrum renders bins as bars in col, heights multiplied by scale.
func (c *CanvasContext) DrawSpectrum(bins []byte, col core.RGB, scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clear()
	if len(bins) == 0 {
		return
	}

	b := c.back.Bounds()
	w, h := b.Dx(), b.Dy()
	barW := max(w/len(bins), 1)

	for i, v := range bins {
		x0 := i * barW
		if x0 >= w {
			break
		}
		height := float64(v) / 255 * float64(h) * scale
		full := min(int(height), h)
		frac := height - float64(full)

		for x := x0; x < min(x0+barW, w); x++ {
			for y := h - full; y < h; y++ {
				c.back.SetNRGBA(x, y, color.NRGBA{R: col.R, G: col.G, B: col.B, A: 255})
			}
			// Antialiasing blends the partial top pixel.
			if c.opts.Antialias && full < h && frac > 0 {
				c.back.SetNRGBA(x, h-full-1, color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(frac * 255)})
			}
		}
	}
}

// clear resets to transparent with alpha, opaque black without.
func (c *CanvasContext) clear() {
	if c.opts.Alpha {
		clear(c.back.Pix)
		return
	}
	for i := 0; i < len(c.back.Pix); i += 4 {
		c.back.Pix[i+0] = 0
		c.back.Pix[i+1] = 0
		c.back.Pix[i+2] = 0
		c.back.Pix[i+3] = 255
	}
}

// snapshot copies the drawing buffer. Without a preserved buffer the
// contents are gone once presented and a capture reads a cleared canvas.
func (c *CanvasContext) snapshot() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := image.NewNRGBA(c.back.Bounds())
	if c.opts.PreserveDrawingBuffer {
		copy(out.Pix, c.back.Pix)
	} else if !c.opts.Alpha {
		for i := 3; i < len(out.Pix); i += 4 {
			out.Pix[i] = 255
		}
	}
	return out
}

var _ platform.Surface = (*Canvas)(nil)
