package host

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

// Card is the content of an exported share card.
type Card struct {
	CoverURL string
	Color    core.RGB
	// Visual is the visualizer capture, drawn along the bottom when set.
	Visual image.Image
}

// CardSource snapshots a card. Rasterization calls it off the UI
// goroutine, so it must be safe for concurrent use.
type CardSource func() Card

// Card dimensions in logical pixels, a 9:16 story format.
const (
	CardWidth  = 360
	CardHeight = 640
)

// CardRasterizer renders registered cards to PNG data URIs.
type CardRasterizer struct {
	images platform.ImageLoader
	now    func() time.Time

	mu      sync.Mutex
	sources map[string]CardSource
	covers  map[string]image.Image
}

// NewCardRasterizer returns a rasterizer that fetches covers with images.
func NewCardRasterizer(images platform.ImageLoader) *CardRasterizer {
	return &CardRasterizer{
		images:  images,
		now:     time.Now,
		sources: make(map[string]CardSource),
		covers:  make(map[string]image.Image),
	}
}

// Register makes id capturable.
func (r *CardRasterizer) Register(id string, src CardSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[id] = src
}

// Unregister removes id.
func (r *CardRasterizer) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, id)
}

func (r *CardRasterizer) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sources[id]
	return ok
}

// Rasterize renders card id at opts.PixelRatio times the logical size.
func (r *CardRasterizer) Rasterize(ctx context.Context, id string, opts platform.RasterOptions) (string, error) {
	r.mu.Lock()
	src := r.sources[id]
	r.mu.Unlock()
	if src == nil {
		return "", fmt.Errorf("rasterize %q: no such element", id)
	}
	card := src()

	ratio := opts.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w, h := int(CardWidth*ratio), int(CardHeight*ratio)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	paintGradient(img, card.Color)

	if card.CoverURL != "" {
		cover, err := r.cover(ctx, card.CoverURL, opts.CacheBust)
		if err != nil {
			return "", fmt.Errorf("rasterize %q: %w", id, err)
		}
		size := w * 7 / 10
		scaled := resize.Resize(uint(size), uint(size), cover, resize.Lanczos3)
		at := image.Pt((w-size)/2, h/8)
		draw.Draw(img, scaled.Bounds().Add(at), scaled, scaled.Bounds().Min, draw.Over)
	}

	if card.Visual != nil {
		vw, vh := w*9/10, h/5
		scaled := resize.Resize(uint(vw), uint(vh), card.Visual, resize.Bilinear)
		at := image.Pt((w-vw)/2, h-vh-h/16)
		draw.Draw(img, scaled.Bounds().Add(at), scaled, scaled.Bounds().Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode card: %w", err)
	}
	return EncodeDataURI("image/png", buf.Bytes()), nil
}

// cover loads an image, bypassing the cache with a unique query
// parameter when bust is set.
func (r *CardRasterizer) cover(ctx context.Context, src string, bust bool) (image.Image, error) {
	if !bust {
		r.mu.Lock()
		img, ok := r.covers[src]
		r.mu.Unlock()
		if ok {
			return img, nil
		}
	}

	fetch := src
	if bust {
		fetch = bustURL(src, r.now())
	}
	img, err := r.images.LoadImage(ctx, fetch)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.covers[src] = img
	r.mu.Unlock()
	return img, nil
}

func bustURL(raw string, now time.Time) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("cb", strconv.FormatInt(now.UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// paintGradient fills img from c at the top to a darker shade at the bottom.
func paintGradient(img *image.NRGBA, c core.RGB) {
	top := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	bottom := top.BlendLab(colorful.Color{}, 0.7)

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(max(b.Dy()-1, 1))
		r, g, bl := top.BlendLab(bottom, t).Clamped().RGB255()
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = bl
			img.Pix[i+3] = 255
		}
	}
}

var _ platform.Rasterizer = (*CardRasterizer)(nil)
