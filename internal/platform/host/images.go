// Package host implements the studio's platform services for a desktop
// terminal session.
package host

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/tessro/chorus/internal/platform"
)

const maxImageBytes = 20 << 20

// ImageLoader fetches images anonymously: no cookies, no credentials.
type ImageLoader struct {
	client *http.Client
}

// NewImageLoader returns a loader. A nil client gets a 15 second timeout.
func NewImageLoader(client *http.Client) *ImageLoader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ImageLoader{client: client}
}

func (l *ImageLoader) LoadImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

var _ platform.ImageLoader = (*ImageLoader)(nil)
