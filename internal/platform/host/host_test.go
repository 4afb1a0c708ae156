package host

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestDataURIRoundTrip(t *testing.T) {
	uri := EncodeDataURI("image/png", []byte("pixels"))
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("EncodeDataURI() = %q", uri)
	}

	mime, data, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI() error = %v", err)
	}
	if mime != "image/png" || string(data) != "pixels" {
		t.Errorf("DecodeDataURI() = %q, %q", mime, data)
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	tests := []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:text/plain,hello",
		"data:image/png;base64,!!!",
	}
	for _, uri := range tests {
		if _, _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("DecodeDataURI(%q) error = nil", uri)
		}
	}
}

func TestImageLoader(t *testing.T) {
	cover := pngBytes(t, 4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.png":
			if _, err := r.Cookie("session"); err == nil {
				t.Error("image request carried credentials")
			}
			w.Write(cover)
		case "/text":
			w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewImageLoader(srv.Client())

	img, err := l.LoadImage(context.Background(), srv.URL+"/cover.png")
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4", img.Bounds().Dx())
	}

	for _, path := range []string{"/missing.png", "/text"} {
		if _, err := l.LoadImage(context.Background(), srv.URL+path); err == nil {
			t.Errorf("LoadImage(%s) error = nil", path)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"chorus_Hype Boy.png", "chorus_Hype Boy.png"},
		{"chorus_AC/DC.png", "chorus_AC_DC.png"},
		{`chorus_What?: "Yes".png`, "chorus_What__ _Yes_.png"},
		{"chorus_tab\there.png", "chorus_tabhere.png"},
		{"  ..  ", "chorus.png"},
		{"", "chorus.png"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type recordingNotifier struct{ msgs []string }

func (n *recordingNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

func TestDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	n := &recordingNotifier{}
	d := &Downloader{Dir: dir, Notifier: n}

	if err := d.Download("chorus_AC/DC.png", EncodeDataURI("image/png", []byte("png!"))); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "chorus_AC_DC.png"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "png!" {
		t.Errorf("file contents = %q", data)
	}
	if len(n.msgs) != 1 || n.msgs[0] != "Saved chorus_AC_DC.png (4 B)" {
		t.Errorf("notices = %v", n.msgs)
	}

	if err := d.Download("x.png", "not a data uri"); err == nil {
		t.Error("Download() error = nil for a bad uri")
	}
}

func TestViewer(t *testing.T) {
	var opened []string
	v := &Viewer{Dir: t.TempDir(), open: func(target string) error {
		opened = append(opened, target)
		return nil
	}}

	if err := v.Open(EncodeDataURI("image/png", []byte("png!"))); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := v.Open("https://example.com/track/1"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if len(opened) != 2 {
		t.Fatalf("opened = %v", opened)
	}
	if filepath.Ext(opened[0]) != ".png" {
		t.Errorf("temp file = %q, want .png", opened[0])
	}
	data, err := os.ReadFile(opened[0])
	if err != nil || string(data) != "png!" {
		t.Errorf("temp file contents = %q, %v", data, err)
	}
	if opened[1] != "https://example.com/track/1" {
		t.Errorf("opened url = %q", opened[1])
	}
}

func TestDetectMobile(t *testing.T) {
	if !DetectMobile("view") {
		t.Error("DetectMobile(view) = false")
	}
	if DetectMobile("download") {
		t.Error("DetectMobile(download) = true")
	}

	t.Setenv("TERMUX_VERSION", "0.118.0")
	if !DetectMobile("auto") {
		t.Error("DetectMobile(auto) = false under Termux")
	}
}

func TestTrackURL(t *testing.T) {
	tests := []struct {
		base string
		id   int64
		want string
	}{
		{"http://localhost:8080", 42, "http://localhost:8080/track/42"},
		{"https://chorus.example/", 1440935467, "https://chorus.example/track/1440935467"},
	}
	for _, tt := range tests {
		if got := TrackURL(tt.base, tt.id); got != tt.want {
			t.Errorf("TrackURL(%q, %d) = %q, want %q", tt.base, tt.id, got, tt.want)
		}
	}
}

func TestEnv(t *testing.T) {
	var e platform.Environment = Env{Mobile: true, Ratio: 2, URL: "http://x/track/1"}
	if !e.IsMobile() || e.PixelRatio() != 2 || e.Location() != "http://x/track/1" {
		t.Errorf("Env = %+v", e)
	}
}

func TestShareBody(t *testing.T) {
	tests := []struct {
		data platform.ShareData
		want string
	}{
		{platform.ShareData{Text: "hi", URL: "http://x"}, "hi\nhttp://x"},
		{platform.ShareData{URL: "http://x"}, "http://x"},
		{platform.ShareData{Text: "hi"}, "hi"},
	}
	for _, tt := range tests {
		if got := shareBody(tt.data); got != tt.want {
			t.Errorf("shareBody(%+v) = %q, want %q", tt.data, got, tt.want)
		}
	}
	if (&CommandSharer{}).CanShare(platform.ShareData{Title: "CHORUS"}) {
		t.Error("CanShare() = true for an empty payload")
	}
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	if err := (Bell{W: &buf}).Vibrate(10 * time.Millisecond); err != nil {
		t.Fatalf("Vibrate() error = %v", err)
	}
	if buf.String() != "\a" {
		t.Errorf("Vibrate() wrote %q", buf.String())
	}
}

func TestCanvasPreserveDrawingBuffer(t *testing.T) {
	tests := []struct {
		name      string
		opts      platform.ContextOptions
		wantDrawn bool
		wantAlpha uint8
	}{
		{"preserved", platform.ContextOptions{PreserveDrawingBuffer: true, Alpha: true, Antialias: true}, true, 0},
		{"discarded", platform.ContextOptions{Alpha: true}, false, 0},
		{"opaque discarded", platform.ContextOptions{}, false, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(8, 4)
			if c.Snapshot() != nil {
				t.Fatal("Snapshot() before NewContext should be nil")
			}

			dc, err := c.NewContext(tt.opts)
			if err != nil {
				t.Fatalf("NewContext() error = %v", err)
			}
			if dc.Options() != tt.opts {
				t.Errorf("Options() = %+v, want %+v", dc.Options(), tt.opts)
			}

			dc.(*CanvasContext).DrawSpectrum([]byte{255, 255, 255, 255}, core.RGB{R: 200}, 1)
			snap := c.Snapshot().(*image.NRGBA)

			bottom := snap.NRGBAAt(0, 3)
			if drawn := bottom.R == 200; drawn != tt.wantDrawn {
				t.Errorf("bottom pixel = %v, drawn = %v, want %v", bottom, drawn, tt.wantDrawn)
			}
			if !tt.wantDrawn && bottom.A != tt.wantAlpha {
				t.Errorf("cleared alpha = %d, want %d", bottom.A, tt.wantAlpha)
			}
		})
	}
}

func TestCanvasWithoutArea(t *testing.T) {
	if _, err := NewCanvas(0, 10).NewContext(platform.ContextOptions{}); err == nil {
		t.Error("NewContext() error = nil for an empty canvas")
	}
}

type fakeLoader struct {
	img  image.Image
	err  error
	urls []string
}

func (f *fakeLoader) LoadImage(_ context.Context, u string) (image.Image, error) {
	f.urls = append(f.urls, u)
	return f.img, f.err
}

func TestCardRasterizer(t *testing.T) {
	cover := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	loader := &fakeLoader{img: cover}
	r := NewCardRasterizer(loader)
	r.now = func() time.Time { return time.Unix(0, 1234) }

	if r.Has("card") {
		t.Fatal("Has() = true before Register")
	}
	r.Register("card", func() Card {
		return Card{CoverURL: "https://example.com/cover.jpg?size=1000", Color: core.RGB{R: 200, G: 100, B: 50}}
	})
	if !r.Has("card") {
		t.Fatal("Has() = false after Register")
	}

	uri, err := r.Rasterize(context.Background(), "card", platform.RasterOptions{PixelRatio: 2, CacheBust: true})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}

	mime, data, err := DecodeDataURI(uri)
	if err != nil || mime != "image/png" {
		t.Fatalf("DecodeDataURI() = %q, %v", mime, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 720 || b.Dy() != 1280 {
		t.Errorf("card size = %dx%d, want 720x1280", b.Dx(), b.Dy())
	}
	if r8, g8, b8, _ := img.At(0, 0).RGBA(); r8>>8 != 200 || g8>>8 != 100 || b8>>8 != 50 {
		t.Errorf("top-left = (%d, %d, %d), want dominant color", r8>>8, g8>>8, b8>>8)
	}

	u, err := url.Parse(loader.urls[0])
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	if u.Query().Get("cb") != "1234" || u.Query().Get("size") != "1000" {
		t.Errorf("cover url = %q, want cache-busted with original query", loader.urls[0])
	}

	// Without cache busting the cover comes from cache.
	if _, err := r.Rasterize(context.Background(), "card", platform.RasterOptions{PixelRatio: 1}); err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if len(loader.urls) != 1 {
		t.Errorf("cover loads = %d, want 1", len(loader.urls))
	}

	r.Unregister("card")
	if _, err := r.Rasterize(context.Background(), "card", platform.RasterOptions{}); err == nil {
		t.Error("Rasterize() error = nil after Unregister")
	}
}

func TestCardRasterizerCoverFailure(t *testing.T) {
	r := NewCardRasterizer(&fakeLoader{err: errors.New("404")})
	r.Register("card", func() Card { return Card{CoverURL: "https://example.com/c.jpg"} })

	if _, err := r.Rasterize(context.Background(), "card", platform.RasterOptions{PixelRatio: 1}); err == nil {
		t.Error("Rasterize() error = nil when the cover fails")
	}
}
