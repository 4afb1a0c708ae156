package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/browser"
	"github.com/tessro/chorus/internal/platform"
)

// Downloader saves exports into a directory.
type Downloader struct {
	Dir      string
	Notifier platform.Notifier
	Logger   zerolog.Logger
}

// Download decodes dataURI and writes it to Dir under a sanitized name.
func (d *Downloader) Download(name, dataURI string) error {
	_, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return err
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, SanitizeFileName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	d.Logger.Info().Str("path", path).Int("bytes", len(data)).Msg("image exported")
	if d.Notifier != nil {
		d.Notifier.Notify(fmt.Sprintf("Saved %s (%s)", filepath.Base(path), humanize.Bytes(uint64(len(data)))))
	}
	return nil
}

// SanitizeFileName replaces characters that are unsafe in file names.
func SanitizeFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, name)
	clean = strings.Trim(clean, " .")
	if clean == "" {
		return "chorus.png"
	}
	return clean
}

// Viewer opens exports in the default image viewer for manual saving.
type Viewer struct {
	// Dir holds the temporary files handed to the viewer.
	Dir  string
	open func(string) error
}

// NewViewer returns a viewer that writes temporary files under dir, or the
// system temp directory when dir is empty.
func NewViewer(dir string) *Viewer {
	return &Viewer{Dir: dir, open: browser.Open}
}

// Open shows uri. Data URIs are written to a temporary file first.
func (v *Viewer) Open(uri string) error {
	if !strings.HasPrefix(uri, "data:") {
		return v.open(uri)
	}

	mime, data, err := DecodeDataURI(uri)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(v.Dir, "chorus-*"+extension(mime))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return v.open(f.Name())
}

var (
	_ platform.Downloader = (*Downloader)(nil)
	_ platform.Viewer     = (*Viewer)(nil)
)
