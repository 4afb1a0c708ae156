package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"shout", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chorus.log")

	logger, closer, err := New(config.LogConfig{Level: "info", File: path}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Str("track", "42").Msg("visible")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(string(data), `"track":"42"`) {
		t.Errorf("log file = %s, want structured field", data)
	}
}

func TestNewVerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(config.LogConfig{Level: "error"}, Options{Verbose: true, Console: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug().Msg("sampling started")
	if !strings.Contains(buf.String(), "sampling started") {
		t.Errorf("console = %q, want debug entry when verbose", buf.String())
	}
}

func TestNewQuietDiscards(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(config.LogConfig{}, Options{Quiet: true, Console: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Error().Msg("nobody hears this")
	if buf.Len() != 0 {
		t.Errorf("console = %q, want nothing in quiet mode", buf.String())
	}
}
