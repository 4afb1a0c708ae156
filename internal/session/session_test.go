package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
	"github.com/tessro/chorus/internal/studio"
)

type download struct {
	name string
	uri  string
}

type chanDownloader chan download

func (d chanDownloader) Download(name, uri string) error {
	d <- download{name: name, uri: uri}
	return nil
}

func waitFor(t *testing.T, states <-chan studio.State, match func(studio.State) bool) studio.State {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if match(s) {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for state")
		}
	}
}

func TestNewRequiresTrack(t *testing.T) {
	if _, err := New(context.Background(), nil, Config{}); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestSessionWithoutAudio(t *testing.T) {
	track := &core.Track{ID: 7, Title: "Ditto", Artist: "NewJeans"}
	states := make(chan studio.State, 64)
	downloads := make(chanDownloader, 1)

	sess, err := New(context.Background(), track, Config{
		FrameRate: 30,
		Services:  platform.Services{Downloader: downloads},
		Options:   studio.Options{SettleDelay: time.Millisecond, PixelRatio: 1},
		OnChange: func(s studio.State, _ []byte) {
			select {
			case states <- s:
			default:
			}
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sess.Close()

	if got := sess.State().Phase; got != studio.PhaseIdle {
		t.Errorf("phase before Start = %v, want idle", got)
	}

	sess.Start()
	st := waitFor(t, states, func(s studio.State) bool { return s.Phase == studio.PhasePaused })
	if st.HasAudio || st.IsPlaying {
		t.Errorf("state = %+v, want no audio and not playing", st)
	}

	sess.Toggle()
	sess.SetMessage("on repeat")
	waitFor(t, states, func(s studio.State) bool { return s.CustomMessage == "on repeat" })
	if sess.State().IsPlaying {
		t.Error("Toggle() should not play a track without audio")
	}

	sess.Save()
	select {
	case d := <-downloads:
		if d.name != "chorus_Ditto.png" {
			t.Errorf("download name = %q", d.name)
		}
		if !strings.HasPrefix(d.uri, "data:image/png;base64,") {
			t.Errorf("download uri = %.40q", d.uri)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for export")
	}
	waitFor(t, states, func(s studio.State) bool { return !s.IsSaving })
}

func TestCloseIdempotent(t *testing.T) {
	track := &core.Track{ID: 1, Title: "Attention"}
	sess, err := New(context.Background(), track, Config{FrameRate: 30})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sess.Start()
	sess.Close()
	sess.Close()

	if got := sess.State().Phase; got != studio.PhaseDisposed {
		t.Errorf("phase after Close = %v, want disposed", got)
	}
	if sess.rasterizer.Has(CardID) {
		t.Error("card still registered after Close")
	}
}

func TestCloseAfterContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sess, err := New(ctx, &core.Track{ID: 2, Title: "Cookie"}, Config{FrameRate: 30})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cancel()
	<-sess.loop.Done()

	sess.Close()
	if got := sess.State().Phase; got != studio.PhaseDisposed {
		t.Errorf("phase after Close = %v, want disposed", got)
	}
}
