package player

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vmunix/cue/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func shortPoll(t *testing.T) {
	t.Helper()
	old := pollInterval
	pollInterval = 20 * time.Millisecond
	t.Cleanup(func() { pollInterval = old })
}

func TestSupervise_SeeksOnceThenTracks(t *testing.T) {
	shortPoll(t)

	exited := make(chan struct{})
	var once sync.Once

	var mu sync.Mutex
	var durCalls, pathCalls, posCalls, seekCalls int
	var seekTo float64
	var unpausedAfterSeek bool

	f := startFakePlayer(t, func(command []any, id int) []string {
		mu.Lock()
		defer mu.Unlock()

		op, _ := command[0].(string)
		switch op {
		case "seek":
			seekCalls++
			seekTo, _ = command[1].(float64)
			return []string{successLine(id, `null`)}
		case "set_property":
			if prop, _ := command[1].(string); prop == "pause" {
				unpausedAfterSeek = seekCalls == 1
			}
			return []string{successLine(id, `null`)}
		case "get_property":
			prop, _ := command[1].(string)
			switch prop {
			case "duration":
				durCalls++
				switch durCalls {
				case 1:
					return []string{successLine(id, `null`)} // file not loaded yet
				case 2:
					return []string{successLine(id, `1800`)}
				default:
					return []string{successLine(id, `2400`)}
				}
			case "path":
				pathCalls++
				if pathCalls == 1 {
					return []string{successLine(id, `"/lib/ep1.mkv"`)}
				}
				return []string{successLine(id, `"/lib/ep2.mkv"`)}
			case "time-pos":
				posCalls++
				switch posCalls {
				case 1:
					return []string{successLine(id, `310`)}
				case 2:
					return []string{successLine(id, `5`)}
				default:
					once.Do(func() { close(exited) })
					return []string{successLine(id, `15`)}
				}
			}
		}
		return []string{successLine(id, `null`)}
	})
	c := dialFake(t, f)

	m := NewMPV("mpv", discardLogger())
	state := session.PlaybackState{LastPlayedFile: "/lib/ep1.mkv", Position: 300}

	done := make(chan struct{})
	go func() {
		m.supervise(c, exited, &state, 300)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("supervise did not return after process exit")
	}

	mu.Lock()
	defer mu.Unlock()

	if seekCalls != 1 {
		t.Errorf("seekCalls = %d, want 1 (first file only, never reseeked)", seekCalls)
	}
	if seekTo != 300 {
		t.Errorf("seek target = %v, want 300", seekTo)
	}
	if !unpausedAfterSeek {
		t.Error("unpause must follow the initial seek")
	}
	if state.LastPlayedFile != "/lib/ep2.mkv" {
		t.Errorf("LastPlayedFile = %q, want /lib/ep2.mkv (transition tracked)", state.LastPlayedFile)
	}
	if state.Duration != 2400 {
		t.Errorf("Duration = %v, want 2400 (re-learned after transition)", state.Duration)
	}
	if state.Position != 15 {
		t.Errorf("Position = %v, want 15", state.Position)
	}
}

func TestSupervise_TransientNullKeepsPosition(t *testing.T) {
	shortPoll(t)

	exited := make(chan struct{})
	var once sync.Once

	var mu sync.Mutex
	var posCalls int

	f := startFakePlayer(t, func(command []any, id int) []string {
		mu.Lock()
		defer mu.Unlock()

		op, _ := command[0].(string)
		if op != "get_property" {
			return []string{successLine(id, `null`)}
		}
		switch prop, _ := command[1].(string); prop {
		case "duration":
			return []string{successLine(id, `1800`)}
		case "path":
			return []string{successLine(id, `"/lib/ep1.mkv"`)}
		case "time-pos":
			posCalls++
			switch posCalls {
			case 1:
				return []string{successLine(id, `120`)}
			case 2:
				return []string{successLine(id, `null`)} // transient glitch
			default:
				once.Do(func() { close(exited) })
				return []string{fmt.Sprintf(`{"error":"property unavailable","request_id":%d}`, id)}
			}
		}
		return []string{successLine(id, `null`)}
	})
	c := dialFake(t, f)

	m := NewMPV("mpv", discardLogger())
	state := session.PlaybackState{LastPlayedFile: "/lib/ep1.mkv"}

	done := make(chan struct{})
	go func() {
		m.supervise(c, exited, &state, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("supervise did not return after process exit")
	}

	if state.Position != 120 {
		t.Errorf("Position = %v, want 120 (nulls must not clobber it)", state.Position)
	}
}

func TestSupervise_TransportErrorTruncates(t *testing.T) {
	shortPoll(t)

	exited := make(chan struct{})

	f := startFakePlayer(t, func(command []any, id int) []string {
		return []string{successLine(id, `1800`)}
	})
	c := dialFake(t, f)
	// Close the client side after the handshake gets its duration, so
	// the next poll hits a broken transport.
	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = c.close()
	}()

	m := NewMPV("mpv", discardLogger())
	state := session.PlaybackState{LastPlayedFile: "/lib/ep1.mkv", Position: 90}

	done := make(chan struct{})
	go func() {
		m.supervise(c, exited, &state, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("supervise must return on a broken transport, not spin")
	}

	if state.Position < 0 {
		t.Errorf("Position = %v, prior observation lost", state.Position)
	}
}

func TestLaunch_ConnectTimeout(t *testing.T) {
	m := NewMPV("/bin/true", discardLogger())
	m.connectTimeout = 200 * time.Millisecond

	state, err := m.Launch([]string{"/lib/ep1.mkv"}, 0, 0)
	if !errors.Is(err, ErrConnectTimeout) {
		t.Fatalf("Launch = %v, want ErrConnectTimeout", err)
	}
	if state.IsFinished || state.Position != 0 || state.Duration != 0 {
		t.Errorf("failed launch must return a default state, got %+v", state)
	}
}

func TestLaunch_EmptyPlaylist(t *testing.T) {
	m := NewMPV("mpv", discardLogger())

	state, err := m.Launch(nil, 0, 0)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if state.LastPlayedFile != "" || state.IsFinished {
		t.Errorf("empty playlist should be a no-op, got %+v", state)
	}
}

func TestLaunch_IndexOutOfRange(t *testing.T) {
	m := NewMPV("mpv", discardLogger())

	if _, err := m.Launch([]string{"/lib/ep1.mkv"}, 3, 0); err == nil {
		t.Error("expected error for out-of-range start index")
	}
}

func TestDefaultSocketPath(t *testing.T) {
	path := defaultSocketPath()
	if !strings.Contains(path, fmt.Sprint(os.Getpid())) {
		t.Errorf("socket path %q should be keyed by pid", path)
	}
}

func TestNew_SelectsDriver(t *testing.T) {
	log := discardLogger()

	if _, ok := New("mpv_native", "mpv", log).(*MPV); !ok {
		t.Error("mpv_native should select the mpv driver")
	}
	if _, ok := New("vlc_rc", "vlc", log).(*VLC); !ok {
		t.Error("vlc_rc should select the vlc driver")
	}
	if _, ok := New("noop", "", log).(Noop); !ok {
		t.Error("noop should select the stub driver")
	}
	if _, ok := New("something-else", "mpv", log).(*MPV); !ok {
		t.Error("unknown types should fall back to mpv")
	}
}
