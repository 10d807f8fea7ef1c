package player

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vmunix/cue/internal/session"
)

var pollInterval = time.Second

// MPV drives an mpv process over its JSON IPC socket. One Launch call
// supervises one process from spawn to exit; the tracking loop never
// stops playback itself, it only observes until mpv terminates.
type MPV struct {
	Executable string

	log            *slog.Logger
	socketPath     func() string // overridable for tests
	connectTimeout time.Duration
}

// NewMPV creates the mpv driver. executable defaults to "mpv".
func NewMPV(executable string, log *slog.Logger) *MPV {
	if executable == "" {
		executable = "mpv"
	}
	if log == nil {
		log = slog.Default()
	}
	return &MPV{
		Executable:     executable,
		log:            log,
		socketPath:     defaultSocketPath,
		connectTimeout: connectTimeout,
	}
}

// defaultSocketPath returns a per-process endpoint name. Keying on the
// pid keeps concurrent launches from different cue processes off each
// other's socket.
func defaultSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("cue-mpv-%d.sock", os.Getpid()))
}

// Launch implements Driver.
func (m *MPV) Launch(playlist []string, startIndex int, startTime float64) (session.PlaybackState, error) {
	if len(playlist) == 0 {
		return session.PlaybackState{Timestamp: time.Now()}, nil
	}
	if startIndex < 0 || startIndex >= len(playlist) {
		return session.PlaybackState{}, fmt.Errorf("start index %d out of range for %d files", startIndex, len(playlist))
	}

	socket := m.socketPath()
	_ = os.Remove(socket) // stale endpoint from an earlier run
	defer os.Remove(socket)

	args := []string{
		"--no-terminal",
		"--input-ipc-server=" + socket,
		fmt.Sprintf("--playlist-start=%d", startIndex),
		"--pause",
		"--idle=no",
	}
	args = append(args, playlist...)

	m.log.Info("launching player",
		"executable", m.Executable,
		"files", len(playlist),
		"start_index", startIndex,
		"start_time", startTime,
	)

	cmd := exec.Command(m.Executable, args...)
	if err := cmd.Start(); err != nil {
		return session.PlaybackState{}, fmt.Errorf("starting %s: %w", m.Executable, err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	state := session.PlaybackState{
		LastPlayedFile: playlist[startIndex],
		Position:       startTime,
	}

	ipc, err := dialIPC(socket, m.connectTimeout)
	if err != nil {
		// No handshake, no session to recover: reap and report.
		m.reap(cmd, exited)
		return session.PlaybackState{}, err
	}

	m.supervise(ipc, exited, &state, startTime)

	_ = ipc.close()
	m.reap(cmd, exited)

	state.IsFinished = session.Finished(state.Position, state.Duration)
	if state.Duration > 0 && state.Position > state.Duration {
		state.Position = state.Duration
	}
	state.Timestamp = time.Now()

	m.log.Info("player exited",
		"file", state.LastPlayedFile,
		"position", state.Position,
		"duration", state.Duration,
		"finished", state.IsFinished,
	)
	return state, nil
}

// supervise runs the handshake and tracking loop, mutating state with
// each observation. It returns when the process exits or the transport
// breaks; either way state holds the last known values.
func (m *MPV) supervise(ipc *ipcConn, exited <-chan struct{}, state *session.PlaybackState, startTime float64) {
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	// Seeking before mpv reports a loaded duration is unreliable, so
	// the first file waits here until duration proves the load. Done
	// once per launch: later playlist entries play from their start.
	for state.Duration == 0 {
		select {
		case <-exited:
			return
		case <-tick.C:
			d, ok, err := ipc.floatProperty("duration")
			if err != nil {
				m.log.Warn("transport error during handshake", "error", err)
				return
			}
			if ok && d > 0 {
				state.Duration = d
			}
		}
	}
	if startTime > 0 {
		if err := ipc.seekAbsolute(startTime); err != nil {
			m.log.Warn("seek failed", "error", err)
			return
		}
	}
	if err := ipc.setPause(false); err != nil {
		m.log.Warn("unpause failed", "error", err)
		return
	}

	current := state.LastPlayedFile
	for {
		select {
		case <-exited:
			return
		case <-tick.C:
			// Duration first: adopt a fresh value only while unknown,
			// so a transient null cannot clobber a confirmed one.
			if state.Duration == 0 {
				d, ok, err := ipc.floatProperty("duration")
				if err != nil {
					m.log.Warn("transport error, tracking truncated", "error", err)
					return
				}
				if ok && d > 0 {
					state.Duration = d
				}
			}

			// Then the transition check: a changed path means mpv
			// advanced to the next playlist entry on its own.
			path, ok, err := ipc.stringProperty("path")
			if err != nil {
				m.log.Warn("transport error, tracking truncated", "error", err)
				return
			}
			if ok && path != "" && path != current {
				m.log.Info("episode transition", "from", current, "to", path)
				current = path
				state.LastPlayedFile = path
				state.Duration = 0
				state.Position = 0
			}

			// Position last. Unknown or unparsable polls leave the
			// previously known position untouched.
			pos, ok, err := ipc.floatProperty("time-pos")
			if err != nil {
				m.log.Warn("transport error, tracking truncated", "error", err)
				return
			}
			if ok {
				state.Position = pos
			}
		}
	}
}

// reap guarantees the process is gone, including on error paths.
func (m *MPV) reap(cmd *exec.Cmd, exited <-chan struct{}) {
	select {
	case <-exited:
		return
	default:
	}
	_ = cmd.Process.Kill()
	<-exited
}
