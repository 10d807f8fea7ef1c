// Package player launches and supervises external media player
// processes. The mpv driver is the real implementation: it spawns one
// process per launch and steers it over a line-delimited JSON IPC
// socket. The other drivers exist for player types without socket
// control.
package player

import (
	"errors"
	"log/slog"

	"github.com/vmunix/cue/internal/session"
)

// ErrConnectTimeout indicates the player never created its IPC
// endpoint within the connect bound. The launch is abandoned and the
// process reaped.
var ErrConnectTimeout = errors.New("player IPC connection timed out")

//go:generate mockgen -destination=mocks/driver.go -package=mocks github.com/vmunix/cue/internal/player Driver

// Driver runs one player process end-to-end for a playlist and reduces
// the whole run into a single final playback observation.
//
// Launch blocks until the player process exits. startIndex selects the
// playlist entry to begin with; startTime is the resume offset in
// seconds, applied only to that first entry. A returned error means
// the launch never got going and the caller should treat its session
// as untouched; mid-run failures are not errors, they truncate the
// observation instead.
type Driver interface {
	Launch(playlist []string, startIndex int, startTime float64) (session.PlaybackState, error)
}

// New creates the driver for a configured player type. Unknown types
// fall back to mpv, the only fully controlled player.
func New(playerType, executable string, log *slog.Logger) Driver {
	switch playerType {
	case "vlc_rc":
		return &VLC{Executable: executable, log: log}
	case "noop":
		return Noop{}
	case "mpv_native":
		return NewMPV(executable, log)
	default:
		log.Warn("unknown player type, using mpv", "player_type", playerType)
		return NewMPV(executable, log)
	}
}
