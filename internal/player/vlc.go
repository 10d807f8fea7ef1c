package player

import (
	"log/slog"
	"os/exec"
	"time"

	"github.com/vmunix/cue/internal/session"
)

// VLC is the remote-control driver variant. VLC's rc interface offers
// no request correlation, so this driver only spawns the process and
// waits for it; nothing is observed or steered.
//
// TODO: parse `get_time`/`get_length` output from the rc prompt so
// resume positions survive vlc runs too.
type VLC struct {
	Executable string

	log *slog.Logger
}

// Launch implements Driver. The returned state records which file was
// handed to vlc but carries no position or duration; it never counts
// as finished.
func (v *VLC) Launch(playlist []string, startIndex int, startTime float64) (session.PlaybackState, error) {
	state := session.PlaybackState{Timestamp: time.Now()}
	if len(playlist) == 0 {
		return state, nil
	}
	if startIndex < 0 || startIndex >= len(playlist) {
		startIndex = 0
	}
	state.LastPlayedFile = playlist[startIndex]
	state.Position = startTime

	exe := v.Executable
	if exe == "" {
		exe = "vlc"
	}
	v.log.Info("launching player (no playback tracking)", "executable", exe, "file", state.LastPlayedFile)

	cmd := exec.Command(exe, playlist[startIndex])
	if err := cmd.Run(); err != nil {
		return session.PlaybackState{}, err
	}
	state.Timestamp = time.Now()
	return state, nil
}
