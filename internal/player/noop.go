package player

import (
	"time"

	"github.com/vmunix/cue/internal/session"
)

// Noop performs no process control at all. It exists so the rest of
// the system can be exercised on machines without a player installed.
type Noop struct{}

// Launch implements Driver by returning the requested start point
// unchanged.
func (Noop) Launch(playlist []string, startIndex int, startTime float64) (session.PlaybackState, error) {
	state := session.PlaybackState{Position: startTime, Timestamp: time.Now()}
	if startIndex >= 0 && startIndex < len(playlist) {
		state.LastPlayedFile = playlist[startIndex]
		state.LastPlayedIndex = startIndex
	}
	return state, nil
}
