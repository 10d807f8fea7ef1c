// Package session defines the persisted playback records and their file store.
package session

import "time"

// FinishThreshold is how close to the known duration playback must stop,
// in seconds, for a file to count as watched.
const FinishThreshold = 5.0

// PlaybackState holds the dynamic playback data for one library item.
// Position and Duration are seconds; Duration 0 means unknown.
type PlaybackState struct {
	LastPlayedFile  string    `json:"last_played_file"`
	LastPlayedIndex int       `json:"last_played_index"`
	Position        float64   `json:"position"`
	Duration        float64   `json:"duration"`
	IsFinished      bool      `json:"is_finished"`
	Timestamp       time.Time `json:"timestamp"`
}

// Finished reports whether a stop at position counts as watched.
// An unknown duration is never finished, whatever the position.
func Finished(position, duration float64) bool {
	return duration > 0 && duration-position < FinishThreshold
}

// MediaMetadata holds the descriptive data for one library item.
type MediaMetadata struct {
	CleanTitle        string `json:"clean_title"`
	SeasonNumber      *int   `json:"season_number,omitempty"`
	IsUserLockedTitle bool   `json:"is_user_locked_title"`
}

// Session aggregates metadata and playback state for one library item,
// keyed by the item's path (a single file or a series root directory).
type Session struct {
	Filepath string        `json:"filepath"`
	Metadata MediaMetadata `json:"metadata"`
	Playback PlaybackState `json:"playback"`
}

// New creates an unplayed session for path with the given metadata.
func New(path string, meta MediaMetadata) *Session {
	return &Session{
		Filepath: path,
		Metadata: meta,
		Playback: PlaybackState{Timestamp: time.Now()},
	}
}
