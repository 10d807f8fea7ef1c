// Package library orchestrates sessions, the player driver, and the
// session store: it decides what to play, where to resume, and folds
// each run's outcome back into durable state.
package library

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmunix/cue/internal/history"
	"github.com/vmunix/cue/internal/player"
	"github.com/vmunix/cue/internal/session"
	"github.com/vmunix/cue/pkg/guess"
)

// GuessFunc derives a best-effort title and season from a path.
// A nil result means no guess.
type GuessFunc func(path string) *guess.Result

// Options configures optional service collaborators.
type Options struct {
	Guess   GuessFunc    // nil disables title guessing
	History *history.Log // nil disables the playback log
	Logger  *slog.Logger
}

// Service is the sole mutator of sessions. Its in-memory map is a
// write-through cache of the store, kept consistent on every mutation.
type Service struct {
	store   *session.Store
	driver  player.Driver
	guess   GuessFunc
	history *history.Log
	log     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// New creates a service over the given store and driver, warming the
// cache with every stored session.
func New(store *session.Store, driver player.Driver, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		driver:   driver,
		guess:    opts.Guess,
		history:  opts.History,
		log:      log,
		sessions: store.LoadAll(),
	}
}

// Resolve returns the session for path, creating and persisting one on
// first sight. The title is guessed only at creation time; guesser
// failures fall back to the file's base name and never abort
// resolution.
func (s *Service) Resolve(path string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, _, err := s.resolveLocked(path)
	return sess, err
}

func (s *Service) resolveLocked(path string) (sess *session.Session, created bool, err error) {
	if sess, ok := s.sessions[path]; ok {
		return sess, false, nil
	}

	meta := session.MediaMetadata{CleanTitle: filepath.Base(path)}
	if g := s.safeGuess(path); g != nil {
		if g.Title != "" {
			meta.CleanTitle = g.Title
		}
		meta.SeasonNumber = g.Season
		s.log.Debug("guessed metadata", "path", path, "title", meta.CleanTitle, "season", g.Season)
	}

	sess = session.New(path, meta)
	if err := s.store.Save(sess); err != nil {
		return nil, false, fmt.Errorf("persisting new session: %w", err)
	}
	s.sessions[path] = sess
	s.log.Info("session created", "path", path, "title", meta.CleanTitle)
	return sess, true, nil
}

// safeGuess consults the guesser, absorbing panics: any internal
// failure degrades to "no guess".
func (s *Service) safeGuess(path string) (result *guess.Result) {
	if s.guess == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("title guesser failed", "path", path, "panic", r)
			result = nil
		}
	}()
	return s.guess(path)
}

// MetadataUpdate carries the optional fields of an UpdateMetadata
// call; nil fields are left untouched.
type MetadataUpdate struct {
	Title     *string
	Season    *int
	LockTitle *bool
}

// UpdateMetadata edits a session's metadata and persists it. A locked
// title is only written over when the same call clears the lock; the
// season and the lock flag themselves always overwrite when provided.
func (s *Service) UpdateMetadata(path string, upd MetadataUpdate) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.resolveLocked(path)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		unlocking := upd.LockTitle != nil && !*upd.LockTitle
		if !sess.Metadata.IsUserLockedTitle || unlocking {
			sess.Metadata.CleanTitle = *upd.Title
		}
	}
	if upd.Season != nil {
		sess.Metadata.SeasonNumber = upd.Season
	}
	if upd.LockTitle != nil {
		sess.Metadata.IsUserLockedTitle = *upd.LockTitle
	}

	if err := s.store.Save(sess); err != nil {
		return nil, fmt.Errorf("persisting metadata: %w", err)
	}
	return sess, nil
}

// Delete removes a session from the store and the cache.
func (s *Service) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(path); err != nil {
		return err
	}
	delete(s.sessions, path)
	return nil
}

// Sessions returns all known sessions ordered by path.
func (s *Service) Sessions() []*session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filepath < out[j].Filepath })
	return out
}

// FindByTitle fuzzy-matches query against session titles and returns
// the best match with its session, or a no-confidence match when the
// library is empty or nothing comes close.
func (s *Service) FindByTitle(query string) (guess.Match, *session.Session) {
	sessions := s.Sessions()
	titles := make([]string, len(sessions))
	for i, sess := range sessions {
		titles[i] = sess.Metadata.CleanTitle
	}

	m := guess.BestMatch(query, titles)
	if m.Index < 0 || m.Confidence == guess.ConfidenceNone {
		return m, nil
	}
	return m, sessions[m.Index]
}

// Launch resolves path, computes its playlist and resume point, runs
// the player to completion, and folds the final observation back into
// the session. A finished session advances to the next episode from
// its beginning; past the last episode Launch is a no-op returning the
// finished state. Driver launch failures leave the session unchanged.
func (s *Service) Launch(path string) (session.PlaybackState, error) {
	sess, err := s.Resolve(path)
	if err != nil {
		return session.PlaybackState{}, err
	}

	files, err := s.SeriesFiles(sess)
	if err != nil {
		return sess.Playback, err
	}
	if len(files) == 0 {
		s.log.Warn("no media files for session", "path", path)
		return sess.Playback, nil
	}

	index := sess.Playback.LastPlayedIndex
	if index >= len(files) {
		// The directory shrank since the last run.
		s.log.Warn("stored index out of range, starting from last file",
			"path", path, "index", index, "files", len(files))
		index = len(files) - 1
	}
	startTime := sess.Playback.Position
	if sess.Playback.IsFinished {
		index++
		if index >= len(files) {
			s.log.Info("end of series", "path", path)
			return sess.Playback, nil
		}
		startTime = 0
	}

	result, err := s.driver.Launch(files, index, startTime)
	if err != nil {
		return sess.Playback, fmt.Errorf("launching player: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	finalIndex := indexOf(files, result.LastPlayedFile)
	if finalIndex < 0 {
		// The final file vanished from the playlist mid-run. Keep the
		// previous index rather than resetting to 0, so the place in
		// the series survives a directory mutation.
		s.log.Warn("final file not in playlist, keeping previous index",
			"file", result.LastPlayedFile, "index", sess.Playback.LastPlayedIndex)
		finalIndex = sess.Playback.LastPlayedIndex
	}

	sess.Playback.LastPlayedFile = result.LastPlayedFile
	sess.Playback.LastPlayedIndex = finalIndex
	sess.Playback.Position = result.Position
	sess.Playback.Duration = result.Duration
	sess.Playback.IsFinished = result.IsFinished
	sess.Playback.Timestamp = result.Timestamp

	if err := s.store.Save(sess); err != nil {
		return sess.Playback, fmt.Errorf("persisting playback: %w", err)
	}

	if s.history != nil {
		entry := &history.Entry{
			Path:     sess.Filepath,
			File:     result.LastPlayedFile,
			Position: result.Position,
			Duration: result.Duration,
			Finished: result.IsFinished,
			PlayedAt: result.Timestamp,
		}
		if err := s.history.Append(entry); err != nil {
			s.log.Warn("recording playback history failed", "error", err)
		}
	}

	return sess.Playback, nil
}

func indexOf(files []string, target string) int {
	for i, f := range files {
		if f == target {
			return i
		}
	}
	return -1
}
