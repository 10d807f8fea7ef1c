package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Store is the durable record of all sessions, backed by a single JSON
// file. Every mutation rewrites the whole file; the mutex serializes the
// load/merge/rewrite step so concurrent callers cannot race the backing
// file.
type Store struct {
	path string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore opens the store at path, loading any existing sessions.
// A missing file is an empty store, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, sessions: make(map[string]*Session)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadAll returns a snapshot of every stored session, keyed by path.
func (s *Store) LoadAll() map[string]*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*Session, len(s.sessions))
	for path, sess := range s.sessions {
		c := *sess
		out[path] = &c
	}
	return out
}

// Save upserts one session and rewrites the backing file.
func (s *Store) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *sess
	s.sessions[sess.Filepath] = &c
	return s.flush()
}

// Delete removes the session for path and rewrites the backing file.
// Returns ErrNotFound if no session exists for path.
func (s *Store) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[path]; !ok {
		return fmt.Errorf("delete %s: %w", path, ErrNotFound)
	}
	delete(s.sessions, path)
	return s.flush()
}

// Paths returns all stored session keys in sorted order.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.sessions))
	for p := range s.sessions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading session store: %w", err)
	}

	var raw map[string]storedSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing session store %s: %w", s.path, err)
	}

	for path, st := range raw {
		s.sessions[path] = st.toSession(path)
	}
	return nil
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing session store: %w", err)
	}
	return nil
}

// storedSession is the on-disk shape. Position and duration tolerate
// hand-edited or legacy values (numeric strings, garbage) by coercing
// to 0 instead of failing the whole load.
type storedSession struct {
	Filepath string         `json:"filepath"`
	Metadata MediaMetadata  `json:"metadata"`
	Playback storedPlayback `json:"playback"`
}

type storedPlayback struct {
	LastPlayedFile  string       `json:"last_played_file"`
	LastPlayedIndex int          `json:"last_played_index"`
	Position        lenientFloat `json:"position"`
	Duration        lenientFloat `json:"duration"`
	IsFinished      bool         `json:"is_finished"`
	Timestamp       jsonTime     `json:"timestamp"`
}

func (st storedSession) toSession(key string) *Session {
	path := st.Filepath
	if path == "" {
		path = key
	}
	idx := st.Playback.LastPlayedIndex
	if idx < 0 {
		idx = 0
	}
	return &Session{
		Filepath: path,
		Metadata: st.Metadata,
		Playback: PlaybackState{
			LastPlayedFile:  st.Playback.LastPlayedFile,
			LastPlayedIndex: idx,
			Position:        clampSeconds(float64(st.Playback.Position)),
			Duration:        clampSeconds(float64(st.Playback.Duration)),
			IsFinished:      st.Playback.IsFinished,
			Timestamp:       st.Playback.Timestamp.t,
		},
	}
}

func clampSeconds(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// lenientFloat decodes a JSON number or a numeric string, falling back
// to 0 on anything else.
type lenientFloat float64

func (f *lenientFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = lenientFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = lenientFloat(n)
			return nil
		}
	}
	*f = 0
	return nil
}

// jsonTime decodes an RFC3339 timestamp, tolerating absent or malformed
// values as the zero time.
type jsonTime struct {
	t time.Time
}

func (jt *jsonTime) UnmarshalJSON(b []byte) error {
	var t time.Time
	if err := json.Unmarshal(b, &t); err == nil {
		jt.t = t
	}
	return nil
}
