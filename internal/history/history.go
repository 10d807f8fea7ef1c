// Package history keeps an append-only log of completed playback runs.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS playback_log (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	path      TEXT NOT NULL,
	file      TEXT NOT NULL,
	position  REAL NOT NULL,
	duration  REAL NOT NULL,
	finished  INTEGER NOT NULL,
	played_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_playback_log_played_at ON playback_log(played_at);
`

// Entry is one logged playback run.
type Entry struct {
	ID       int64
	Path     string // session key (file or series root)
	File     string // the file actually played
	Position float64
	Duration float64
	Finished bool
	PlayedAt time.Time
}

// Log provides access to the playback log database.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the log at path and applies the
// schema. Use ":memory:" for an ephemeral log.
func Open(path string) (*Log, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append records one run. Sets ID and, when zero, PlayedAt on the entry.
func (l *Log) Append(e *Entry) error {
	if e.PlayedAt.IsZero() {
		e.PlayedAt = time.Now()
	}
	result, err := l.db.Exec(`
		INSERT INTO playback_log (path, file, position, duration, finished, played_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Path, e.File, e.Position, e.Duration, e.Finished, e.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("insert playback log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// Recent returns the newest entries, most recent first.
func (l *Log) Recent(limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, path, file, position, duration, finished, played_at
		FROM playback_log
		ORDER BY played_at DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query playback log: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Path, &e.File, &e.Position, &e.Duration, &e.Finished, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan playback log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
