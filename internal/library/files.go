package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmunix/cue/internal/session"
)

// IsMediaFile reports whether path has a recognized media extension.
func IsMediaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mkv", ".mp4", ".avi", ".mov":
		return true
	}
	return false
}

// SeriesFiles derives the session's playlist: every recognized media
// file under the session's directory (the containing directory when
// the session path is a single file), sorted lexicographically over
// full paths. This ordering is the contract for episode indices.
func (s *Service) SeriesFiles(sess *session.Session) ([]string, error) {
	root := sess.Filepath
	info, err := os.Stat(root)
	if err != nil {
		s.log.Warn("session path unavailable", "path", root, "error", err)
		return nil, nil
	}
	if !info.IsDir() {
		root = filepath.Dir(root)
	}
	return mediaFiles(root)
}

// mediaFiles recursively collects recognized media files under root,
// sorted for a stable, deterministic order.
func mediaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // skip unreadable entries, keep walking
		}
		if d.IsDir() || !IsMediaFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
