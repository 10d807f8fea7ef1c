package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const scanConcurrency = 4

// Scan walks the immediate children of root and resolves a session
// for every media item it finds: each subdirectory holding at least
// one media file becomes a series session, each recognized media file
// at the top level a standalone one. Directory probing runs
// concurrently; session persistence stays serialized behind the
// store's write lock. Returns how many sessions were newly created.
func (s *Service) Scan(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("reading library root: %w", err)
	}

	var created atomic.Int64
	var g errgroup.Group
	g.SetLimit(scanConcurrency)

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		isDir := entry.IsDir()
		g.Go(func() error {
			if isDir {
				files, err := mediaFiles(path)
				if err != nil || len(files) == 0 {
					return err
				}
			} else if !IsMediaFile(path) {
				return nil
			}

			s.mu.Lock()
			_, isNew, err := s.resolveLocked(path)
			s.mu.Unlock()
			if err != nil {
				return err
			}
			if isNew {
				created.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}
	s.log.Info("scan complete", "root", root, "created", created.Load())
	return int(created.Load()), nil
}
