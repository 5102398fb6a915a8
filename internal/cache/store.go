// Package cache is the content-addressed datastore of finished canonical
// documents. Locations derive deterministically from the request
// fingerprint, writes publish atomically, and a cross-process lock keyed
// by fingerprint serializes builds of the same worksheet.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// ErrCorruption indicates a cache file exists but cannot be parsed.
// This is surfaced, never treated as a miss: a corrupt entry silently
// rebuilt would also be silently overwritten.
var ErrCorruption = errors.New("cache corruption")

const lockRetryDelay = 100 * time.Millisecond

// Store maps request fingerprints to documents on disk.
type Store struct {
	root string
}

// NewStore returns a store rooted at the datastore directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the datastore root directory.
func (s *Store) Root() string {
	return s.root
}

// Path derives the storage location for a fingerprint. Each component
// becomes one path segment; nothing is hashed, so the layout stays
// browsable and greppable.
func (s *Store) Path(fp worksheet.Fingerprint) string {
	return filepath.Join(
		s.root,
		fp.SourceDataset,
		fp.ReadingSegment,
		strconv.Itoa(fp.Section),
		fp.Theme,
		fp.Model,
		strconv.Itoa(fp.Seed)+".json",
	)
}

// Lookup reads the cached document for a fingerprint. The second return
// is false when no entry exists.
func (s *Store) Lookup(fp worksheet.Fingerprint) (*worksheet.Document, bool, error) {
	path := s.Path(fp)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", path, err)
	}

	var doc worksheet.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruption, path, err)
	}
	return &doc, true, nil
}

// Store writes the document to the fingerprint's location. The document
// is written to a temporary file in the target directory and renamed
// into place, so a concurrent Lookup sees either the prior state or the
// complete new document, never a partial write.
func (s *Store) Store(fp worksheet.Fingerprint, doc *worksheet.Document) error {
	path := s.Path(fp)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish cache entry: %w", err)
	}
	return nil
}

// LockBuild acquires an exclusive cross-process lock for a fingerprint's
// build, blocking until acquired or ctx is done. The returned release
// function must be called once. The lock file sits next to the cache
// entry and survives it; rename-on-publish never replaces the lock.
func (s *Store) LockBuild(ctx context.Context, fp worksheet.Fingerprint) (func() error, error) {
	path := s.Path(fp) + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire build lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire build lock %s", path)
	}
	return lock.Unlock, nil
}
