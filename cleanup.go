package datastage

import (
	"context"
	"fmt"
	"os"
)

// CleanupResult is the outcome of a Cleanup call. Report is always
// populated; Err is non-nil when the store file existed but could not be
// removed, in which case Report carries the error description as text.
type CleanupResult struct {
	// Report is the rendered text payload
	Report string
	// Err is the typed filesystem error, nil on success
	Err *FilesystemError
}

// Cleanup deletes the store file entirely, reporting the outcome as text.
// A connection is opened and closed first so the engine holds no lock on
// the file at removal time. Cleanup never hard-fails; a missing file is a
// normal outcome and filesystem errors are absorbed into the report.
func (s *Store) Cleanup(ctx context.Context) *CleanupResult {
	// Stat before connecting: opening a missing store would create it.
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return &CleanupResult{
				Report: fmt.Sprintf("Database file at %s does not exist.", s.path),
			}
		}
		return cleanupFailure("stat", s.path, err)
	}

	// Best effort: a failed connect must not block file removal.
	if db, err := s.open(ctx); err == nil {
		_ = db.Close()
	} else {
		s.log.Warn("could not connect to store before cleanup", "error", err)
	}

	if err := os.Remove(s.path); err != nil {
		return cleanupFailure("remove", s.path, err)
	}

	s.log.Info("removed store file", "path", s.path)
	return &CleanupResult{
		Report: fmt.Sprintf("Database file at %s has been completely removed.", s.path),
	}
}

// cleanupFailure wraps a filesystem error as an absorbed CleanupResult.
func cleanupFailure(op, path string, err error) *CleanupResult {
	return &CleanupResult{
		Report: fmt.Sprintf("Error removing database: %v", err),
		Err:    &FilesystemError{Op: op, Path: path, Err: err},
	}
}
