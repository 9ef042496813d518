// Package filelock provides cross-process file locking for the core's
// on-disk stores that take a lock: the Embedding Cache and the Project
// Registry (spec §4.B, §4.D), both of which can be written from more than
// one indexing process at once. The Chunk Store does not use it. It works
// on all platforms gofrs/flock supports.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock guards one file's writers with an OS-level advisory lock.
type Lock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// New creates a lock at the given path. The lock file itself is created on
// first Lock/TryLock call, not here.
func New(path string) *Lock {
	return &Lock{
		path:  path,
		flock: flock.New(path),
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (l *Lock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Safe to call on an unlocked Lock.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	l.locked = false
	return nil
}

// Path returns the lock file's path.
func (l *Lock) Path() string {
	return l.path
}
