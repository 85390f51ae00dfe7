// Package filelock serializes tidy processes that touch the same files:
// commits against one bound directory, appends to the undo journal and
// config saves.
package filelock

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/zeebo/blake3"
)

// ErrBusy is returned by TryLock when another process holds the lock.
var ErrBusy = errors.New("lock is held by another process")

// Lock is an exclusive advisory lock backed by a lock file.
type Lock struct {
	flock *flock.Flock
	path  string
}

// New returns an unlocked Lock on path. The file is created on first use.
func New(path string) *Lock {
	return &Lock{flock: flock.New(path), path: path}
}

// ForDirectory returns the lock guarding mutations of dir. Lock files live in
// lockDir and are named after a digest of dir so the bound directory itself
// is never written to.
func ForDirectory(lockDir, dir string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory %s: %w", lockDir, err)
	}
	return New(filepath.Join(lockDir, LockName(dir))), nil
}

// LockName derives the lock file name for dir.
func LockName(dir string) string {
	sum := blake3.Sum256([]byte(filepath.Clean(dir)))
	return "dir-" + hex.EncodeToString(sum[:8]) + ".lock"
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Lock blocks until the lock is acquired.
func (l *Lock) Lock() error {
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	return nil
}

// TryLock acquires the lock without waiting, returning ErrBusy when it is held elsewhere.
func (l *Lock) TryLock() error {
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", l.path, ErrBusy)
	}
	return nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// With runs fn while holding the lock.
func (l *Lock) With(fn func() error) error {
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}

// AtomicWrite replaces path with data through a temp file in the same
// directory, so readers see either the old or the new content.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	committed = true
	return nil
}

// LockAndWrite performs AtomicWrite while holding the lock at path + ".lock".
func LockAndWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return New(path + ".lock").With(func() error {
		return AtomicWrite(path, data, perm)
	})
}
