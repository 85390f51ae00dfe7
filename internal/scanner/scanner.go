// Package scanner lists the immediate children of a directory for tidy.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// NotADirectory indicates the path exists but is not a directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// ReadFailed covers any other failure while enumerating the directory.
	ReadFailed ScanErrorType = "READ_FAILED"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Path + ": " + e.Err.Error()
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsPermission reports whether err is a PermissionDenied scan error.
func IsPermission(err error) bool {
	var se *ScanError
	return errors.As(err, &se) && se.Type == PermissionDenied
}

// Entry represents one immediate child of a scanned directory.
type Entry struct {
	Name      string // Base name only
	FullPath  string // Directory joined with Name
	IsFile    bool   // Regular file, following symlinks
	IsDir     bool   // Directory, following symlinks
	IsSymlink bool   // The entry itself is a symlink
}

// ResolveDirectory returns the absolute, symlink-resolved form of path
// and verifies that it is an existing directory.
func ResolveDirectory(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ScanError{Type: DirectoryNotFound, Path: path, Err: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &ScanError{Type: DirectoryNotFound, Path: abs, Err: err}
		}
		if os.IsPermission(err) {
			return "", &ScanError{Type: PermissionDenied, Path: abs, Err: err}
		}
		return "", &ScanError{Type: ReadFailed, Path: abs, Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &ScanError{Type: DirectoryNotFound, Path: resolved, Err: err}
		}
		return "", &ScanError{Type: ReadFailed, Path: resolved, Err: err}
	}
	if !info.IsDir() {
		return "", &ScanError{
			Type: NotADirectory,
			Path: resolved,
			Err:  errors.New("path is not a directory"),
		}
	}

	return resolved, nil
}

// List enumerates the immediate children of directory without recursion.
// Order is whatever the filesystem returns; callers must not rely on it.
// Symlinks are followed to decide IsFile/IsDir; broken links are neither.
func List(directory string) ([]Entry, error) {
	dir, err := os.Open(directory)
	if err != nil {
		return nil, classify(directory, err)
	}
	defer dir.Close()

	dirEntries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, classify(directory, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := Entry{
			Name:     de.Name(),
			FullPath: filepath.Join(directory, de.Name()),
		}

		mode := de.Type()
		if mode&os.ModeSymlink != 0 {
			entry.IsSymlink = true
			info, err := os.Stat(entry.FullPath)
			if err != nil {
				entries = append(entries, entry)
				continue
			}
			mode = info.Mode().Type()
		}

		entry.IsDir = mode.IsDir()
		entry.IsFile = mode.IsRegular()
		entries = append(entries, entry)
	}

	return entries, nil
}

// Files returns only the entries of List that are regular files.
func Files(directory string) ([]Entry, error) {
	entries, err := List(directory)
	if err != nil {
		return nil, err
	}

	files := entries[:0]
	for _, e := range entries {
		if e.IsFile {
			files = append(files, e)
		}
	}
	return files, nil
}

func classify(directory string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
	case os.IsPermission(err):
		return &ScanError{Type: PermissionDenied, Path: directory, Err: err}
	default:
		return &ScanError{Type: ReadFailed, Path: directory, Err: err}
	}
}

// Suffix returns the extension of name including the leading dot, or ""
// when there is none. A leading dot (".bashrc") or a trailing dot ("file.")
// does not start an extension.
func Suffix(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// MatchesExtension reports whether name's suffix equals ext, ignoring case.
func MatchesExtension(name, ext string) bool {
	suffix := Suffix(name)
	return suffix != "" && strings.EqualFold(suffix, ext)
}

// Filter reports whether a child, by name, should be left out of a listing.
// A nil Filter keeps everything.
type Filter func(name string) bool

// Apply returns the entries the filter keeps, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	if f == nil {
		return entries
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !f(e.Name) {
			kept = append(kept, e)
		}
	}
	return kept
}
