package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"tidy/internal/transfer"
)

// MoveErrorType represents the type of move error.
type MoveErrorType string

const (
	// SourceNotFound indicates the source file does not exist.
	SourceNotFound MoveErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied MoveErrorType = "PERMISSION_DENIED"
	// TargetNotDirectory indicates the destination folder path is taken by a non-directory.
	TargetNotDirectory MoveErrorType = "TARGET_NOT_DIRECTORY"
	// TransferFailed covers every other rename, copy or removal failure.
	TransferFailed MoveErrorType = "TRANSFER_FAILED"
)

// MoveError represents an error that occurred while moving or deleting one file.
type MoveError struct {
	Type MoveErrorType
	Path string
	Err  error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func wrapFileError(path string, err error) *MoveError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &MoveError{Type: SourceNotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &MoveError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &MoveError{Type: TransferFailed, Path: path, Err: err}
	}
}

// moveFile moves src to dst, across filesystems when needed, and types
// the failure.
func moveFile(src, dst string) error {
	if err := transfer.Move(src, dst); err != nil {
		return wrapFileError(src, err)
	}
	return nil
}

// ensureFolder creates dir if it is missing. An existing directory is fine;
// an existing non-directory is reported as TargetNotDirectory.
func ensureFolder(dir string) error {
	err := os.Mkdir(dir, 0755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(dir)
		if statErr == nil && info.IsDir() {
			return nil
		}
		return &MoveError{Type: TargetNotDirectory, Path: dir, Err: err}
	}
	return wrapFileError(dir, err)
}

// removeFile permanently deletes path.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil {
		return wrapFileError(path, err)
	}
	return nil
}
