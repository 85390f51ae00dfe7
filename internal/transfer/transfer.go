// Package transfer moves files, copying and then deleting them when a
// rename would cross filesystems.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// Move renames src to dst. An existing dst is replaced, as rename does.
// When src and dst live on different filesystems it falls back to
// CopyAndDelete.
func Move(src, dst string) error {
	return move(os.Rename, src, dst)
}

func move(rename func(oldpath, newpath string) error, src, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EXDEV) {
		return CopyAndDelete(src, dst)
	}
	return err
}

// CopyAndDelete copies src to dst, keeping its permissions and modification
// time, then removes src. On failure dst is removed again and src is left
// in place.
func CopyAndDelete(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	// Keep the modification time, as a rename would.
	_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())

	if err := os.Remove(src); err != nil {
		// If we can't delete source, try to clean up destination
		os.Remove(dst)
		return err
	}

	return nil
}
