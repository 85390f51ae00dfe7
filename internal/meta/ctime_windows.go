//go:build windows

package meta

import (
	"os"
	"syscall"
	"time"
)

func creationTime(_ string, info os.FileInfo) time.Time {
	if attrs, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, attrs.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
