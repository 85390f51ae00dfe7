//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package meta

import (
	"os"
	"time"
)

func creationTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
