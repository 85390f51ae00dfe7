//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package meta

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the inode change time, the closest thing to a
// creation timestamp that every supported unix exposes.
func creationTime(path string, info os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec)
}
