//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package storage

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// statTimes returns the access time and the inode change time
func statTimes(path string, info os.FileInfo) (time.Time, time.Time) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return info.ModTime(), info.ModTime()
	}
	return time.Unix(st.Atim.Unix()), time.Unix(st.Ctim.Unix())
}
