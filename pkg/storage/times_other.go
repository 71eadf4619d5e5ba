//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package storage

import (
	"os"
	"time"
)

// statTimes falls back to the modification time where no other timestamps
// are available
func statTimes(path string, info os.FileInfo) (time.Time, time.Time) {
	return info.ModTime(), info.ModTime()
}
