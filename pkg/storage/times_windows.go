//go:build windows

package storage

import (
	"os"
	"syscall"
	"time"
)

// statTimes returns the access time and the creation time
func statTimes(path string, info os.FileInfo) (time.Time, time.Time) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	return time.Unix(0, data.LastAccessTime.Nanoseconds()), time.Unix(0, data.CreationTime.Nanoseconds())
}
