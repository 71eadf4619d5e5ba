package models

import (
	"time"
)

// Report represents the results of one run
type Report struct {
	// Run details
	ID         string
	SourcePath string
	TargetPath string
	Mode       Mode
	Direction  Direction

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Comparison is the partition the actions were computed from
	Comparison *ComparisonResult

	// Absolute paths of every mutated entry
	Changed []string
	Added   []string
	Deleted []string

	// Errors encountered
	Errors []SyncError

	// Overall status
	Status SyncStatus
}

// Statistics holds the run counters
type Statistics struct {
	DirsScanned  int
	FilesCopied  int
	FilesUpdated int
	FilesPurged  int
	DirsPurged   int
	DirsCreated  int

	// Failures
	CopyFailed      int
	DirCreateFailed int
	UpdateFailed    int
	DirPurgeFailed  int
	FilePurgeFailed int
}

// Failures returns the sum of all failure counters
func (s Statistics) Failures() int {
	return s.CopyFailed + s.DirCreateFailed + s.UpdateFailed + s.DirPurgeFailed + s.FilePurgeFailed
}

// Action names the operation a SyncError belongs to
type Action string

const (
	ActionCopy   Action = "copy"
	ActionMkdir  Action = "mkdir"
	ActionUpdate Action = "update"
	ActionPurge  Action = "purge"
)

// SyncStatus represents the overall result
type SyncStatus string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess SyncStatus = "success"
	// StatusPartial indicates some operations failed
	StatusPartial SyncStatus = "partial"
)

// SyncError represents an error during a run
type SyncError struct {
	FilePath  string
	Operation Action
	Error     string
	Timestamp time.Time
}

// Mutated returns every changed, added and deleted path
func (r *Report) Mutated() []string {
	out := make([]string, 0, len(r.Changed)+len(r.Added)+len(r.Deleted))
	out = append(out, r.Changed...)
	out = append(out, r.Added...)
	out = append(out, r.Deleted...)
	return out
}

// Finish stamps the end time and derives the status
func (r *Report) Finish(end time.Time) {
	r.EndTime = end
	r.Duration = end.Sub(r.StartTime)
	if r.Stats.Failures() > 0 {
		r.Status = StatusPartial
	} else {
		r.Status = StatusSuccess
	}
}

// ExitCode returns the appropriate exit code for the sync status
func (s SyncStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	default:
		return 2
	}
}
