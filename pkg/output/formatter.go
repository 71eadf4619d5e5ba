package output

import (
	"io"

	"github.com/sdejongh/dirsync/pkg/models"
)

// Progress update types
const (
	UpdateActionComplete = "action_complete"
	UpdateActionError    = "action_error"
	UpdateEntryDone      = "entry_done"
)

// ProgressUpdate represents a progress notification during a run
type ProgressUpdate struct {
	Type     string // UpdateActionComplete, UpdateActionError or UpdateEntryDone
	Action   models.Action
	FilePath string
	Current  int
	Total    int
	Error    error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start is called once the trees are compared and the number of
	// entries to process is known
	Start(totalActions int) error

	// Progress reports each action and each processed entry
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the report
	Complete(report *models.Report) error

	// Error reports a fatal error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "progress":
		return NewProgressFormatter(NewHumanFormatter(w), w), nil
	}
	return nil, &models.ValidationError{Field: "Output", Message: "unknown output format '" + name + "' (valid: human, json, progress)"}
}
