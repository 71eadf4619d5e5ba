package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dirsync/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer io.Writer
	errors []string
}

// JSONReportData represents the final report data
type JSONReportData struct {
	ID          string               `json:"id"`
	Status      string               `json:"status"`
	Mode        string               `json:"mode"`
	Direction   string               `json:"direction"`
	Source      string               `json:"source"`
	Target      string               `json:"target"`
	StartTime   string               `json:"start_time"`
	Duration    string               `json:"duration"`
	DurationMs  int64                `json:"duration_ms"`
	Stats       JSONStatsData        `json:"stats"`
	Changed     []string             `json:"changed"`
	Added       []string             `json:"added"`
	Deleted     []string             `json:"deleted"`
	Differences *JSONDifferencesData `json:"differences,omitempty"`
	Errors      []JSONErrorData      `json:"errors,omitempty"`
	Fatal       []string             `json:"fatal,omitempty"`
}

// JSONStatsData represents the run counters in JSON format
type JSONStatsData struct {
	DirsScanned     int `json:"dirs_scanned"`
	FilesCopied     int `json:"files_copied"`
	FilesUpdated    int `json:"files_updated"`
	FilesPurged     int `json:"files_purged"`
	DirsPurged      int `json:"dirs_purged"`
	DirsCreated     int `json:"dirs_created"`
	CopyFailed      int `json:"copy_failed"`
	DirCreateFailed int `json:"dir_create_failed"`
	UpdateFailed    int `json:"update_failed"`
	DirPurgeFailed  int `json:"dir_purge_failed"`
	FilePurgeFailed int `json:"file_purge_failed"`
}

// JSONDifferencesData represents the three-way partition of the trees
type JSONDifferencesData struct {
	SourceOnly []string `json:"source_only"`
	TargetOnly []string `json:"target_only"`
	Common     []string `json:"common"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path      string `json:"path"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// NewJSONFormatter creates a new JSON formatter writing to w (stdout if nil)
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONFormatter{writer: w}
}

// Start does nothing
func (f *JSONFormatter) Start(totalActions int) error {
	return nil
}

// Progress doesn't output events in real-time to keep the output parseable
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete encodes the report as a single JSON document
func (f *JSONFormatter) Complete(report *models.Report) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.build(report))
}

func (f *JSONFormatter) build(report *models.Report) JSONReportData {
	s := report.Stats
	data := JSONReportData{
		ID:         report.ID,
		Status:     string(report.Status),
		Mode:       string(report.Mode),
		Direction:  string(report.Direction),
		Source:     report.SourcePath,
		Target:     report.TargetPath,
		StartTime:  report.StartTime.Format(time.RFC3339),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			DirsScanned:     s.DirsScanned,
			FilesCopied:     s.FilesCopied,
			FilesUpdated:    s.FilesUpdated,
			FilesPurged:     s.FilesPurged,
			DirsPurged:      s.DirsPurged,
			DirsCreated:     s.DirsCreated,
			CopyFailed:      s.CopyFailed,
			DirCreateFailed: s.DirCreateFailed,
			UpdateFailed:    s.UpdateFailed,
			DirPurgeFailed:  s.DirPurgeFailed,
			FilePurgeFailed: s.FilePurgeFailed,
		},
		Changed: nonNil(report.Changed),
		Added:   nonNil(report.Added),
		Deleted: nonNil(report.Deleted),
		Fatal:   f.errors,
	}

	if report.Comparison != nil {
		data.Differences = differencesData(report.Comparison)
	}

	for _, err := range report.Errors {
		data.Errors = append(data.Errors, JSONErrorData{
			Path:      err.FilePath,
			Operation: string(err.Operation),
			Error:     err.Error,
			Timestamp: err.Timestamp.Format(time.RFC3339),
		})
	}

	return data
}

// Error records an error; it is emitted with the report
func (f *JSONFormatter) Error(err error) error {
	f.errors = append(f.errors, err.Error())
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func differencesData(cmp *models.ComparisonResult) *JSONDifferencesData {
	return &JSONDifferencesData{
		SourceOnly: cmp.LeftOnly.Sorted(),
		TargetOnly: cmp.RightOnly.Sorted(),
		Common:     cmp.Common.Sorted(),
	}
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}
