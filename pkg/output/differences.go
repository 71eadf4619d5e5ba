package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dirsync/pkg/models"
)

// WriteDifferencesReport writes the comparison of a run to a file.
// Format can be "human" or "json". Nothing is written when both trees hold
// the same set of paths.
func WriteDifferencesReport(report *models.Report, path string, format string) error {
	cmp := report.Comparison
	if cmp == nil || (len(cmp.LeftOnly) == 0 && len(cmp.RightOnly) == 0) {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create differences file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writeDifferencesJSON(report, file)
	default: // "human"
		return writeDifferencesHuman(report, file)
	}
}

// writeDifferencesHuman writes differences in human-readable format
func writeDifferencesHuman(report *models.Report, w io.Writer) error {
	fmt.Fprintf(w, "Differences Report\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Run: %s\n", report.ID)
	fmt.Fprintf(w, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(w, "Target: %s\n", report.TargetPath)
	fmt.Fprintf(w, "Mode: %s\n", report.Mode)
	fmt.Fprintf(w, "Direction: %s\n\n", report.Direction)

	cmp := report.Comparison
	fmt.Fprintf(w, "Source only: %d, target only: %d, common: %d\n\n",
		len(cmp.LeftOnly), len(cmp.RightOnly), len(cmp.Common))

	WriteListing(w, report)
	return nil
}

// writeDifferencesJSON writes differences in JSON format
func writeDifferencesJSON(report *models.Report, w io.Writer) error {
	output := struct {
		Generated   string               `json:"generated"`
		ID          string               `json:"id"`
		SourcePath  string               `json:"source_path"`
		TargetPath  string               `json:"target_path"`
		Mode        string               `json:"mode"`
		Direction   string               `json:"direction"`
		Differences *JSONDifferencesData `json:"differences"`
	}{
		Generated:   time.Now().Format(time.RFC3339),
		ID:          report.ID,
		SourcePath:  report.SourcePath,
		TargetPath:  report.TargetPath,
		Mode:        string(report.Mode),
		Direction:   string(report.Direction),
		Differences: differencesData(report.Comparison),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
