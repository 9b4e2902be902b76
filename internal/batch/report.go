package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Report renders the fixed markdown report layout: a statistics table
// followed by a per-file table.
func (s Summary) Report() string {
	lines := []string{
		"# Batch Processing Summary",
		"",
		fmt.Sprintf("**Date:** %s", time.Now().Format("2006-01-02 15:04:05")),
		"",
		"## Statistics",
		"",
		"| Metric | Value |",
		"|--------|-------|",
		fmt.Sprintf("| Total Files | %d |", s.TotalFiles),
		fmt.Sprintf("| Successful | %d |", s.Successful),
		fmt.Sprintf("| Failed | %d |", s.Failed),
		fmt.Sprintf("| Skipped | %d |", s.Skipped),
		fmt.Sprintf("| Total Duration | %.2fs |", s.TotalDurationSeconds),
		"",
	}

	if len(s.Results) > 0 {
		lines = append(lines,
			"## Processed Files",
			"",
			"| File | Status | Duration | Output |",
			"|------|--------|----------|--------|",
		)
		for _, result := range s.Results {
			status := "✅ Success"
			if !result.Success {
				reason := result.Error
				if reason == "" {
					reason = "Failed"
				}
				status = "❌ " + reason
			}
			output := "-"
			if result.OutputPath != "" {
				output = filepath.Base(result.OutputPath)
			}
			lines = append(lines, fmt.Sprintf("| %s | %s | %.2fs | %s |",
				filepath.Base(result.FilePath), status, result.DurationSeconds, output))
		}
	}

	return strings.Join(lines, "\n")
}
