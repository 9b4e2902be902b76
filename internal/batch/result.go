package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"subtitle/internal/fileutil"
	"subtitle/internal/generator"
	"subtitle/internal/logging"
)

// FileResult records the outcome of processing a single file. It is
// immutable after creation.
type FileResult struct {
	FilePath        string  `json:"file_path"`
	Success         bool    `json:"success"`
	OutputPath      string  `json:"output_path,omitempty"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// Summary aggregates a whole pipeline run.
type Summary struct {
	TotalFiles           int
	Successful           int
	Failed               int
	Skipped              int
	TotalDurationSeconds float64
	Results              []FileResult
}

// ProgressFunc receives per-file pipeline events: "processing" before a
// file's result is awaited, then "complete" or "failed: <reason>".
type ProgressFunc func(filePath string, current, total int, status string)

// processFile runs the full per-file step shared by both pipelines:
// generate, then best-effort rename of the engine output to
// {outputDir}/{basename}.{format}.
func processFile(ctx context.Context, gen *generator.Generator, filePath, model, format, outputDir string, logger *slog.Logger) FileResult {
	start := time.Now()

	result, err := gen.Generate(ctx, filePath, model, format, outputDir)
	duration := time.Since(start).Seconds()
	timestamp := time.Now().UTC().Format(time.RFC3339)

	if err != nil {
		return FileResult{
			FilePath:        filePath,
			Success:         false,
			Error:           err.Error(),
			DurationSeconds: duration,
			Timestamp:       timestamp,
		}
	}
	if !result.Success {
		errText := result.Error
		if errText == "" {
			errText = "transcription failed"
		}
		return FileResult{
			FilePath:        filePath,
			Success:         false,
			Error:           errText,
			DurationSeconds: duration,
			Timestamp:       timestamp,
		}
	}

	outputPath := result.OutputPath
	final := filepath.Join(outputDir, fileutil.Stem(filePath)+"."+format)
	if outputPath != final && fileutil.FileExists(outputPath) {
		if moveErr := fileutil.MoveFile(outputPath, final); moveErr != nil {
			logger.Warn("failed to rename batch output, keeping engine path",
				logging.String("output", outputPath),
				logging.Error(moveErr),
			)
		} else {
			outputPath = final
		}
	}

	return FileResult{
		FilePath:        filePath,
		Success:         true,
		OutputPath:      outputPath,
		DurationSeconds: duration,
		Timestamp:       timestamp,
	}
}

func summarize(results []FileResult, total, skipped int, elapsed time.Duration) Summary {
	successful := 0
	failed := 0
	for _, result := range results {
		if result.Success {
			successful++
		} else {
			failed++
		}
	}
	return Summary{
		TotalFiles:           total,
		Successful:           successful,
		Failed:               failed,
		Skipped:              skipped,
		TotalDurationSeconds: elapsed.Seconds(),
		Results:              results,
	}
}
