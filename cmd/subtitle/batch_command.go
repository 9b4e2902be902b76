package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subtitle/internal/batch"
	"subtitle/internal/fileutil"
	"subtitle/internal/generator"
	"subtitle/internal/history"
	"subtitle/internal/services"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var modelFlag string
	var formatFlag string
	var outputDirFlag string
	var workersFlag int
	var concurrentFlag bool
	var resumeFlag bool
	var extensionsFlag []string
	var threadsFlag int
	var processorsFlag int

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Generate subtitles for every video file in a directory",
		Long: `Generate subtitles for every video file in a directory.

The sequential pipeline (the default) persists resumable state after every
file and writes a markdown report next to the outputs. Pass --concurrent to
process files through a bounded worker pool instead; the concurrent pipeline
trades resumability for throughput.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input directory: %w", err)
			}

			model := ctx.resolveModel(modelFlag)
			format := strings.ToLower(strings.TrimSpace(formatFlag))
			if format == "" {
				format = cfg.Batch.OutputFormat
			}
			outputDir := strings.TrimSpace(outputDirFlag)
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			}
			extensions := extensionsFlag
			if len(extensions) == 0 {
				extensions = cfg.Batch.Extensions
			}
			workers := workersFlag
			if workers <= 0 {
				workers = cfg.Batch.Workers
			}

			gen, err := ctx.newGenerator(threadsFlag, processorsFlag)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			out := cmd.OutOrStdout()
			progress := func(filePath string, current, total int, status string) {
				fmt.Fprintf(out, "[%d/%d] %s: %s\n", current, total, filepath.Base(filePath), status)
			}

			var summary batch.Summary
			if concurrentFlag {
				summary, err = runConcurrentBatch(cmd, gen, store, inputDir, outputDir, model, format, extensions, workers, progress, logger)
			} else {
				var proc *batch.Processor
				proc, err = batch.NewProcessor(gen,
					batch.WithModel(model),
					batch.WithOutputFormat(format),
					batch.WithExtensions(extensions),
					batch.WithHistory(store),
					batch.WithLogger(logger),
				)
				if err == nil {
					summary, err = proc.ProcessBatch(cmd.Context(), inputDir, outputDir, resumeFlag, progress)
				}
			}
			if err != nil {
				// An error after file-level work started leaves completed
				// files tracked in the state snapshot, so a resumed run
				// skips them. Pre-flight failures have nothing to resume.
				if !concurrentFlag && !services.IsPreflight(err) {
					stateDir := outputDir
					if stateDir == "" {
						stateDir = inputDir
					}
					fmt.Fprintf(cmd.ErrOrStderr(),
						"completed files are tracked in %s; re-run to skip them\n",
						filepath.Join(stateDir, batch.StateFileName))
				}
				return err
			}

			printBatchSummary(out, summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", summary.Failed, summary.TotalFiles)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model name (default from config)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: vtt, srt, txt, json, or lrc")
	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Directory for generated subtitles (default: the input directory)")
	cmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Worker count for --concurrent")
	cmd.Flags().BoolVar(&concurrentFlag, "concurrent", false, "Process files through a worker pool")
	cmd.Flags().BoolVar(&resumeFlag, "resume", true, "Skip files recorded in a previous run's state")
	cmd.Flags().StringSliceVar(&extensionsFlag, "extensions", nil, "Video extensions to discover")
	cmd.Flags().IntVar(&threadsFlag, "threads", 0, "Engine thread count")
	cmd.Flags().IntVar(&processorsFlag, "processors", 0, "Engine processor count")

	return cmd
}

func runConcurrentBatch(cmd *cobra.Command, gen *generator.Generator, store *history.Store, inputDir, outputDir, model, format string, extensions []string, workers int, progress batch.ProgressFunc, logger *slog.Logger) (batch.Summary, error) {
	files, err := fileutil.ListWithExtensions(inputDir, extensions)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("discover video files: %w", err)
	}

	proc, err := batch.NewConcurrentProcessor(gen, workers, logger)
	if err != nil {
		return batch.Summary{}, err
	}
	defer proc.Shutdown()

	startedAt := time.Now().UTC().Format(time.RFC3339)
	summary := proc.ProcessMultiple(cmd.Context(), files, model, format, outputDir, progress)

	if store != nil {
		recordDir := outputDir
		if recordDir == "" {
			recordDir = inputDir
		}
		run := history.Run{
			InputDir:        inputDir,
			OutputDir:       recordDir,
			Model:           model,
			OutputFormat:    format,
			StartedAt:       startedAt,
			FinishedAt:      time.Now().UTC().Format(time.RFC3339),
			TotalFiles:      summary.TotalFiles,
			Successful:      summary.Successful,
			Failed:          summary.Failed,
			Skipped:         summary.Skipped,
			DurationSeconds: summary.TotalDurationSeconds,
		}
		records := make([]history.FileRecord, 0, len(summary.Results))
		for _, result := range summary.Results {
			records = append(records, history.FileRecord{
				FilePath:        result.FilePath,
				Success:         result.Success,
				OutputPath:      result.OutputPath,
				Error:           result.Error,
				DurationSeconds: result.DurationSeconds,
				Timestamp:       result.Timestamp,
			})
		}
		if _, recordErr := store.RecordRun(cmd.Context(), run, records); recordErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to record run history: %v\n", recordErr)
		}
	}

	return summary, nil
}

func printBatchSummary(out io.Writer, summary batch.Summary) {
	rows := [][]string{
		{"Total files", fmt.Sprintf("%d", summary.TotalFiles)},
		{"Successful", fmt.Sprintf("%d", summary.Successful)},
		{"Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Skipped", fmt.Sprintf("%d", summary.Skipped)},
		{"Duration", fmt.Sprintf("%.2fs", summary.TotalDurationSeconds)},
	}
	fmt.Fprintln(out, renderTable([]tableColumn{col("Metric"), numericCol("Value")}, rows))
}
