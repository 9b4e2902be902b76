package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"subtitle/internal/fileutil"
	"subtitle/internal/generator"
	"subtitle/internal/history"
	"subtitle/internal/logging"
	"subtitle/internal/services"
)

// Fixed artifact names inside the output directory.
const (
	StateFileName  = ".batch_state.json"
	ReportFileName = "batch_report.md"
)

// DefaultExtensions are the video extensions discovered by default.
var DefaultExtensions = []string{"mp4", "mkv", "avi", "mov", "webm", "m4v", "flv", "wmv"}

// Processor runs a directory of files through subtitle generation one file
// at a time. The external engine does not tolerate concurrent invocations
// of itself against shared scratch state, so no intra-batch parallelism is
// attempted here; ConcurrentProcessor covers the parallel case.
type Processor struct {
	gen          *generator.Generator
	model        string
	outputFormat string
	extensions   []string
	history      *history.Store
	logger       *slog.Logger
}

// ProcessorOption customizes a Processor.
type ProcessorOption func(*Processor)

// WithModel sets the model used for every file (default "base").
func WithModel(model string) ProcessorOption {
	return func(p *Processor) {
		if model != "" {
			p.model = model
		}
	}
}

// WithOutputFormat sets the subtitle format (default "vtt").
func WithOutputFormat(format string) ProcessorOption {
	return func(p *Processor) {
		if format != "" {
			p.outputFormat = format
		}
	}
}

// WithExtensions overrides the discovered file extensions.
func WithExtensions(extensions []string) ProcessorOption {
	return func(p *Processor) {
		if len(extensions) > 0 {
			p.extensions = extensions
		}
	}
}

// WithHistory attaches a history store that records completed runs.
func WithHistory(store *history.Store) ProcessorOption {
	return func(p *Processor) {
		p.history = store
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor constructs a sequential batch processor.
func NewProcessor(gen *generator.Generator, opts ...ProcessorOption) (*Processor, error) {
	if gen == nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "new", "a generator is required", nil)
	}
	p := &Processor{
		gen:          gen,
		model:        "base",
		outputFormat: "vtt",
		extensions:   DefaultExtensions,
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// FindVideoFiles lists the files in dir matching the configured extensions,
// non-recursively, sorted lexicographically.
func (p *Processor) FindVideoFiles(dir string) ([]string, error) {
	return fileutil.ListWithExtensions(dir, p.extensions)
}

// ProcessBatch discovers files in inputDir and processes each one,
// persisting resumable state after every file and writing a markdown
// report at the end. An empty outputDir defaults to inputDir. With resume
// set, files recorded in a prior state snapshot are skipped, including
// previously failed ones.
func (p *Processor) ProcessBatch(ctx context.Context, inputDir, outputDir string, resume bool, progress ProgressFunc) (Summary, error) {
	if !fileutil.DirExists(inputDir) {
		return Summary{}, services.Wrap(services.ErrValidation, "batch", "process",
			fmt.Sprintf("input directory does not exist: %s", inputDir), nil)
	}
	if outputDir == "" {
		outputDir = inputDir
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "batch", "process", "ensure output directory", err)
	}

	files, err := p.FindVideoFiles(inputDir)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "batch", "discover", inputDir, err)
	}
	if len(files) == 0 {
		p.logger.Warn("no video files found", logging.String("dir", inputDir))
		return Summary{}, nil
	}

	statePath := filepath.Join(outputDir, StateFileName)
	state := p.loadOrInitState(statePath, inputDir, outputDir, resume)

	var toProcess []string
	for _, file := range files {
		if !state.Attempted(file) {
			toProcess = append(toProcess, file)
		}
	}
	skipped := len(files) - len(toProcess)
	if skipped > 0 {
		p.logger.Info("resuming batch",
			logging.Int("skipped", skipped),
			logging.Int("remaining", len(toProcess)),
		)
	}

	start := time.Now()
	var results []FileResult
	total := len(toProcess)
	for idx, file := range toProcess {
		if progress != nil {
			progress(file, idx+1, total, "processing")
		}

		result := processFile(ctx, p.gen, file, p.model, p.outputFormat, outputDir, p.logger)
		results = append(results, result)

		if result.Success {
			state.MarkProcessed(file)
		} else {
			state.MarkFailed(file)
		}
		state.Results = append(state.Results, result)
		if err := state.Save(statePath); err != nil {
			return Summary{}, services.Wrap(services.ErrBatch, "batch", "persist state", statePath, err)
		}

		if progress != nil {
			status := "complete"
			if !result.Success {
				status = "failed: " + result.Error
			}
			progress(file, idx+1, total, status)
		}
	}

	summary := summarize(results, len(files), skipped, time.Since(start))

	reportPath := filepath.Join(outputDir, ReportFileName)
	if err := os.WriteFile(reportPath, []byte(summary.Report()), 0o644); err != nil {
		return Summary{}, services.Wrap(services.ErrBatch, "batch", "write report", reportPath, err)
	}
	p.logger.Info("batch report saved", logging.String("path", reportPath))

	// A clean pass leaves no resume artifact.
	if summary.Failed == 0 {
		if err := os.Remove(statePath); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("failed to remove state file", logging.Error(err))
		}
	}

	p.recordHistory(ctx, inputDir, outputDir, state.StartedAt, summary)

	return summary, nil
}

func (p *Processor) loadOrInitState(statePath, inputDir, outputDir string, resume bool) *State {
	if resume {
		state, err := LoadState(statePath)
		if err != nil {
			p.logger.Warn("failed to load batch state, starting fresh", logging.Error(err))
		} else if state != nil {
			p.logger.Info("loaded batch state",
				logging.Int("processed", len(state.ProcessedFiles)),
				logging.Int("failed", len(state.FailedFiles)),
			)
			return state
		}
	}
	return NewState(inputDir, outputDir, p.model, p.outputFormat)
}

func (p *Processor) recordHistory(ctx context.Context, inputDir, outputDir, startedAt string, summary Summary) {
	if p.history == nil {
		return
	}
	run := history.Run{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		Model:           p.model,
		OutputFormat:    p.outputFormat,
		StartedAt:       startedAt,
		FinishedAt:      time.Now().UTC().Format(time.RFC3339),
		TotalFiles:      summary.TotalFiles,
		Successful:      summary.Successful,
		Failed:          summary.Failed,
		Skipped:         summary.Skipped,
		DurationSeconds: summary.TotalDurationSeconds,
	}
	files := make([]history.FileRecord, 0, len(summary.Results))
	for _, result := range summary.Results {
		files = append(files, history.FileRecord{
			FilePath:        result.FilePath,
			Success:         result.Success,
			OutputPath:      result.OutputPath,
			Error:           result.Error,
			DurationSeconds: result.DurationSeconds,
			Timestamp:       result.Timestamp,
		})
	}
	if _, err := p.history.RecordRun(ctx, run, files); err != nil {
		p.logger.Warn("failed to record batch history", logging.Error(err))
	}
}
