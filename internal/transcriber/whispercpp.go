package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"subtitle/internal/logging"
)

// Defaults for the whisper.cpp engine invocation.
const (
	DefaultBinaryPath = "./binary/whisper-cli"
	DefaultThreads    = 4
	DefaultProcessors = 1
	DefaultFormat     = "vtt"
)

// formatFlags maps output formats to the engine's output flags.
var formatFlags = map[string]string{
	"vtt":  "-ovtt",
	"srt":  "-osrt",
	"txt":  "-otxt",
	"json": "-oj",
	"lrc":  "-olrc",
}

// WhisperCpp invokes the whisper-cli binary.
type WhisperCpp struct {
	binaryPath string
	threads    int
	processors int
	logger     *slog.Logger
}

// WhisperCppOption customizes engine invocation parameters.
type WhisperCppOption func(*WhisperCpp)

// WithBinaryPath overrides the whisper-cli binary location.
func WithBinaryPath(path string) WhisperCppOption {
	return func(w *WhisperCpp) {
		if path != "" {
			w.binaryPath = path
		}
	}
}

// WithThreads sets the engine thread count.
func WithThreads(threads int) WhisperCppOption {
	return func(w *WhisperCpp) {
		if threads > 0 {
			w.threads = threads
		}
	}
}

// WithProcessors sets the engine processor count.
func WithProcessors(processors int) WhisperCppOption {
	return func(w *WhisperCpp) {
		if processors > 0 {
			w.processors = processors
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) WhisperCppOption {
	return func(w *WhisperCpp) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWhisperCpp creates a whisper.cpp transcriber with the given options.
func NewWhisperCpp(opts ...WhisperCppOption) *WhisperCpp {
	w := &WhisperCpp{
		binaryPath: DefaultBinaryPath,
		threads:    DefaultThreads,
		processors: DefaultProcessors,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SupportedFormats lists the output formats whisper-cli can emit.
func (w *WhisperCpp) SupportedFormats() []string {
	return []string{"vtt", "srt", "txt", "json", "lrc"}
}

// Transcribe runs whisper-cli for one input file. An unrecognized output
// format silently falls back to vtt, matching the engine flag table.
func (w *WhisperCpp) Transcribe(ctx context.Context, inputPath, modelPath, outputFormat, outputDir string) Result {
	requestID := uuid.NewString()

	outputFlag, ok := formatFlags[outputFormat]
	actualFormat := outputFormat
	if !ok {
		outputFlag = formatFlags[DefaultFormat]
		actualFormat = DefaultFormat
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{
			RequestID: requestID,
			InputPath: inputPath,
			Format:    actualFormat,
			Success:   false,
			Error:     fmt.Sprintf("ensure output directory: %v", err),
		}
	}

	// The engine appends the format extension to the base path itself.
	outputBase := filepath.Join(outputDir, requestID)
	args := []string{
		"-t", fmt.Sprintf("%d", w.threads),
		"-p", fmt.Sprintf("%d", w.processors),
		"-m", modelPath,
		"-vi",
		"-f", inputPath,
		outputFlag,
		"-of", outputBase,
	}

	w.logger.Info("running transcription",
		logging.String("request_id", requestID),
		logging.String("input", inputPath),
		logging.String("format", actualFormat),
	)

	cmd := exec.CommandContext(ctx, w.binaryPath, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		diagnostic := strings.TrimSpace(string(output))
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		w.logger.Error("transcription failed",
			logging.String("request_id", requestID),
			logging.String("error", diagnostic),
		)
		return Result{
			RequestID: requestID,
			InputPath: inputPath,
			Format:    actualFormat,
			Success:   false,
			Error:     diagnostic,
		}
	}

	w.logger.Debug("transcription output",
		logging.String("request_id", requestID),
		logging.String("output", strings.TrimSpace(string(output))),
	)

	return Result{
		RequestID:  requestID,
		InputPath:  inputPath,
		OutputPath: outputBase + "." + actualFormat,
		Format:     actualFormat,
		Success:    true,
	}
}
