// Package generator orchestrates single-file subtitle generation: input
// validation, model resolution through the model cache, and engine
// invocation, with a best-effort rename placing the artifact next to its
// source.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"subtitle/internal/fileutil"
	"subtitle/internal/logging"
	"subtitle/internal/models"
	"subtitle/internal/services"
	"subtitle/internal/transcriber"
)

// Generator coordinates the model cache and the recognition engine for one
// input file at a time.
type Generator struct {
	models *models.Manager
	engine transcriber.Transcriber
	logger *slog.Logger
}

// New constructs a generator. The model manager and engine are required.
func New(manager *models.Manager, engine transcriber.Transcriber, logger *slog.Logger) (*Generator, error) {
	if manager == nil || engine == nil {
		return nil, services.Wrap(services.ErrValidation, "generator", "new",
			"a model manager and a transcriber are required", nil)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Generator{models: manager, engine: engine, logger: logger}, nil
}

// Generate produces subtitles for inputPath. Pre-flight failures (missing
// input, model resolution) are returned as errors before the engine runs;
// an engine failure is reported through the result with a nil error so
// batch callers can record it per file.
func (g *Generator) Generate(ctx context.Context, inputPath, modelName, outputFormat, outputDir string) (transcriber.Result, error) {
	if !fileutil.FileExists(inputPath) {
		return transcriber.Result{}, services.Wrap(services.ErrNotFound, "generator", "generate",
			fmt.Sprintf("input file not found: %s", inputPath), nil)
	}

	modelPath, err := g.models.GetModel(ctx, modelName)
	if err != nil {
		return transcriber.Result{}, fmt.Errorf("resolve model %q: %w", modelName, err)
	}
	g.logger.Info("using model",
		logging.String("model", modelName),
		logging.String("path", modelPath),
	)

	result := g.engine.Transcribe(ctx, inputPath, modelPath, outputFormat, outputDir)
	if result.Success {
		g.logger.Info("subtitles generated",
			logging.String("input", inputPath),
			logging.String("output", result.OutputPath),
		)
	} else {
		g.logger.Error("transcription failed",
			logging.String("input", inputPath),
			logging.String("error", result.Error),
		)
	}
	return result, nil
}

// GenerateAndRename generates subtitles and then attempts to move the
// engine's output next to the input as {input_base}.{outputFormat}. The
// rename is best effort: on failure the engine-chosen path is kept and the
// result still reports success.
func (g *Generator) GenerateAndRename(ctx context.Context, inputPath, modelName, outputFormat, outputDir string) (transcriber.Result, error) {
	result, err := g.Generate(ctx, inputPath, modelName, outputFormat, outputDir)
	if err != nil || !result.Success {
		return result, err
	}

	target := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + outputFormat
	if result.OutputPath == target || !fileutil.FileExists(result.OutputPath) {
		return result, nil
	}
	if renameErr := fileutil.MoveFile(result.OutputPath, target); renameErr != nil {
		g.logger.Warn("failed to rename output, keeping engine path",
			logging.String("output", result.OutputPath),
			logging.Error(renameErr),
		)
		return result, nil
	}
	g.logger.Info("renamed output", logging.String("output", target))
	result.OutputPath = target
	return result, nil
}
