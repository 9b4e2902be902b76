package config

import (
	"subtitle/internal/batch"
	"subtitle/internal/transcriber"
)

const (
	defaultModelsDir    = "~/.local/share/subtitle/models"
	defaultStateDir     = "~/.local/share/subtitle/state"
	defaultHistoryPath  = "~/.local/share/subtitle/history.db"
	defaultModel        = "base"
	defaultOutputFormat = "vtt"
	defaultBatchWorkers = 4
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelsDir: defaultModelsDir,
			StateDir:  defaultStateDir,
		},
		Engine: Engine{
			Binary:     transcriber.DefaultBinaryPath,
			Model:      defaultModel,
			Threads:    transcriber.DefaultThreads,
			Processors: transcriber.DefaultProcessors,
		},
		Media: Media{
			FFmpegBinary:      "ffmpeg",
			OverwriteExisting: true,
		},
		Batch: Batch{
			Extensions:   append([]string(nil), batch.DefaultExtensions...),
			Workers:      defaultBatchWorkers,
			OutputFormat: defaultOutputFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
