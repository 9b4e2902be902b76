package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subtitle/internal/config"
	"subtitle/internal/generator"
	"subtitle/internal/history"
	"subtitle/internal/logging"
	"subtitle/internal/models"
	"subtitle/internal/transcriber"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = strings.TrimSpace(*c.logLevelFlag)
		}
		format := cfg.Logging.Format
		if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
			format = strings.TrimSpace(*c.logFormatFlag)
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  level,
			Format: format,
			Output: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

// modelManager builds a manager against the configured model directory. The
// download progress bar renders only when attached to a terminal.
func (c *commandContext) modelManager() (*models.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := []models.Option{models.WithLogger(logger)}
	if isTerminal(os.Stderr) {
		opts = append(opts, models.WithProgressOutput(os.Stderr))
	}
	return models.NewManager(cfg.Paths.ModelsDir, opts...), nil
}

func (c *commandContext) engine(threads, processors int) (*transcriber.WhisperCpp, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	if threads <= 0 {
		threads = cfg.Engine.Threads
	}
	if processors <= 0 {
		processors = cfg.Engine.Processors
	}
	return transcriber.NewWhisperCpp(
		transcriber.WithBinaryPath(cfg.Engine.Binary),
		transcriber.WithThreads(threads),
		transcriber.WithProcessors(processors),
		transcriber.WithLogger(logger),
	), nil
}

func (c *commandContext) newGenerator(threads, processors int) (*generator.Generator, error) {
	manager, err := c.modelManager()
	if err != nil {
		return nil, err
	}
	engine, err := c.engine(threads, processors)
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return generator.New(manager, engine, logger)
}

// historyStore opens the run history database when enabled. A nil store
// with a nil error means history is turned off.
func (c *commandContext) historyStore() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}

// resolveModel applies the flag-over-config precedence for the model name.
func (c *commandContext) resolveModel(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return strings.TrimSpace(flagValue)
	}
	if c.config != nil {
		return c.config.Engine.Model
	}
	return "base"
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
