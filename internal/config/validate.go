package config

import (
	"errors"
	"fmt"
	"strings"

	"subtitle/internal/models"
	"subtitle/internal/transcriber"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEngine() error {
	if strings.TrimSpace(c.Engine.Binary) == "" {
		return errors.New("engine.binary must be set")
	}
	if !models.InCatalog(c.Engine.Model) {
		return fmt.Errorf("engine.model %q is not a known model (see 'subtitle models list')", c.Engine.Model)
	}
	if c.Engine.Threads <= 0 {
		return errors.New("engine.threads must be positive")
	}
	if c.Engine.Processors <= 0 {
		return errors.New("engine.processors must be positive")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if len(c.Batch.Extensions) == 0 {
		return errors.New("batch.extensions must include at least one extension")
	}
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be positive")
	}
	supported := transcriber.NewWhisperCpp().SupportedFormats()
	for _, format := range supported {
		if c.Batch.OutputFormat == format {
			return nil
		}
	}
	return fmt.Errorf("batch.output_format must be one of %s", strings.Join(supported, ", "))
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
