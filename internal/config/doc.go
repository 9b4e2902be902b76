// Package config loads, normalizes, and validates the TOML configuration
// shared by the subtitle CLI commands. Defaults cover every setting so the
// tool runs without a config file present.
package config
