package models

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"subtitle/internal/logging"
	"subtitle/internal/services"
)

const defaultDownloadTimeout = 30 * time.Minute

// Manager resolves model names against a local model directory.
type Manager struct {
	dir        string
	httpClient *http.Client
	logger     *slog.Logger
	retry      services.RetryPolicy

	defaultSource string
	tdrzSource    string
	progressOut   io.Writer

	ensureOnce sync.Once
	ensureErr  error
}

// Option customizes a Manager.
type Option func(*Manager)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithLogger attaches a logger for download reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRetryPolicy overrides the download retry policy.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(m *Manager) {
		m.retry = policy
	}
}

// WithSources overrides the download hosts (useful for tests).
func WithSources(defaultSource, tdrzSource string) Option {
	return func(m *Manager) {
		if defaultSource != "" {
			m.defaultSource = defaultSource
		}
		if tdrzSource != "" {
			m.tdrzSource = tdrzSource
		}
	}
}

// WithProgressOutput enables the byte-progress bar during downloads,
// rendering to the given writer.
func WithProgressOutput(out io.Writer) Option {
	return func(m *Manager) {
		m.progressOut = out
	}
}

// NewManager creates a manager rooted at dir. The directory is created
// lazily on first use.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:           dir,
		httpClient:    &http.Client{Timeout: defaultDownloadTimeout},
		logger:        logging.Nop(),
		retry:         services.DefaultRetryPolicy(),
		defaultSource: DefaultSource,
		tdrzSource:    TDRZSource,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.retry.Logger = m.logger
	return m
}

// Dir returns the model directory path.
func (m *Manager) Dir() string { return m.dir }

func (m *Manager) ensureDir() error {
	m.ensureOnce.Do(func() {
		m.ensureErr = os.MkdirAll(m.dir, 0o755)
	})
	return m.ensureErr
}

func (m *Manager) validate(name string) error {
	if InCatalog(name) {
		return nil
	}
	return services.Wrap(services.ErrModel, "models", "lookup",
		fmt.Sprintf("invalid model %q (available: %s)", name, strings.Join(Catalog, ", ")), nil)
}

// ModelPath returns the canonical local path for a model name.
func (m *Manager) ModelPath(name string) string {
	return filepath.Join(m.dir, FileName(name))
}

// ModelExists reports whether the model file is present locally.
func (m *Manager) ModelExists(name string) bool {
	info, err := os.Stat(m.ModelPath(name))
	return err == nil && info.Mode().IsRegular()
}

// GetModel returns the local path for a model, downloading it first when
// absent. The file is guaranteed to exist on a nil error.
func (m *Manager) GetModel(ctx context.Context, name string) (string, error) {
	if err := m.validate(name); err != nil {
		return "", err
	}
	if m.ModelExists(name) {
		return m.ModelPath(name), nil
	}
	m.logger.Info("model not found locally, downloading", logging.String("model", name))
	return m.DownloadModel(ctx, name, false)
}

// ListAvailable returns every model name in the catalog.
func (m *Manager) ListAvailable() []string {
	names := make([]string, len(Catalog))
	copy(names, Catalog)
	return names
}

// ListDownloaded returns the catalog models present in the model directory.
func (m *Manager) ListDownloaded() []string {
	var downloaded []string
	for _, name := range Catalog {
		if m.ModelExists(name) {
			downloaded = append(downloaded, name)
		}
	}
	sort.Strings(downloaded)
	return downloaded
}

// ModelSize returns the size of a downloaded model in bytes, or -1 when the
// model is not present.
func (m *Manager) ModelSize(name string) int64 {
	info, err := os.Stat(m.ModelPath(name))
	if err != nil {
		return -1
	}
	return info.Size()
}

// DeleteModel removes a downloaded model file. It reports whether a file
// was actually removed; deleting an absent model is not an error.
func (m *Manager) DeleteModel(name string) (bool, error) {
	path := m.ModelPath(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete model %q: %w", name, err)
	}
	m.logger.Info("deleted model", logging.String("model", name))
	return true, nil
}
