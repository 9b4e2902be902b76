package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"

	"subtitle/internal/logging"
	"subtitle/internal/services"
)

// DownloadModel fetches a model into the model directory and returns its
// path. An existing file short-circuits unless force is set.
//
// A per-model file lock serializes concurrent downloads of the same model
// across processes; the loser of the race finds the winner's file after
// acquiring the lock and returns it without downloading again.
func (m *Manager) DownloadModel(ctx context.Context, name string, force bool) (string, error) {
	if err := m.validate(name); err != nil {
		return "", err
	}
	path := m.ModelPath(name)
	if !force && m.ModelExists(name) {
		return path, nil
	}
	if err := m.ensureDir(); err != nil {
		return "", services.Wrap(services.ErrModel, "models", "download", "ensure model directory", err)
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return "", services.Wrap(services.ErrModel, "models", "download", "acquire download lock", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if !force && m.ModelExists(name) {
		_ = os.Remove(lockPath)
		return path, nil
	}

	source := sourceFor(name, m.defaultSource, m.tdrzSource)
	url := fmt.Sprintf("%s/resolve/main/%s", source, FileName(name))
	m.logger.Info("downloading model",
		logging.String("model", name),
		logging.String("url", url),
	)

	err := services.Retry(ctx, m.retry, func() error {
		return m.downloadFile(ctx, url, path)
	})
	if err != nil {
		return "", services.Wrap(services.ErrDownload, "models", "download", name, err)
	}

	// The lock only guards an in-flight transfer. Removing it while still
	// held is safe: any late acquirer finds the finished model and returns
	// before downloading. On a failed download it stays put so a fresh
	// lock file can never race an in-flight one.
	_ = os.Remove(lockPath)

	m.logger.Info("model downloaded",
		logging.String("model", name),
		logging.Int64("bytes", m.ModelSize(name)),
	)
	return path, nil
}

// downloadFile streams url to a temporary file beside dest and renames it
// into place on success, so a failed transfer never leaves a partial file
// at the canonical path.
func (m *Manager) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	partial := dest + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return err
	}

	var writer io.Writer = out
	if m.progressOut != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(m.progressOut),
			progressbar.OptionSetDescription(filepath.Base(dest)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		writer = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(partial)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(partial)
		return err
	}
	return os.Rename(partial, dest)
}
