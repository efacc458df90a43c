package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/rift-edge/internal/provider"
)

// Downloader fetches the latest stats CSV into the local directory.
// The engine keeps reading from the local dir either way, so a failed
// download degrades to the previously downloaded file.
type Downloader struct {
	url     string
	destDir string
	timeout time.Duration
	client  *provider.RateLimitedHTTPClient
	logger  *logrus.Logger
}

// NewDownloader creates a stats downloader
func NewDownloader(url, destDir string, timeout time.Duration, client *provider.RateLimitedHTTPClient, logger *logrus.Logger) *Downloader {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Downloader{
		url:     url,
		destDir: destDir,
		timeout: timeout,
		client:  client,
		logger:  logger,
	}
}

// Download fetches the CSV and writes it atomically into the destination dir
func (d *Downloader) Download(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.Get(ctx, d.url)
	if err != nil {
		return fmt.Errorf("failed to download stats: %w", err)
	}
	defer provider.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(d.destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	// Write to a temp file first so a partial download never shadows a good CSV
	tmp, err := os.CreateTemp(d.destDir, "download-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil || closeErr != nil {
		os.Remove(tmpPath)
		if err == nil {
			err = closeErr
		}
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	dest := filepath.Join(d.destDir, fmt.Sprintf("%s.csv", time.Now().UTC().Format("2006-01-02")))
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move stats file into place: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"url":   d.url,
		"dest":  dest,
		"bytes": written,
	}).Info("Stats CSV downloaded")

	return nil
}
