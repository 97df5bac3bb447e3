package release

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
	"github.com/okarpov/fslogix-agent/internal/version"
)

const (
	// downloadPattern names the temporary archive file.
	downloadPattern = "fslogix-download-*.zip"

	// dialTimeout bounds connection establishment. The body transfer is
	// bounded by the retry budget deadline in Fetch, not a client
	// timeout, because the archive is large.
	dialTimeout = 10 * time.Second

	// retryInitialInterval and retryMaxInterval shape the backoff between
	// download attempts.
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 10 * time.Second
)

// Fetcher streams the distribution archive to the work directory,
// retrying transient network failures.
type Fetcher struct {
	// hc is the HTTP client used for download attempts.
	hc *http.Client
	// dir receives the downloaded archive.
	dir string
	// maxElapsed caps the total time spent retrying.
	maxElapsed time.Duration
}

// NewFetcher creates a fetcher writing into dir. maxElapsed bounds the
// whole retry loop; zero keeps the backoff library default.
func NewFetcher(dir string, maxElapsed time.Duration) *Fetcher {
	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: dialTimeout}).DialContext,
		TLSHandshakeTimeout: dialTimeout,
	}

	return &Fetcher{
		hc:         &http.Client{Transport: transport},
		dir:        dir,
		maxElapsed: maxElapsed,
	}
}

// Fetch downloads url into the work directory and returns the local
// archive path. Transient failures (network errors, 5xx) are retried
// with exponential backoff; 4xx terminates immediately. The whole loop,
// body transfers included, is bounded by the retry budget: a server
// that stalls mid-body cancels the request instead of hanging the run.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.maxElapsed > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, f.maxElapsed)
		defer cancel()
	}

	var archivePath string

	op := func() error {
		path, err := f.fetchOnce(ctx, url)
		if err != nil {
			return err
		}

		archivePath = path

		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.MaxInterval = retryMaxInterval

	if f.maxElapsed > 0 {
		bo.MaxElapsedTime = f.maxElapsed
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("%v: %w", err, deploy.ErrDownload)
	}

	return archivePath, nil
}

// fetchOnce performs a single download attempt. A partial file is always
// removed before reporting failure.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := f.hc.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("download %s: %s", url, resp.Status)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return "", backoff.Permanent(fmt.Errorf("download %s: %s", url, resp.Status))
	}

	out, err := os.CreateTemp(f.dir, downloadPattern)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create archive file: %w", err))
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())

		return "", fmt.Errorf("stream archive body: %w", err)
	}

	if err = out.Close(); err != nil {
		_ = os.Remove(out.Name())

		return "", fmt.Errorf("close archive file: %w", err)
	}

	logger.InfoKV(ctx, "Downloaded archive", "path", out.Name(), "bytes", written)

	return out.Name(), nil
}
