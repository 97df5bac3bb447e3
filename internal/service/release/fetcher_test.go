package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// TestFetchRetriesTransientFailure verifies a transient 5xx is retried
// and the body ends up on disk.
func TestFetchRetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 30*time.Second)

	path, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.GreaterOrEqual(t, calls.Load(), int32(2))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "archive-bytes", string(contents))
}

// TestFetchPermanentFailure verifies 4xx terminates without retries.
func TestFetchPermanentFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 30*time.Second)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, deploy.ErrDownload)
	require.Equal(t, int32(1), calls.Load())
}

// TestFetchStalledTransferHitsRetryBudget verifies that a server which
// answers but then stalls mid-body cannot hold Fetch past the retry
// budget.
func TestFetchStalledTransferHitsRetryBudget(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1048576")
		_, _ = w.Write([]byte("partial"))
		w.(http.Flusher).Flush()

		// Hold the connection open until the client gives up.
		<-r.Context().Done()
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 1*time.Second)

	start := time.Now()

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, deploy.ErrDownload)
	require.Less(t, time.Since(start), 5*time.Second)

	// The partial download never survives.
	entries, err := os.ReadDir(fetcher.dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestFetchExhaustedRetries verifies a persistent failure eventually
// reports a download error.
func TestFetchExhaustedRetries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 2*time.Second)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, deploy.ErrDownload)
}
