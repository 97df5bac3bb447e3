package agent

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunMarkerGuardsWorkDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	require.False(t, IsAgentRunningNow(ctx, dir))

	removeMarker, err := placeRunMarker(dir)
	require.NoError(t, err)

	// The marker is seen from any process using the same work directory,
	// independent of that process's own working directory.
	require.True(t, IsAgentRunningNow(ctx, dir))

	// A different work directory is a different guard.
	require.False(t, IsAgentRunningNow(ctx, t.TempDir()))

	removeMarker()
	require.False(t, IsAgentRunningNow(ctx, dir))
}

func TestRunMarkerStaleRecovery(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	_, err := placeRunMarker(dir)
	require.NoError(t, err)

	// Age the marker past its lifetime; the guard reclaims it.
	stale := time.Now().Add(-markerLifetime - time.Minute)
	require.NoError(t, os.Chtimes(markerPath(dir), stale, stale))

	require.False(t, IsAgentRunningNow(ctx, dir))

	_, err = os.Stat(markerPath(dir))
	require.ErrorIs(t, err, os.ErrNotExist)
}
