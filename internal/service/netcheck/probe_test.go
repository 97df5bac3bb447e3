package netcheck

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCheckReachable verifies a listening endpoint is reported reachable.
func TestCheckReachable(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer func() {
		_ = listener.Close()
	}()

	addr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)

	probe := NewProbe(2 * time.Second)
	require.True(t, probe.Check(context.Background(), "127.0.0.1", addr.Port))
}

// TestCheckUnreachable verifies a closed port is reported unreachable
// without returning an error.
func TestCheckUnreachable(t *testing.T) {
	t.Parallel()

	// Reserve a port and close it so nothing listens there.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	require.NoError(t, listener.Close())

	probe := NewProbe(500 * time.Millisecond)
	require.False(t, probe.Check(context.Background(), "127.0.0.1", addr.Port))
}
