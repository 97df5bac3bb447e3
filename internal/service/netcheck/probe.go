package netcheck

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/okarpov/fslogix-agent/internal/logger"
)

// Probe checks TCP reachability of a host and port. It reports, never fails.
type Probe struct {
	// timeout bounds a single connection attempt.
	timeout time.Duration
}

// defaultProbeTimeout is used when no timeout is configured.
const defaultProbeTimeout = 5 * time.Second

// NewProbe creates a probe with the provided attempt timeout.
func NewProbe(timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	return &Probe{timeout: timeout}
}

// Check attempts one TCP connection within the configured timeout and
// reports whether the remote endpoint answered.
func (p *Probe) Check(ctx context.Context, host string, port int) bool {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		logger.WarnKV(ctx, "Endpoint is not reachable", "address", address, "error", err)
		return false
	}

	_ = conn.Close()

	return true
}
