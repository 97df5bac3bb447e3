//go:build !windows

package product

import (
	"context"
	"runtime"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
)

// Probe is a stub on platforms without an installed-products registry.
type Probe struct{}

// NewProbe creates the stub version probe.
func NewProbe() *Probe {
	return &Probe{}
}

// CurrentVersion always reports "not installed" and logs why.
func (p *Probe) CurrentVersion(ctx context.Context, productDisplayName string) deploy.PackageVersion {
	logger.WarnKV(ctx, "No installed-products registry on this platform",
		"product", productDisplayName, "os", runtime.GOOS)

	return deploy.PackageVersion{}
}
