//go:build !windows

package install

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// ServiceManager is a stub on platforms without a service control
// manager; the pipeline records the failure as a warning.
type ServiceManager struct{}

// NewServiceManager creates the stub service controller.
func NewServiceManager() *ServiceManager {
	return &ServiceManager{}
}

// RestartManagedService reports the platform as unsupported.
func (s *ServiceManager) RestartManagedService(_ context.Context, serviceName string) error {
	return fmt.Errorf("restart %s on %s: %w", serviceName, runtime.GOOS, deploy.ErrUnsupportedOS)
}
