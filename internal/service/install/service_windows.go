//go:build windows

package install

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
)

// serviceStopTimeout bounds the wait for the service to reach Stopped.
const serviceStopTimeout = 30 * time.Second

// statusPollInterval is the pause between service status queries.
const statusPollInterval = time.Second

// ServiceManager restarts services through the Windows service control
// manager.
type ServiceManager struct{}

// NewServiceManager creates the Windows service controller.
func NewServiceManager() *ServiceManager {
	return &ServiceManager{}
}

// RestartManagedService forces a stop/start cycle of the named service.
// A missing service is reported as ErrServiceNotFound so the caller can
// treat it as a warning (installation may have failed silently).
func (s *ServiceManager) RestartManagedService(ctx context.Context, serviceName string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect service manager: %v: %w", err, deploy.ErrServiceControl)
	}

	defer func() {
		_ = m.Disconnect()
	}()

	service, err := m.OpenService(serviceName)
	if err != nil {
		return fmt.Errorf("%s: %w", serviceName, deploy.ErrServiceNotFound)
	}

	defer func() {
		_ = service.Close()
	}()

	status, err := service.Query()
	if err != nil {
		return fmt.Errorf("query %s: %v: %w", serviceName, err, deploy.ErrServiceControl)
	}

	if status.State != svc.Stopped {
		if status, err = service.Control(svc.Stop); err != nil {
			return fmt.Errorf("stop %s: %v: %w", serviceName, err, deploy.ErrServiceControl)
		}

		deadline := time.Now().Add(serviceStopTimeout)

		for status.State != svc.Stopped {
			if time.Now().After(deadline) {
				return fmt.Errorf("timed out waiting for %s to stop: %w",
					serviceName, deploy.ErrServiceControl)
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("wait for %s to stop: %v: %w",
					serviceName, ctx.Err(), deploy.ErrServiceControl)
			case <-time.After(statusPollInterval):
			}

			if status, err = service.Query(); err != nil {
				return fmt.Errorf("query %s: %v: %w", serviceName, err, deploy.ErrServiceControl)
			}
		}
	}

	if err = service.Start(); err != nil {
		return fmt.Errorf("start %s: %v: %w", serviceName, err, deploy.ErrServiceControl)
	}

	logger.InfoKV(ctx, "Service restarted", "service", serviceName)

	return nil
}
