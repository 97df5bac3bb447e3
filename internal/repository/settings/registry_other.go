//go:build !windows

package settings

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// Writer is a stub on platforms without a registry; the pipeline records
// the failure as a warning.
type Writer struct{}

// NewWriter creates the stub configuration writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Apply reports the platform as unsupported.
func (w *Writer) Apply(_ context.Context, _ deploy.ConfigurationSet, basePath string) error {
	return fmt.Errorf("apply configuration at %s on %s: %w",
		basePath, runtime.GOOS, deploy.ErrUnsupportedOS)
}
