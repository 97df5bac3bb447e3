//go:build windows

package settings

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
)

// Writer applies configuration sets under HKLM.
type Writer struct{}

// NewWriter creates the registry-backed configuration writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Apply ensures the container key exists (creating intermediate segments)
// and writes every setting, overwriting existing values. A failed key is
// recorded and the remaining keys are still written; the aggregate error
// names every failed key.
func (w *Writer) Apply(ctx context.Context, set deploy.ConfigurationSet, basePath string) error {
	key, _, err := registry.CreateKey(registry.LOCAL_MACHINE, basePath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create configuration container %s: %w", basePath, err)
	}

	defer func() {
		_ = key.Close()
	}()

	var failures []error

	for _, setting := range set {
		if err := writeSetting(key, setting); err != nil {
			failures = append(failures, &deploy.SettingWriteError{Key: setting.Key, Err: err})
			continue
		}

		logger.DebugKV(ctx, "Wrote configuration key", "container", basePath, "key", setting.Key)
	}

	return errors.Join(failures...)
}

// writeSetting maps the typed setting onto a registry value. Booleans are
// stored as DWORD 0/1 per product convention.
func writeSetting(key registry.Key, setting deploy.Setting) error {
	switch setting.Kind {
	case deploy.SettingString:
		return key.SetStringValue(setting.Key, setting.Str)
	case deploy.SettingNumber:
		return key.SetDWordValue(setting.Key, setting.Num)
	case deploy.SettingBool:
		var v uint32
		if setting.Flag {
			v = 1
		}

		return key.SetDWordValue(setting.Key, v)
	default:
		return fmt.Errorf("unknown setting kind %d", setting.Kind)
	}
}
