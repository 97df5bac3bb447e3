package settings

import (
	"context"
	"sync"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// MemoryWriter applies configuration sets to an in-memory container. It
// backs tests and dry runs with the same overwrite semantics as the
// registry writer.
type MemoryWriter struct {
	// mu protects containers.
	mu sync.Mutex
	// containers maps container path to its key/value state.
	containers map[string]map[string]deploy.Setting
}

// NewMemoryWriter creates an empty in-memory configuration writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		containers: make(map[string]map[string]deploy.Setting),
	}
}

// Apply writes every setting into the named container, creating it when
// absent and overwriting existing values.
func (w *MemoryWriter) Apply(_ context.Context, set deploy.ConfigurationSet, basePath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	container, ok := w.containers[basePath]
	if !ok {
		container = make(map[string]deploy.Setting, len(set))
		w.containers[basePath] = container
	}

	for _, setting := range set {
		container[setting.Key] = setting
	}

	return nil
}

// Container returns a copy of the named container's state.
func (w *MemoryWriter) Container(basePath string) map[string]deploy.Setting {
	w.mu.Lock()
	defer w.mu.Unlock()

	source, ok := w.containers[basePath]
	if !ok {
		return nil
	}

	out := make(map[string]deploy.Setting, len(source))
	for k, v := range source {
		out[k] = v
	}

	return out
}
