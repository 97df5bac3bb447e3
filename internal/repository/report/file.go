package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/okarpov/fslogix-agent/internal/config"
	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// Repository defines persistence operations for run reports.
type Repository interface {
	Load(ctx context.Context) (*deploy.RunReport, error)
	Save(ctx context.Context, report *deploy.RunReport) error
}

// ErrNotFound is returned when no report has been written yet.
var ErrNotFound = errors.New("report not found")

// FileRepository persists the run report to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the report file.
	path string
	// mu protects concurrent access to the report file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the
// provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the last persisted report from disk.
func (r *FileRepository) Load(_ context.Context) (*deploy.RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read report file: %w", err)
	}

	var report deploy.RunReport
	if err = json.Unmarshal(contents, &report); err != nil {
		return nil, fmt.Errorf("decode report file: %w", err)
	}

	return &report, nil
}

// Save writes the report to disk, replacing the previous run's report.
func (r *FileRepository) Save(_ context.Context, report *deploy.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	return nil
}
