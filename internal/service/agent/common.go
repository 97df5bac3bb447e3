package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/okarpov/fslogix-agent/internal/logger"
)

const (
	// MarkerFilename marks that an agent run is in progress to avoid
	// parallel execution on the same machine.
	MarkerFilename = "fslogix-agent-run-marker.bin"

	// baseAgentExecutable is the agent binary name without extension.
	baseAgentExecutable = "fslogix-agent"

	// markerLifetime is the period after which a stale run marker is ignored.
	markerLifetime = 30 * time.Minute
)

// markerPath anchors the run marker to the work directory so concurrent
// invocations see the same marker regardless of where they were launched.
func markerPath(workDirectory string) string {
	return filepath.Join(workDirectory, MarkerFilename)
}

// IsAgentRunningNow checks presence of a run marker in the work directory
// and attempts recovery if it looks stale.
func IsAgentRunningNow(ctx context.Context, workDirectory string) bool {
	logger.Info(ctx, "Checking for the presence of a run marker")

	marker := markerPath(workDirectory)

	fileInfo, err := os.Stat(marker)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The run marker is too old, attempting cleanup")

		if err = terminateProcessByName(agentExecutable()); err != nil {
			return true
		}

		if err = os.Remove(marker); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Run marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read run marker: %v", err)

	return false
}

// placeRunMarker creates the run marker in the work directory and returns
// a removal function.
func placeRunMarker(workDirectory string) (func(), error) {
	marker := markerPath(workDirectory)

	file, err := os.Create(marker)
	if err != nil {
		return nil, err
	}

	if err = file.Close(); err != nil {
		return nil, err
	}

	return func() {
		_ = os.Remove(marker)
	}, nil
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}

// agentExecutable returns the agent binary name for the current platform.
func agentExecutable() string {
	if runtime.GOOS == "windows" {
		return baseAgentExecutable + ".exe"
	}

	return baseAgentExecutable
}
