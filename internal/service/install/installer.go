package install

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
)

// DefaultArgs returns the fixed unattended, no-reboot installer flags.
func DefaultArgs() []string {
	return []string{"/install", "/quiet", "/norestart"}
}

// Runner launches an installer executable, waits for it synchronously
// and interprets the exit code against an allow-list.
type Runner struct {
	// accepted is the set of exit codes treated as success.
	accepted map[int]struct{}
}

// NewRunner creates a runner accepting the provided exit codes. An empty
// list defaults to {0}.
func NewRunner(acceptedCodes []int) *Runner {
	if len(acceptedCodes) == 0 {
		acceptedCodes = []int{0}
	}

	accepted := make(map[int]struct{}, len(acceptedCodes))
	for _, code := range acceptedCodes {
		accepted[code] = struct{}{}
	}

	return &Runner{accepted: accepted}
}

// RunSilent launches installerPath with the provided flags, waits for
// process exit and returns the exit code. Codes outside the allow-list
// are reported as an InstallFailedError. The wait itself is unbounded;
// cancellation is delegated to the context.
func (r *Runner) RunSilent(ctx context.Context, installerPath string, args []string) (int, error) {
	logger.InfoKV(ctx, "Running installer",
		"path", installerPath, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, installerPath, args...)

	code := 0

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return -1, fmt.Errorf("start installer: %w", err)
		}

		code = exitErr.ExitCode()
	}

	if _, ok := r.accepted[code]; !ok {
		return code, &deploy.InstallFailedError{Code: code}
	}

	logger.InfoKV(ctx, "Installer finished", "exit_code", code)

	return code, nil
}
