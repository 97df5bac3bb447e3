package credential

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
)

// cmdkeyExecutable is the built-in Windows credential manager CLI.
const cmdkeyExecutable = "cmdkey.exe"

// Store persists credentials through cmdkey. Persisting the same target
// again overwrites the prior entry, which makes the operation idempotent.
type Store struct{}

// NewStore creates the cmdkey-backed credential store.
func NewStore() *Store {
	return &Store{}
}

// Persist stores the credential under its target name. The secret is
// passed to the OS tool only and never appears in logs or errors.
func (s *Store) Persist(ctx context.Context, cred deploy.Credential) error {
	if !strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return fmt.Errorf("persist credential on %s: %w", runtime.GOOS, deploy.ErrUnsupportedOS)
	}

	logger.InfoKV(ctx, "Persisting network credential",
		"target", cred.TargetName, "user", cred.Principal)

	cmd := exec.CommandContext(ctx, cmdkeyExecutable, addArgs(cred)...)

	// Output is intentionally discarded: cmdkey echoes the command line.
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cmdkey add for %s: %v: %w",
			cred.TargetName, err, deploy.ErrCredentialPersist)
	}

	return nil
}

// addArgs builds the cmdkey argument vector. Kept separate so argument
// construction is testable without invoking the binary.
func addArgs(cred deploy.Credential) []string {
	return []string{
		"/add:" + cred.TargetName,
		"/user:" + cred.Principal,
		"/pass:" + cred.Secret,
	}
}
