package credential

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// TestAddArgs pins the cmdkey argument construction.
func TestAddArgs(t *testing.T) {
	t.Parallel()

	cred := deploy.Credential{
		TargetName: "contosoprofiles.file.core.windows.net",
		Principal:  `localhost\contosoprofiles`,
		Secret:     "s3cr3t",
	}

	require.Equal(t, []string{
		"/add:contosoprofiles.file.core.windows.net",
		`/user:localhost\contosoprofiles`,
		"/pass:s3cr3t",
	}, addArgs(cred))
}

// TestPersistUnsupportedPlatform verifies the store degrades cleanly
// where no credential manager exists.
func TestPersistUnsupportedPlatform(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("only meaningful off windows")
	}

	store := NewStore()

	err := store.Persist(context.Background(), deploy.Credential{TargetName: "srv"})
	require.ErrorIs(t, err, deploy.ErrUnsupportedOS)
}
