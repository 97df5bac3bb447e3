package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// TestApplyIsIdempotent verifies that applying the same configuration set
// twice to an empty container yields the same state as applying it once.
func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	basePath := `SOFTWARE\FSLogix\Profiles`
	set := deploy.ProfileSettings(`\\srv\profiles`, 30000)

	once := NewMemoryWriter()
	require.NoError(t, once.Apply(ctx, set, basePath))

	twice := NewMemoryWriter()
	require.NoError(t, twice.Apply(ctx, set, basePath))
	require.NoError(t, twice.Apply(ctx, set, basePath))

	require.Equal(t, once.Container(basePath), twice.Container(basePath))
}

// TestApplyOverwrites verifies existing values are replaced, not merged.
func TestApplyOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	basePath := `SOFTWARE\FSLogix\Profiles`

	writer := NewMemoryWriter()
	require.NoError(t, writer.Apply(ctx, deploy.ProfileSettings(`\\old\share`, 30000), basePath))
	require.NoError(t, writer.Apply(ctx, deploy.ProfileSettings(`\\new\share`, 40000), basePath))

	state := writer.Container(basePath)
	require.Equal(t, `\\new\share`, state["VHDLocations"].Str)
	require.Equal(t, uint32(40000), state["SizeInMBs"].Num)
}
