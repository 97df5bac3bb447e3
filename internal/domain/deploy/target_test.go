package deploy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewShareTarget verifies FQDN and UNC path derivation.
func TestNewShareTarget(t *testing.T) {
	t.Parallel()

	target := NewShareTarget("contosoprofiles", "profiles")
	require.Equal(t, "contosoprofiles.file.core.windows.net", target.ServerFQDN)
	require.Equal(t, "profiles", target.ShareName)
	require.Equal(t, `\\contosoprofiles.file.core.windows.net\profiles`, target.ProfilePath)
}

// TestProfileSettings verifies the fixed configuration set: keys, order
// and the hoisted size default.
func TestProfileSettings(t *testing.T) {
	t.Parallel()

	set := ProfileSettings(`\\srv\share`, 30000)

	keys := make([]string, 0, len(set))
	for _, s := range set {
		keys = append(keys, s.Key)
	}

	require.Equal(t, []string{
		"Enabled",
		"VHDLocations",
		"AccessNetworkAsComputerObject",
		"DeleteLocalProfileWhenVHDShouldApply",
		"FlipFlopProfileDirectoryName",
		"VolumeType",
		"SizeInMBs",
	}, keys)

	require.Equal(t, SettingString, set[1].Kind)
	require.Equal(t, `\\srv\share`, set[1].Str)
	require.Equal(t, SettingNumber, set[6].Kind)
	require.Equal(t, uint32(30000), set[6].Num)
	require.Equal(t, SettingBool, set[0].Kind)
	require.True(t, set[0].Flag)

	// Building the set twice yields identical state.
	require.Equal(t, set, ProfileSettings(`\\srv\share`, 30000))
}
