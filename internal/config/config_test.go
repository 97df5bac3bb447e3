package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing everything.
	cfg := new(Config)
	require.Error(t, Validate(cfg))

	// Missing key.
	cfg = &Config{
		AccountName: "contosoprofiles",
		ShareName:   "profiles",
		RedirectURL: DefaultRedirectURL,
	}
	require.Error(t, Validate(cfg))

	// Bad redirect URL.
	cfg = &Config{
		AccountName: "contosoprofiles",
		ShareName:   "profiles",
		AccountKey:  "s3cr3t",
		RedirectURL: "not a url",
	}
	require.Error(t, Validate(cfg))

	// Okay.
	cfg.RedirectURL = DefaultRedirectURL
	require.NoError(t, Validate(cfg))
}

// TestNormalizeStripsQuotes verifies defensive normalization of inputs
// arriving from the calling layer.
func TestNormalizeStripsQuotes(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AccountName: `"contosoprofiles"`,
		ShareName:   "'profiles'",
		AccountKey:  ` "s3cr3t" `,
	}

	Normalize(cfg)

	require.Equal(t, "contosoprofiles", cfg.AccountName)
	require.Equal(t, "profiles", cfg.ShareName)
	require.Equal(t, "s3cr3t", cfg.AccountKey)
}

// TestNormalizeFillsDefaults verifies that zero-valued policy fields pick
// up the documented defaults.
func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AccountName: "contosoprofiles",
		ShareName:   "profiles",
		AccountKey:  "s3cr3t",
	}

	Normalize(cfg)

	require.Equal(t, DefaultRedirectURL, cfg.RedirectURL)
	require.Equal(t, DefaultArchiveEntryPath, cfg.ArchiveEntryPath)
	require.Equal(t, DefaultProductDisplayName, cfg.ProductDisplayName)
	require.Equal(t, DefaultServiceName, cfg.ServiceName)
	require.Equal(t, DefaultProfilesKeyPath, cfg.ProfilesKeyPath)
	require.Equal(t, DefaultCredentialDomain, cfg.CredentialDomain)
	require.Equal(t, DefaultShareSizeMB, cfg.ShareSizeMB)
	require.Equal(t, []int{0}, cfg.AcceptedExitCodes)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.NotEmpty(t, cfg.WorkDirectory)

	// Policy overrides survive normalization.
	cfg.ShareSizeMB = 40000
	cfg.AcceptedExitCodes = []int{0, 3010}
	Normalize(cfg)
	require.Equal(t, uint32(40000), cfg.ShareSizeMB)
	require.Equal(t, []int{0, 3010}, cfg.AcceptedExitCodes)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back,
// and that the account key never reaches the file.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := Default()
	cfg.AccountName = "contosoprofiles"
	cfg.ShareName = "profiles"
	cfg.AccountKey = "s3cr3t"
	cfg.ShareSizeMB = 40000
	cfg.Timeout = 42 * time.Second

	require.NoError(t, Save(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "s3cr3t")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.AccountName, loaded.AccountName)
	require.Equal(t, cfg.ShareSizeMB, loaded.ShareSizeMB)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
	require.Empty(t, loaded.AccountKey)
}

// TestLoadMissingFileUsesDefaults keeps the agent usable with flags only.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	loaded, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultRedirectURL, loaded.RedirectURL)
	require.Equal(t, DefaultServiceName, loaded.ServiceName)
}
