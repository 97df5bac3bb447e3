package integration

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okarpov/fslogix-agent/internal/config"
	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/repository/report"
	"github.com/okarpov/fslogix-agent/internal/repository/settings"
	"github.com/okarpov/fslogix-agent/internal/service/agent"
	"github.com/okarpov/fslogix-agent/internal/service/release"
)

const installerEntry = "x64/Release/FSLogixAppsSetup.exe"

// buildReleaseArchive produces a distribution zip with the installer entry
// and some sibling entries the extractor must ignore.
func buildReleaseArchive(t *testing.T, installerContents []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	for name, contents := range map[string][]byte{
		installerEntry:                       installerContents,
		"x64/Release/FSLogixAppsSetup.msi":   []byte("msi payload"),
		"Win32/Release/FSLogixAppsSetup.exe": []byte("wrong arch"),
	} {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write(contents)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buf.Bytes()
}

// startReleaseServer serves a stable redirect endpoint pointing at a
// versioned archive, the way a vendor download channel does.
func startReleaseServer(t *testing.T, version string, archive []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	var server *httptest.Server

	mux.HandleFunc("/fslogix_download", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/media/FSLogix_Apps_"+version+".zip", http.StatusFound)
	})

	mux.HandleFunc("/media/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/zip")

		_, err := w.Write(archive)
		require.NoError(t, err)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

// TestAgent_Run_InstallsAndConfigures drives the full pipeline against a
// real redirect chain and archive, with only the machine-mutating ports
// faked out.
//
//nolint:funlen // Integration test requires comprehensive setup and verification.
func TestAgent_Run_InstallsAndConfigures(t *testing.T) {
	dir := t.TempDir()

	const remoteVersion = "2.9.8440.42104"

	installerContents := []byte("installer payload")
	archive := buildReleaseArchive(t, installerContents)
	server := startReleaseServer(t, remoteVersion, archive)

	cfg := config.Default()
	cfg.AccountName = "contosoprofiles"
	cfg.ShareName = "profiles"
	cfg.AccountKey = "integration-test-key"
	cfg.RedirectURL = server.URL + "/fslogix_download"
	cfg.WorkDirectory = dir
	cfg.ReportFile = filepath.Join(dir, "report.json")
	cfg.PostInstallSettle = 0
	cfg.PreConfigureSettle = 0
	config.Normalize(cfg)
	require.NoError(t, config.Validate(cfg))

	memory := settings.NewMemoryWriter()
	credentials := &deploy.FakeCredentialStore{}
	services := &deploy.FakeServiceController{}
	installer := &deploy.FakeInstaller{Code: 0}

	components := agent.Components{
		Probe:        &deploy.FakeVersionProbe{Version: deploy.MustVersion(remoteVersion)},
		Resolver:     release.NewResolver(5 * time.Second),
		Fetcher:      release.NewFetcher(dir, 30*time.Second),
		Extractor:    release.NewExtractor(dir),
		Installer:    installer,
		Credentials:  credentials,
		Connectivity: &deploy.FakeConnectivityProbe{Reachable: true},
		Settings:     memory,
		Services:     services,
	}

	// The probe already reports the remote version, so the first run must
	// skip the install but still converge the configuration.
	runReport, err := agent.NewPipeline(cfg, components).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, deploy.RunDone, runReport.Status)
	require.Equal(t, remoteVersion, runReport.RemoteVersion)
	require.Zero(t, installer.Called)

	// Credential was persisted for the derived share endpoint.
	require.Len(t, credentials.Persisted, 1)
	require.Equal(t, "contosoprofiles.file.core.windows.net", credentials.Persisted[0].TargetName)
	require.Equal(t, `localhost\contosoprofiles`, credentials.Persisted[0].Principal)
	require.Equal(t, "integration-test-key", credentials.Persisted[0].Secret)

	// Configuration landed under the profiles container.
	container := memory.Container(cfg.ProfilesKeyPath)
	require.Equal(t,
		`\\contosoprofiles.file.core.windows.net\profiles`,
		container["VHDLocations"].Str)
	require.Equal(t, "VHDX", container["VolumeType"].Str)
	require.True(t, container["Enabled"].Flag)
	require.Equal(t, cfg.ShareSizeMB, container["SizeInMBs"].Num)

	// Service was restarted.
	require.Equal(t, []string{cfg.ServiceName}, services.Restarted)

	// Save and reload the report through the repository.
	repo := report.NewFileRepository(cfg.ReportFile)
	require.NoError(t, repo.Save(context.Background(), runReport))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, runReport.Status, loaded.Status)
	require.Len(t, loaded.Outcomes, len(runReport.Outcomes))

	// The report never contains the account key.
	raw, err := os.ReadFile(cfg.ReportFile)
	require.NoError(t, err)
	require.NotContains(t, string(raw), cfg.AccountKey)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal(raw, &decoded))
}

// TestAgent_Run_UpgradePath exercises the full install branch: resolve,
// fetch, extract, run installer, verify and clean up.
func TestAgent_Run_UpgradePath(t *testing.T) {
	dir := t.TempDir()

	const remoteVersion = "2.9.8440.42104"

	installerContents := []byte("installer payload v2")
	archive := buildReleaseArchive(t, installerContents)
	server := startReleaseServer(t, remoteVersion, archive)

	cfg := config.Default()
	cfg.AccountName = "contosoprofiles"
	cfg.ShareName = "profiles"
	cfg.AccountKey = "integration-test-key"
	cfg.RedirectURL = server.URL + "/fslogix_download"
	cfg.WorkDirectory = dir
	cfg.ReportFile = filepath.Join(dir, "report.json")
	cfg.PostInstallSettle = 0
	cfg.PreConfigureSettle = 0
	config.Normalize(cfg)

	installer := &deploy.FakeInstaller{Code: 0}

	// An outdated machine: force the install branch.
	components := agent.Components{
		Probe:        &deploy.FakeVersionProbe{Version: deploy.ParseVersion("2.9.8000.0")},
		Resolver:     release.NewResolver(5 * time.Second),
		Fetcher:      release.NewFetcher(dir, 30*time.Second),
		Extractor:    release.NewExtractor(dir),
		Installer:    installer,
		Credentials:  &deploy.FakeCredentialStore{},
		Connectivity: &deploy.FakeConnectivityProbe{Reachable: true},
		Settings:     settings.NewMemoryWriter(),
		Services:     &deploy.FakeServiceController{},
	}

	runReport, err := agent.NewPipeline(cfg, components).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, installer.Called)

	// The extracted installer is the real archive entry, byte for byte.
	extracted := filepath.Join(dir, "FSLogixAppsSetup.exe")
	contents, err := os.ReadFile(extracted)
	require.NoError(t, err)
	require.Equal(t, installerContents, contents)

	// The transient archive is gone, the installer is kept.
	matches, err := filepath.Glob(filepath.Join(dir, "*.zip"))
	require.NoError(t, err)
	require.Empty(t, matches)

	// The probe kept reporting the old version, so verification warns.
	require.Equal(t, deploy.RunDoneWithWarnings, runReport.Status)
	require.Equal(t, "upgrade-available", runReport.Decision)
}
