package deploy

import "context"

// Fake implementations of the ports, used by pipeline and CLI tests.

// FakeVersionProbe returns a canned local version.
type FakeVersionProbe struct {
	Version PackageVersion
	Called  int
}

// CurrentVersion implements VersionProbe.
func (f *FakeVersionProbe) CurrentVersion(_ context.Context, _ string) PackageVersion {
	f.Called++
	return f.Version
}

// FakeResolver returns a canned distribution or error.
type FakeResolver struct {
	Dist   RemoteDistribution
	Err    error
	Called int
}

// Resolve implements ReleaseResolver.
func (f *FakeResolver) Resolve(_ context.Context, _ string) (RemoteDistribution, error) {
	f.Called++
	if f.Err != nil {
		return RemoteDistribution{}, f.Err
	}

	return f.Dist, nil
}

// FakeFetcher returns a canned archive path or error.
type FakeFetcher struct {
	Path   string
	Err    error
	Called int
}

// Fetch implements PackageFetcher.
func (f *FakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.Called++
	if f.Err != nil {
		return "", f.Err
	}

	return f.Path, nil
}

// FakeExtractor returns a canned extracted path or error.
type FakeExtractor struct {
	Path   string
	Err    error
	Called int
}

// ExtractEntry implements ArchiveExtractor.
func (f *FakeExtractor) ExtractEntry(_, _ string) (string, error) {
	f.Called++
	if f.Err != nil {
		return "", f.Err
	}

	return f.Path, nil
}

// FakeInstaller returns a canned exit code or error.
type FakeInstaller struct {
	Code   int
	Err    error
	Called int
}

// RunSilent implements Installer.
func (f *FakeInstaller) RunSilent(_ context.Context, _ string, _ []string) (int, error) {
	f.Called++
	return f.Code, f.Err
}

// FakeCredentialStore records persisted credentials.
type FakeCredentialStore struct {
	Persisted []Credential
	Err       error
}

// Persist implements CredentialStore.
func (f *FakeCredentialStore) Persist(_ context.Context, cred Credential) error {
	if f.Err != nil {
		return f.Err
	}

	f.Persisted = append(f.Persisted, cred)

	return nil
}

// FakeConnectivityProbe reports canned reachability.
type FakeConnectivityProbe struct {
	Reachable bool
	Called    int
}

// Check implements ConnectivityProbe.
func (f *FakeConnectivityProbe) Check(_ context.Context, _ string, _ int) bool {
	f.Called++
	return f.Reachable
}

// FakeConfigurationWriter records applied configuration sets.
type FakeConfigurationWriter struct {
	Applied []ConfigurationSet
	Paths   []string
	Err     error
}

// Apply implements ConfigurationWriter.
func (f *FakeConfigurationWriter) Apply(_ context.Context, set ConfigurationSet, basePath string) error {
	f.Applied = append(f.Applied, set)
	f.Paths = append(f.Paths, basePath)

	return f.Err
}

// FakeServiceController records restarted services.
type FakeServiceController struct {
	Restarted []string
	Err       error
}

// RestartManagedService implements ServiceController.
func (f *FakeServiceController) RestartManagedService(_ context.Context, serviceName string) error {
	if f.Err != nil {
		return f.Err
	}

	f.Restarted = append(f.Restarted, serviceName)

	return nil
}
