package deploy

import "context"

// VersionProbe reads the locally installed version of a product.
// Absence of data is meaningful (not installed), so the probe never
// fails: lookup problems degrade to the zero version.
type VersionProbe interface {
	CurrentVersion(ctx context.Context, productDisplayName string) PackageVersion
}

// ReleaseResolver resolves the latest published package version and its
// concrete download location from a stable redirect endpoint.
type ReleaseResolver interface {
	Resolve(ctx context.Context, redirectURL string) (RemoteDistribution, error)
}

// PackageFetcher downloads the distribution archive and returns the local
// path of the downloaded file.
type PackageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ArchiveExtractor extracts one named entry from an archive to a fixed
// destination, overwriting any previous copy, and returns the extracted
// path.
type ArchiveExtractor interface {
	ExtractEntry(archivePath, entryName string) (string, error)
}

// Installer runs the extracted installer non-interactively and interprets
// its exit status against an allow-list of accepted codes.
type Installer interface {
	RunSilent(ctx context.Context, installerPath string, args []string) (int, error)
}

// CredentialStore persists a named network credential for later
// unattended use. Persisting the same target again overwrites the prior
// entry.
type CredentialStore interface {
	Persist(ctx context.Context, cred Credential) error
}

// ConnectivityProbe checks TCP reachability of a host/port with a bounded
// timeout. It reports, never fails.
type ConnectivityProbe interface {
	Check(ctx context.Context, host string, port int) bool
}

// ConfigurationWriter applies a configuration set under the given
// container path, creating missing segments. Writes are best-effort per
// key; failures are aggregated into the returned error.
type ConfigurationWriter interface {
	Apply(ctx context.Context, set ConfigurationSet, basePath string) error
}

// ServiceController restarts the package's background service. Returns
// ErrServiceNotFound (wrapped) when the service is not installed.
type ServiceController interface {
	RestartManagedService(ctx context.Context, serviceName string) error
}
