package deploy

// storageEndpointSuffix completes a storage account name into the FQDN of
// its file endpoint.
const storageEndpointSuffix = ".file.core.windows.net"

// ShareTarget identifies the network share holding the profile containers.
// Derived once from the input configuration, immutable afterwards.
type ShareTarget struct {
	// ServerFQDN is the fully qualified file endpoint of the storage account.
	ServerFQDN string
	// ShareName is the share hosted on that endpoint.
	ShareName string
	// ProfilePath is the UNC path joining the two.
	ProfilePath string
}

// NewShareTarget derives the share target from a storage account name and
// a share name.
func NewShareTarget(accountName, shareName string) ShareTarget {
	fqdn := accountName + storageEndpointSuffix

	return ShareTarget{
		ServerFQDN:  fqdn,
		ShareName:   shareName,
		ProfilePath: `\\` + fqdn + `\` + shareName,
	}
}

// Credential is a named network credential persisted for unattended access.
// The secret must never be logged and is held only long enough to hand to
// a CredentialStore.
type Credential struct {
	// TargetName is the server identity the credential is stored under.
	TargetName string
	// Principal is the user name presented to the target.
	Principal string
	// Secret is the credential value. Never log it.
	Secret string
}

// RemoteDistribution describes the latest published package, produced once
// per run by resolving the redirect endpoint.
type RemoteDistribution struct {
	// ResolvedURL is the concrete download location behind the redirect.
	ResolvedURL string
	// Version is the version encoded in the resolved filename.
	Version PackageVersion
	// EntryPath is the fixed archive path of the installer executable.
	EntryPath string
}
