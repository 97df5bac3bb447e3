package deploy

// InstallDecision is the outcome of comparing the locally installed
// version against the latest remote version.
type InstallDecision int

const (
	// SkipUpToDate means the local installation is current (or newer).
	SkipUpToDate InstallDecision = iota
	// InstallMissing means no local installation was found.
	InstallMissing
	// UpgradeAvailable means a newer remote version supersedes the local one.
	UpgradeAvailable
)

// String returns a short human-readable decision name for logs.
func (d InstallDecision) String() string {
	switch d {
	case SkipUpToDate:
		return "skip-up-to-date"
	case InstallMissing:
		return "install-missing"
	case UpgradeAvailable:
		return "upgrade-available"
	default:
		return "unknown"
	}
}

// NeedsInstall reports whether the decision requires running the installer.
func (d InstallDecision) NeedsInstall() bool {
	return d != SkipUpToDate
}

// Decide derives the install decision from the local and remote versions.
// Pure function: remote strictly greater than local requires an install,
// anything else is a skip. A zero local version distinguishes a fresh
// install from an upgrade.
func Decide(local, remote PackageVersion) InstallDecision {
	if remote.Compare(local) <= 0 {
		return SkipUpToDate
	}

	if local.IsZero() {
		return InstallMissing
	}

	return UpgradeAvailable
}
