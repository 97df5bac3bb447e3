package deploy

import (
	"errors"
	"fmt"
)

// Sentinel errors of the pipeline taxonomy. Components wrap these with
// %w so the orchestrator can classify failures with errors.Is.
var (
	// ErrResolution means the redirect endpoint could not be resolved to
	// a versioned download location.
	ErrResolution = errors.New("release resolution failed")
	// ErrDownload means the package download failed after exhausting retries.
	ErrDownload = errors.New("package download failed")
	// ErrArchiveEntryNotFound means the expected installer entry is
	// absent from the archive. Upstream can silently change the internal
	// layout, so this is a contract break and always fatal.
	ErrArchiveEntryNotFound = errors.New("archive entry not found")
	// ErrArchiveCorrupt means the archive could not be opened at all.
	ErrArchiveCorrupt = errors.New("archive corrupt")
	// ErrCredentialPersist means the credential manager rejected the entry.
	ErrCredentialPersist = errors.New("credential persist failed")
	// ErrServiceNotFound means the managed service is not installed.
	ErrServiceNotFound = errors.New("managed service not found")
	// ErrServiceControl means the managed service could not be restarted.
	ErrServiceControl = errors.New("service control failed")
	// ErrUnreachableResource means the remote share did not answer on the
	// required port.
	ErrUnreachableResource = errors.New("remote resource unreachable")
	// ErrUnsupportedOS means a component has no implementation for the
	// current operating system.
	ErrUnsupportedOS = errors.New("unsupported operating system")
)

// InstallFailedError reports an installer exit code outside the accepted
// allow-list.
type InstallFailedError struct {
	// Code is the raw process exit code.
	Code int
}

// Error implements the error interface.
func (e *InstallFailedError) Error() string {
	return fmt.Sprintf("installer failed with exit code %d", e.Code)
}

// SettingWriteError reports a failed write of a single configuration key.
// The writer continues with the remaining keys, so several of these may
// be aggregated per run.
type SettingWriteError struct {
	// Key is the configuration key that could not be written.
	Key string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *SettingWriteError) Error() string {
	return fmt.Sprintf("write configuration key %q: %v", e.Key, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *SettingWriteError) Unwrap() error {
	return e.Err
}
