// Package release finds and retrieves the latest published package.
//
// The Resolver walks the stable redirect endpoint to the current
// versioned download location without fetching the body, the Fetcher
// streams the archive to disk with retries on transient failures, and
// the Extractor pulls the installer executable out of the archive with
// an atomic write so a failed extraction never leaves a truncated file.
package release
