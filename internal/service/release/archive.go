package release

import (
	"archive/zip"
	"crypto"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// installerFileMode is applied to the extracted installer.
	installerFileMode os.FileMode = 0o755

	// ChecksumFunction hashes extracted artifacts for the audit trail.
	ChecksumFunction crypto.Hash = crypto.SHA512
)

// errHashUnavailable is returned when the checksum function is not linked in.
var errHashUnavailable = errors.New("hash function unavailable")

// Extractor pulls a single named entry out of a distribution archive and
// places it at a fixed destination.
type Extractor struct {
	// destDir is where extracted entries are written.
	destDir string
}

// NewExtractor creates an extractor writing into destDir.
func NewExtractor(destDir string) *Extractor {
	return &Extractor{destDir: destDir}
}

// ExtractEntry locates entryName in the archive by exact path match and
// extracts it to the destination directory, overwriting any previous
// copy. The write is atomic: a failed extraction never leaves a
// truncated installer behind. The archive handle is released on every
// exit path.
func (e *Extractor) ExtractEntry(archivePath, entryName string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %v: %w", archivePath, err, deploy.ErrArchiveCorrupt)
	}

	defer func() {
		_ = reader.Close()
	}()

	var entry *zip.File

	for _, candidate := range reader.File {
		if candidate.Name == entryName {
			entry = candidate
			break
		}
	}

	if entry == nil {
		// Upstream can silently change the archive layout; surface the
		// break instead of guessing at an alternative entry.
		return "", fmt.Errorf("%q in %s: %w", entryName, archivePath, deploy.ErrArchiveEntryNotFound)
	}

	if err = os.MkdirAll(e.destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}

	destPath := filepath.Join(e.destDir, filepath.Base(entryName))

	contents, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("open entry %q: %v: %w", entryName, err, deploy.ErrArchiveCorrupt)
	}

	defer func() {
		_ = contents.Close()
	}()

	options := goupdate.Options{
		TargetPath: destPath,
		TargetMode: installerFileMode,
	}

	if err = goupdate.Apply(contents, options); err != nil {
		return "", fmt.Errorf("place installer at %s: %w", destPath, err)
	}

	// The atomic apply keeps the replaced file around; drop it.
	oldPath := destPath + ".old"
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return destPath, nil
}

// FileChecksum returns checksum bytes for a file using ChecksumFunction.
// The pipeline logs it so the extracted installer can be audited later.
func FileChecksum(path string) ([]byte, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	if !ChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := ChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
