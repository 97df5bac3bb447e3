package deploy

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// ZeroVersionString renders the "not installed" version.
const ZeroVersionString = "0.0.0.0"

// zeroVersion is the lower bound of the version order.
//
//nolint:gochecknoglobals // Immutable parsed constant.
var zeroVersion = goversion.Must(goversion.NewVersion(ZeroVersionString))

// PackageVersion is a totally ordered numeric product version of the form
// major.minor.build.revision. The zero value means "not installed" and
// compares equal to 0.0.0.0.
type PackageVersion struct {
	v *goversion.Version
}

// ParseVersion parses a product display-version string or a filename
// fragment. Absence of a parseable version is meaningful (the product is
// not installed), so anything empty or malformed collapses to the zero
// version instead of failing.
func ParseVersion(s string) PackageVersion {
	s = strings.TrimSpace(s)
	if s == "" {
		return PackageVersion{}
	}

	v, err := goversion.NewVersion(s)
	if err != nil {
		return PackageVersion{}
	}

	return PackageVersion{v: v}
}

// MustVersion parses s and panics if it does not carry a version.
// Intended for constants and tests.
func MustVersion(s string) PackageVersion {
	return PackageVersion{v: goversion.Must(goversion.NewVersion(s))}
}

// core returns the underlying version, substituting the zero version for
// an unset one so comparisons stay total.
func (p PackageVersion) core() *goversion.Version {
	if p.v == nil {
		return zeroVersion
	}

	return p.v
}

// Compare returns -1, 0 or 1 if p is smaller than, equal to or greater
// than other. Comparison is purely numeric, per component, left to right.
func (p PackageVersion) Compare(other PackageVersion) int {
	return p.core().Compare(other.core())
}

// IsZero reports whether the version denotes a missing installation.
func (p PackageVersion) IsZero() bool {
	return p.core().Compare(zeroVersion) == 0
}

// String renders the original version string, or 0.0.0.0 when unset.
func (p PackageVersion) String() string {
	if p.v == nil {
		return ZeroVersionString
	}

	return p.v.Original()
}
