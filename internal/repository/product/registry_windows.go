//go:build windows

package product

import (
	"context"
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
)

// uninstallKeyPaths are the installed-product views consulted, native
// view first, 32-bit view second.
//
//nolint:gochecknoglobals // Immutable lookup table.
var uninstallKeyPaths = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
	`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
}

// installedProduct is one uninstall entry with a readable display name.
type installedProduct struct {
	displayName    string
	displayVersion string
}

// Probe reads product versions from the uninstall registry.
type Probe struct{}

// NewProbe creates the registry-backed version probe.
func NewProbe() *Probe {
	return &Probe{}
}

// CurrentVersion looks up the product by display name. Exact matches win;
// a documented substring fallback covers legacy display names. Zero
// matches mean not installed. Multiple matches pick the first in
// enumeration order with a warning, never an error.
func (p *Probe) CurrentVersion(ctx context.Context, productDisplayName string) deploy.PackageVersion {
	products := enumerateProducts(ctx)

	var exact, partial []installedProduct

	for _, candidate := range products {
		switch {
		case candidate.displayName == productDisplayName:
			exact = append(exact, candidate)
		case strings.Contains(candidate.displayName, productDisplayName):
			partial = append(partial, candidate)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}

	if len(matches) == 0 {
		logger.InfoKV(ctx, "Product not installed", "product", productDisplayName)
		return deploy.PackageVersion{}
	}

	if len(matches) > 1 {
		logger.WarnKV(ctx, "Multiple matching products, selecting first",
			"product", productDisplayName, "matches", len(matches))
	}

	return deploy.ParseVersion(matches[0].displayVersion)
}

// enumerateProducts walks both uninstall views. Unreadable keys are
// skipped: lookup problems degrade to "not installed".
func enumerateProducts(ctx context.Context) []installedProduct {
	var products []installedProduct

	for _, base := range uninstallKeyPaths {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, base, registry.READ)
		if err != nil {
			logger.DebugKV(ctx, "Uninstall view not readable", "path", base, "error", err)
			continue
		}

		names, err := key.ReadSubKeyNames(-1)

		_ = key.Close()

		if err != nil {
			continue
		}

		for _, name := range names {
			sub, err := registry.OpenKey(registry.LOCAL_MACHINE, base+`\`+name, registry.QUERY_VALUE)
			if err != nil {
				continue
			}

			displayName, _, nameErr := sub.GetStringValue("DisplayName")
			displayVersion, _, versionErr := sub.GetStringValue("DisplayVersion")

			_ = sub.Close()

			if nameErr != nil || versionErr != nil || displayName == "" {
				continue
			}

			products = append(products, installedProduct{
				displayName:    displayName,
				displayVersion: displayVersion,
			})
		}
	}

	return products
}
