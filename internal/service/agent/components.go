package agent

import (
	"time"

	"github.com/okarpov/fslogix-agent/internal/config"
	"github.com/okarpov/fslogix-agent/internal/repository/product"
	"github.com/okarpov/fslogix-agent/internal/repository/settings"
	"github.com/okarpov/fslogix-agent/internal/service/credential"
	"github.com/okarpov/fslogix-agent/internal/service/install"
	"github.com/okarpov/fslogix-agent/internal/service/netcheck"
	"github.com/okarpov/fslogix-agent/internal/service/release"
)

// downloadRetryBudget bounds the total time spent retrying the archive
// download. The archive is large, so this is generous.
const downloadRetryBudget = 10 * time.Minute

// newComponents wires the production implementations of every port.
func newComponents(cfg *config.Config) Components {
	return Components{
		Probe:        product.NewProbe(),
		Resolver:     release.NewResolver(cfg.Timeout),
		Fetcher:      release.NewFetcher(cfg.WorkDirectory, downloadRetryBudget),
		Extractor:    release.NewExtractor(cfg.WorkDirectory),
		Installer:    install.NewRunner(cfg.AcceptedExitCodes),
		Credentials:  credential.NewStore(),
		Connectivity: netcheck.NewProbe(cfg.ProbeTimeout),
		Settings:     settings.NewWriter(),
		Services:     install.NewServiceManager(),
	}
}
