package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/okarpov/fslogix-agent/internal/config"
	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
	"github.com/okarpov/fslogix-agent/internal/service/install"
	"github.com/okarpov/fslogix-agent/internal/service/release"
)

// smbPort is the port the profile share must answer on.
const smbPort = 445

// runState enumerates the pipeline states.
type runState int

const (
	stateInit runState = iota
	stateProbingVersions
	stateDeciding
	stateInstalling
	stateConfiguring
	stateVerifying
	stateRestarting
	stateCleanup
	stateDone
	stateFailed
)

// String returns the state name for logs.
func (s runState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateProbingVersions:
		return "probing-versions"
	case stateDeciding:
		return "deciding"
	case stateInstalling:
		return "installing"
	case stateConfiguring:
		return "configuring"
	case stateVerifying:
		return "verifying"
	case stateRestarting:
		return "restarting"
	case stateCleanup:
		return "cleanup"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Step names recorded in the audit trail.
const (
	stepProbeLocal   = "probe-local-version"
	stepResolve      = "resolve-remote-version"
	stepDecide       = "decide"
	stepFetch        = "fetch-archive"
	stepExtract      = "extract-installer"
	stepInstall      = "run-installer"
	stepConnectivity = "check-share-connectivity"
	stepCredential   = "persist-credential"
	stepConfigure    = "apply-configuration"
	stepVerify       = "verify-install"
	stepRestart      = "restart-service"
	stepCleanup      = "cleanup"
)

// Components bundles the effectful collaborators of the pipeline so
// tests can substitute fakes per port.
type Components struct {
	Probe        deploy.VersionProbe
	Resolver     deploy.ReleaseResolver
	Fetcher      deploy.PackageFetcher
	Extractor    deploy.ArchiveExtractor
	Installer    deploy.Installer
	Credentials  deploy.CredentialStore
	Connectivity deploy.ConnectivityProbe
	Settings     deploy.ConfigurationWriter
	Services     deploy.ServiceController
}

// Pipeline holds the mutable state of a single run. Create one per run
// with NewPipeline; it is not reusable.
type Pipeline struct {
	cfg    *config.Config
	deps   Components
	target deploy.ShareTarget

	report   deploy.RunReport
	local    deploy.PackageVersion
	dist     deploy.RemoteDistribution
	decision deploy.InstallDecision
	// decided is set once the deciding state ran; before that the
	// decision field is meaningless and must not leak into the report.
	decided bool

	// degraded is set when resolution failed but a local install exists,
	// in which case the run keeps the existing install.
	degraded bool
	// installed is set after the installer ran with an accepted code.
	installed bool

	archivePath   string
	installerPath string

	// fatal aborts the run after cleanup.
	fatal error
}

// NewPipeline creates a pipeline for one run against the provided
// configuration and components.
func NewPipeline(cfg *config.Config, deps Components) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		target: deploy.NewShareTarget(cfg.AccountName, cfg.ShareName),
	}
}

// Run drives the state machine to a terminal state and returns the run
// report. The error is non-nil only for fatal aborts; non-fatal issues
// are folded into a done-with-warnings status.
func (p *Pipeline) Run(ctx context.Context) (*deploy.RunReport, error) {
	p.report.StartedAt = time.Now().UTC()

	state := stateInit
	for state != stateDone && state != stateFailed {
		logger.DebugKV(ctx, "Pipeline state", "state", state.String())

		switch state {
		case stateInit:
			state = stateProbingVersions
		case stateProbingVersions:
			state = p.probeVersions(ctx)
		case stateDeciding:
			state = p.decide(ctx)
		case stateInstalling:
			state = p.install(ctx)
		case stateConfiguring:
			state = p.configure(ctx)
		case stateVerifying:
			state = p.verify(ctx)
		case stateRestarting:
			state = p.restart(ctx)
		case stateCleanup:
			state = p.cleanup(ctx)
		default:
			state = stateFailed
		}
	}

	p.report.FinishedAt = time.Now().UTC()
	p.report.LocalVersion = p.local.String()

	if p.decided {
		p.report.Decision = p.decision.String()
	} else {
		p.report.Decision = "none"
	}

	if !p.dist.Version.IsZero() {
		p.report.RemoteVersion = p.dist.Version.String()
	}

	if p.fatal != nil {
		p.report.Status = deploy.RunFailed
		return &p.report, p.fatal
	}

	if p.report.HasWarnings() {
		p.report.Status = deploy.RunDoneWithWarnings
	} else {
		p.report.Status = deploy.RunDone
	}

	return &p.report, nil
}

// probeVersions reads the local version and resolves the remote release.
// Resolution failure is fatal only when no local version exists; with a
// local install the run degrades to keeping it.
func (p *Pipeline) probeVersions(ctx context.Context) runState {
	p.local = p.deps.Probe.CurrentVersion(ctx, p.cfg.ProductDisplayName)
	p.record(ctx, stepProbeLocal, deploy.StepSuccess, "local version "+p.local.String())

	dist, err := p.deps.Resolver.Resolve(ctx, p.cfg.RedirectURL)
	if err != nil {
		if p.local.IsZero() {
			p.record(ctx, stepResolve, deploy.StepFailed, err.Error())
			p.fatal = err

			return stateCleanup
		}

		p.degraded = true
		p.record(ctx, stepResolve, deploy.StepFailed,
			"keeping existing install: "+err.Error())

		return stateDeciding
	}

	dist.EntryPath = p.cfg.ArchiveEntryPath
	p.dist = dist
	p.record(ctx, stepResolve, deploy.StepSuccess,
		fmt.Sprintf("remote version %s at %s", dist.Version, dist.ResolvedURL))

	return stateDeciding
}

// decide derives the install decision from the probed versions.
func (p *Pipeline) decide(ctx context.Context) runState {
	p.decided = true

	if p.degraded {
		p.decision = deploy.SkipUpToDate
		p.record(ctx, stepDecide, deploy.StepSkipped,
			"remote version unknown, keeping existing install")

		return stateConfiguring
	}

	p.decision = deploy.Decide(p.local, p.dist.Version)
	p.record(ctx, stepDecide, deploy.StepSuccess, p.decision.String())

	if !p.decision.NeedsInstall() {
		p.record(ctx, stepInstall, deploy.StepSkipped, "already up to date")
		return stateConfiguring
	}

	return stateInstalling
}

// install fetches, extracts and runs the installer. Every failure in
// this branch is fatal: the pipeline must not silently install nothing
// and claim success.
func (p *Pipeline) install(ctx context.Context) runState {
	archivePath, err := p.deps.Fetcher.Fetch(ctx, p.dist.ResolvedURL)
	if err != nil {
		p.record(ctx, stepFetch, deploy.StepFailed, err.Error())
		p.fatal = err

		return stateCleanup
	}

	p.archivePath = archivePath
	p.record(ctx, stepFetch, deploy.StepSuccess, archivePath)

	installerPath, err := p.deps.Extractor.ExtractEntry(archivePath, p.dist.EntryPath)
	if err != nil {
		p.record(ctx, stepExtract, deploy.StepFailed, err.Error())
		p.fatal = err

		return stateCleanup
	}

	p.installerPath = installerPath
	p.record(ctx, stepExtract, deploy.StepSuccess, p.describeInstaller(installerPath))

	code, err := p.deps.Installer.RunSilent(ctx, installerPath, install.DefaultArgs())
	if err != nil {
		p.record(ctx, stepInstall, deploy.StepFailed, err.Error())
		p.fatal = err

		return stateCleanup
	}

	p.installed = true
	p.record(ctx, stepInstall, deploy.StepSuccess, fmt.Sprintf("exit code %d", code))

	// Give the installed service time to initialize before configuring it.
	p.settle(ctx, p.cfg.PostInstallSettle)

	return stateConfiguring
}

// describeInstaller renders the extracted path with its checksum for the
// audit trail.
func (p *Pipeline) describeInstaller(path string) string {
	sum, err := release.FileChecksum(path)
	if err != nil {
		return path
	}

	return fmt.Sprintf("%s (sha512 %s)", path, base64.StdEncoding.EncodeToString(sum))
}

// configure gates on share connectivity, persists the share credential
// and applies the profile configuration. Failures here are recorded but
// never abort: the machine is left in the best achievable state.
func (p *Pipeline) configure(ctx context.Context) runState {
	if p.installed {
		p.settle(ctx, p.cfg.PreConfigureSettle)
	}

	if p.deps.Connectivity.Check(ctx, p.target.ServerFQDN, smbPort) {
		p.record(ctx, stepConnectivity, deploy.StepSuccess, p.target.ServerFQDN)
	} else {
		p.record(ctx, stepConnectivity, deploy.StepFailed, fmt.Sprintf(
			"%s did not answer on port %d; outbound SMB is commonly blocked by egress filtering",
			p.target.ServerFQDN, smbPort))
	}

	cred := deploy.Credential{
		TargetName: p.target.ServerFQDN,
		Principal:  p.cfg.CredentialDomain + `\` + p.cfg.AccountName,
		Secret:     p.cfg.AccountKey,
	}

	if err := p.deps.Credentials.Persist(ctx, cred); err != nil {
		p.record(ctx, stepCredential, deploy.StepFailed, err.Error())
	} else {
		p.record(ctx, stepCredential, deploy.StepSuccess, cred.TargetName)
	}

	set := deploy.ProfileSettings(p.target.ProfilePath, p.cfg.ShareSizeMB)

	if err := p.deps.Settings.Apply(ctx, set, p.cfg.ProfilesKeyPath); err != nil {
		p.record(ctx, stepConfigure, deploy.StepFailed, err.Error())
	} else {
		p.record(ctx, stepConfigure, deploy.StepSuccess,
			fmt.Sprintf("%d keys under %s", len(set), p.cfg.ProfilesKeyPath))
	}

	return stateVerifying
}

// verify re-probes the installed version after an install to confirm the
// upgrade actually landed. A mismatch is a warning, not an abort.
func (p *Pipeline) verify(ctx context.Context) runState {
	if !p.installed {
		p.record(ctx, stepVerify, deploy.StepSkipped, "no install performed")
		return stateRestarting
	}

	current := p.deps.Probe.CurrentVersion(ctx, p.cfg.ProductDisplayName)
	if current.Compare(p.dist.Version) < 0 {
		p.record(ctx, stepVerify, deploy.StepFailed, fmt.Sprintf(
			"installed version %s still below %s", current, p.dist.Version))
	} else {
		p.record(ctx, stepVerify, deploy.StepSuccess, "installed version "+current.String())
	}

	return stateRestarting
}

// restart force-restarts the product service. A missing service is a
// warning (installation may have failed silently), not an abort.
func (p *Pipeline) restart(ctx context.Context) runState {
	err := p.deps.Services.RestartManagedService(ctx, p.cfg.ServiceName)

	switch {
	case err == nil:
		p.record(ctx, stepRestart, deploy.StepSuccess, p.cfg.ServiceName)
	case errors.Is(err, deploy.ErrServiceNotFound):
		p.record(ctx, stepRestart, deploy.StepSkipped,
			p.cfg.ServiceName+" not present; installation may have failed silently")
	default:
		p.record(ctx, stepRestart, deploy.StepFailed, err.Error())
	}

	return stateCleanup
}

// cleanup removes the transient archive on every exit path. The
// extracted installer is deliberately kept for troubleshooting.
func (p *Pipeline) cleanup(ctx context.Context) runState {
	if p.archivePath != "" {
		if err := os.Remove(p.archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.record(ctx, stepCleanup, deploy.StepFailed, err.Error())
		} else {
			p.record(ctx, stepCleanup, deploy.StepSuccess, "removed "+p.archivePath)
		}
	} else {
		p.record(ctx, stepCleanup, deploy.StepSkipped, "no transient archive")
	}

	if p.fatal != nil {
		return stateFailed
	}

	return stateDone
}

// record appends one outcome to the audit trail and mirrors it to the log.
func (p *Pipeline) record(ctx context.Context, step string, status deploy.StepStatus, detail string) {
	p.report.Outcomes = append(p.report.Outcomes, deploy.StepOutcome{
		Step:   step,
		Status: status,
		Detail: detail,
	})

	ctx = logger.WithStep(ctx, step)

	switch status {
	case deploy.StepFailed:
		logger.WarnKV(ctx, "Step failed", "detail", detail)
	case deploy.StepSkipped:
		logger.InfoKV(ctx, "Step skipped", "detail", detail)
	default:
		logger.InfoKV(ctx, "Step completed", "detail", detail)
	}
}

// settle pauses for the fixed duration, returning early on cancellation.
func (p *Pipeline) settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	logger.InfoKV(ctx, "Waiting for service to settle", "duration", d.String())

	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
