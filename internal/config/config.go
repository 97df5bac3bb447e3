package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every policy knob of the deployment agent. Observed
// rollouts of the same pipeline drift on several defaults (share size,
// credential user format, accepted exit codes), so all of them are
// hoisted here instead of being hardcoded in components.
type Config struct {
	// AccountName is the storage account used to build the file endpoint FQDN.
	AccountName string `yaml:"account_name"`
	// ShareName is the profile share on that account.
	ShareName string `yaml:"share_name"`
	// AccountKey is the credential value stored for unattended share access.
	// It is never logged and not persisted by Save.
	AccountKey string `yaml:"-"`
	// RedirectURL is the stable endpoint that forwards to the current
	// versioned download.
	RedirectURL string `yaml:"redirect_url"`
	// ArchiveEntryPath is the fixed installer path inside the archive.
	ArchiveEntryPath string `yaml:"archive_entry_path"`
	// ProductDisplayName is matched against the installed-products registry.
	ProductDisplayName string `yaml:"product_display_name"`
	// ServiceName is the background service restarted after configuration.
	ServiceName string `yaml:"service_name"`
	// ProfilesKeyPath is the configuration container for profile settings.
	ProfilesKeyPath string `yaml:"profiles_key_path"`
	// CredentialDomain is the domain component of the stored credential
	// user name (observed variants: localhost, Azure).
	CredentialDomain string `yaml:"credential_domain"`
	// ShareSizeMB is the maximum profile container size written to the
	// configuration container.
	ShareSizeMB uint32 `yaml:"share_size_mb"`
	// AcceptedExitCodes is the allow-list of installer exit codes treated
	// as success. Installers with non-standard semantics (3010 reboot
	// required) can be accommodated here.
	AcceptedExitCodes []int `yaml:"accepted_exit_codes"`
	// WorkDirectory receives the downloaded archive and the extracted
	// installer.
	WorkDirectory string `yaml:"work_directory"`
	// ReportFile is where the run report (audit trail) is written.
	ReportFile string `yaml:"report_file"`
	// Timeout bounds every network call (resolution, download attempt).
	Timeout time.Duration `yaml:"timeout"`
	// ProbeTimeout bounds the share connectivity check.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// PostInstallSettle is how long the pipeline waits after a successful
	// install before trusting the installed service.
	PostInstallSettle time.Duration `yaml:"post_install_settle"`
	// PreConfigureSettle is the pause between install and configuration.
	PreConfigureSettle time.Duration `yaml:"pre_configure_settle"`
}

const (
	// DefaultConfigFilename is the default settings file next to the binary.
	DefaultConfigFilename = "fslogix-agent-settings.yaml"

	// DefaultRedirectURL always forwards to the current FSLogix release.
	DefaultRedirectURL = "https://aka.ms/fslogix_download"

	// DefaultArchiveEntryPath is where the release archive keeps the
	// 64-bit installer. Upstream can silently change this layout, which
	// the extractor reports as a contract break.
	DefaultArchiveEntryPath = "x64/Release/FSLogixAppsSetup.exe"

	// DefaultProductDisplayName is the uninstall-registry display name.
	DefaultProductDisplayName = "Microsoft FSLogix Apps"

	// DefaultServiceName is the FSLogix Apps service.
	DefaultServiceName = "frxsvc"

	// DefaultProfilesKeyPath is the profile configuration container.
	DefaultProfilesKeyPath = `SOFTWARE\FSLogix\Profiles`

	// DefaultCredentialDomain prefixes the stored credential user name.
	DefaultCredentialDomain = "localhost"

	// DefaultShareSizeMB caps profile containers at ~30 GB.
	DefaultShareSizeMB uint32 = 30000

	// DefaultReportFilename receives the audit trail of the last run.
	DefaultReportFilename = "fslogix-agent-report.json"

	// DefaultTimeout bounds individual network calls.
	DefaultTimeout = 30 * time.Second

	// DefaultProbeTimeout bounds the TCP reachability check.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultPostInstallSettle gives the installed service time to
	// initialize. A fixed wait, not a readiness poll.
	DefaultPostInstallSettle = 10 * time.Second

	// DefaultPreConfigureSettle pauses before configuration writes.
	DefaultPreConfigureSettle = 5 * time.Second

	// DefaultFilePermissions restricts settings and report files.
	DefaultFilePermissions = 0o600
)

var (
	// errAccountNameRequired is returned when the storage account is missing.
	errAccountNameRequired = errors.New("storage account name must be provided")
	// errShareNameRequired is returned when the share name is missing.
	errShareNameRequired = errors.New("share name must be provided")
	// errAccountKeyRequired is returned when the credential value is missing.
	errAccountKeyRequired = errors.New("storage account key must be provided")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// Default returns a configuration populated with every policy default.
// Required inputs (account, share, key) stay empty and must be supplied
// by the caller.
func Default() *Config {
	return &Config{
		RedirectURL:        DefaultRedirectURL,
		ArchiveEntryPath:   DefaultArchiveEntryPath,
		ProductDisplayName: DefaultProductDisplayName,
		ServiceName:        DefaultServiceName,
		ProfilesKeyPath:    DefaultProfilesKeyPath,
		CredentialDomain:   DefaultCredentialDomain,
		ShareSizeMB:        DefaultShareSizeMB,
		AcceptedExitCodes:  []int{0},
		WorkDirectory:      os.TempDir(),
		ReportFile:         DefaultReportFilename,
		Timeout:            DefaultTimeout,
		ProbeTimeout:       DefaultProbeTimeout,
		PostInstallSettle:  DefaultPostInstallSettle,
		PreConfigureSettle: DefaultPreConfigureSettle,
	}
}

// Load reads configuration from the provided path on top of the defaults.
// A missing file is not an error: the defaults are returned and the
// required fields are expected from CLI flags.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the provided path. The account key is
// deliberately excluded from the serialized form.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Normalize strips stray quote characters the calling layer tends to
// leave around string inputs and fills zero-valued policy fields with
// their defaults.
func Normalize(cfg *Config) {
	cfg.AccountName = stripQuotes(cfg.AccountName)
	cfg.ShareName = stripQuotes(cfg.ShareName)
	cfg.AccountKey = stripQuotes(cfg.AccountKey)

	defaults := Default()

	if cfg.RedirectURL == "" {
		cfg.RedirectURL = defaults.RedirectURL
	}

	if cfg.ArchiveEntryPath == "" {
		cfg.ArchiveEntryPath = defaults.ArchiveEntryPath
	}

	if cfg.ProductDisplayName == "" {
		cfg.ProductDisplayName = defaults.ProductDisplayName
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaults.ServiceName
	}

	if cfg.ProfilesKeyPath == "" {
		cfg.ProfilesKeyPath = defaults.ProfilesKeyPath
	}

	if cfg.CredentialDomain == "" {
		cfg.CredentialDomain = defaults.CredentialDomain
	}

	if cfg.ShareSizeMB == 0 {
		cfg.ShareSizeMB = defaults.ShareSizeMB
	}

	if len(cfg.AcceptedExitCodes) == 0 {
		cfg.AcceptedExitCodes = defaults.AcceptedExitCodes
	}

	if cfg.WorkDirectory == "" {
		cfg.WorkDirectory = defaults.WorkDirectory
	}

	if cfg.ReportFile == "" {
		cfg.ReportFile = defaults.ReportFile
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}

	if cfg.PostInstallSettle < 0 {
		cfg.PostInstallSettle = defaults.PostInstallSettle
	}

	if cfg.PreConfigureSettle < 0 {
		cfg.PreConfigureSettle = defaults.PreConfigureSettle
	}
}

// Validate checks the configuration for required fields and formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AccountName == "" {
		return errAccountNameRequired
	}

	if cfg.ShareName == "" {
		return errShareNameRequired
	}

	if cfg.AccountKey == "" {
		return errAccountKeyRequired
	}

	if _, err := url.ParseRequestURI(cfg.RedirectURL); err != nil {
		return fmt.Errorf("invalid redirect URL: %w", err)
	}

	return nil
}

// stripQuotes removes leading/trailing single and double quotes.
func stripQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
