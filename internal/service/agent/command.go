package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/okarpov/fslogix-agent/internal/config"
	"github.com/okarpov/fslogix-agent/internal/logger"
	"github.com/okarpov/fslogix-agent/internal/repository/report"
)

var errAgentAlreadyRunning = errors.New("the agent is already running")

// Options are inputs accepted by the agent entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// AccountName overrides the storage account name from the file.
	AccountName string
	// ShareName overrides the file share name from the file.
	ShareName string
	// AccountKey is the storage account key. It is never written to disk.
	AccountKey string
	// LogLevel overrides the logging level.
	LogLevel string
}

// Run executes the deployment lifecycle and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "fslogix-agent")

	if level, ok := logger.ParseLogLevel(opts.LogLevel); ok {
		logger.SetLevel(level)
	}

	cfg, err := loadConfiguration(opts)
	if err != nil {
		return err
	}

	if IsAgentRunningNow(ctx, cfg.WorkDirectory) {
		return errAgentAlreadyRunning
	}

	removeMarker, err := placeRunMarker(cfg.WorkDirectory)
	if err != nil {
		return err
	}

	defer removeMarker()

	pipeline := NewPipeline(cfg, newComponents(cfg))

	runReport, runErr := pipeline.Run(ctx)
	if runErr != nil {
		logger.ErrorKV(ctx, "Agent run failed", "error", runErr)
	}

	repository := report.NewFileRepository(cfg.ReportFile)
	if err = repository.Save(ctx, runReport); err != nil {
		logger.WarnKV(ctx, "Unable to save run report",
			"path", cfg.ReportFile, "error", err)
	} else {
		logger.InfoKV(ctx, "Run report saved",
			"path", cfg.ReportFile, "status", string(runReport.Status))
	}

	if runErr != nil {
		return runErr
	}

	logger.Info(ctx, "Agent run completed")

	return nil
}

// loadConfiguration loads the settings file and folds in command line overrides.
func loadConfiguration(opts *Options) (*config.Config, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if s := strings.TrimSpace(opts.AccountName); s != "" {
		cfg.AccountName = s
	}

	if s := strings.TrimSpace(opts.ShareName); s != "" {
		cfg.ShareName = s
	}

	if s := strings.TrimSpace(opts.AccountKey); s != "" {
		cfg.AccountKey = s
	}

	config.Normalize(cfg)

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
