// Package cmd wires the fslogix-agent command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okarpov/fslogix-agent/internal/config"
	"github.com/okarpov/fslogix-agent/internal/service/agent"
	"github.com/okarpov/fslogix-agent/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// accountName is the storage account holding the profile share.
	accountName string

	// shareName is the file share holding the profile containers.
	shareName string

	// accountKey authenticates against the share. Passed per run, never
	// persisted to the settings file.
	accountKey string

	// logLevel overrides the logging verbosity.
	logLevel string

	// rootCmd represents the base command for deploying and configuring
	// the profile container stack on this machine.
	rootCmd = &cobra.Command{
		Use:   "fslogix-agent",
		Short: "Deploy and configure FSLogix profile containers",
		Long: "Installs or upgrades FSLogix Apps from the published release channel, " +
			"persists the profile share credential and applies the profile " +
			"container configuration. Safe to re-run; completed steps are skipped.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &agent.Options{
				ConfigPath:  configPath,
				AccountName: accountName,
				ShareName:   shareName,
				AccountKey:  accountKey,
				LogLevel:    logLevel,
			}

			return agent.Run(ctx, options)
		},
	}
)

// Execute runs the fslogix-agent CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&accountName, "account", "a", "", "storage account name")
	rootCmd.Flags().StringVarP(&shareName, "share", "s", "", "file share name")
	rootCmd.Flags().StringVarP(&accountKey, "key", "k", "", "storage account key")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "logging level (debug, info, warn, error)")
}
