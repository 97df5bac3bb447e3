package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command.
// It prints the agent's own build info, not the version of the deployed product.
func AttachCobraVersionCommand(root *cobra.Command) {
	// Subcommand: `version`.
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the agent's version information.",
		Long: "Print the agent's build metadata: semantic version, commit hash and build " +
			"timestamp, injected at build time via ldflags. This is the version of the " +
			"agent binary itself, not of the FSLogix Apps installation it manages.",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}
