package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display prism version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "prism v%s (%s)\n", version, GitCommit)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Unit-aware meter reading standardization")
		},
	}
}
