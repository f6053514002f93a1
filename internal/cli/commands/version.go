package commands

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display prelude version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Metamath Prelude v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Hilbert registry: %d rules\n", rules.Hilbert.Len())
		},
	}
}
