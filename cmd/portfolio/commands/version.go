package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madun-it/portfolio/internal/server"
)

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), server.FormatBuildVersion(version))
		},
	}
}
