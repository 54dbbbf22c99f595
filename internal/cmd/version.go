package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/runtime"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, git commit, and build time of bepcfg.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), runtime.VersionString())
		},
	}
}
