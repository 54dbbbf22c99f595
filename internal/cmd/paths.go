package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pathsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List preserved paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.loadProfile()
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(profile.Preserve) == 0 {
				fmt.Fprintln(out, "No preserved paths configured")
				return nil
			}

			fmt.Fprintf(out, "Preserved paths in %s:\n", opts.profilePath())
			for _, p := range profile.GetPaths() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}
