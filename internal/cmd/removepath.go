package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/config"
	"github.com/thirteen37/bepcfg/internal/path"
)

func removePathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-path <path>",
		Short: "Remove a preserved path from the profile",
		Long: `Remove a user-owned path from the profile.

Example:
  bepcfg remove-path '["General","PlayerName"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathStr := args[0]

			arrayPath, err := path.ParseArrayPath(pathStr)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", pathStr, err)
			}

			filename := opts.profilePath()
			profile, err := config.Load(filename)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			if !profile.RemovePath(arrayPath.Segments()) {
				return fmt.Errorf("path %s not found", arrayPath)
			}

			if err := profile.Save(filename); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed path %s\n", arrayPath)
			return nil
		},
	}
}
