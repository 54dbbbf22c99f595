package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/config"
	"github.com/thirteen37/bepcfg/internal/path"
)

func addPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add-path <path>",
		Short: "Add a preserved path to the profile",
		Long: `Add a user-owned path to the profile. Merges keep the current value
at preserved paths.

Arguments:
  path  JSON path array: '["Section"]' or '["Section","Entry"]'.
        "*" as the section matches every section.

Example:
  bepcfg add-path '["General","PlayerName"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathStr := args[0]

			arrayPath, err := path.ParseArrayPath(pathStr)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", pathStr, err)
			}
			if err := config.ValidatePath(arrayPath.Segments()); err != nil {
				return fmt.Errorf("invalid path %q: %w", pathStr, err)
			}

			filename := opts.profilePath()
			profile, err := config.Load(filename)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			if !profile.AddPath(arrayPath.Segments()) {
				fmt.Fprintf(cmd.OutOrStdout(), "Path %s already exists\n", arrayPath)
				return nil
			}

			if err := profile.Save(filename); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added path %s\n", arrayPath)
			return nil
		},
	}
}
