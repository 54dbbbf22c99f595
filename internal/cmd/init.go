package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/config"
	"github.com/thirteen37/bepcfg/internal/path"
)

func initCmd(opts *options) *cobra.Command {
	var (
		configDir    string
		initialPaths []string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a profile",
		Long: `Create a profile file naming the shared config directory and the
entries the player owns.

Example:
  bepcfg init --config-dir ~/Games/LethalCompany/BepInEx/config \
    --preserve '["General","PlayerName"]' --preserve '["Key Bindings"]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := opts.profilePath()
			if _, err := os.Stat(filename); err == nil && !force {
				return fmt.Errorf("profile %s already exists (use --force to overwrite)", filename)
			}

			profile := config.Default()
			if configDir != "" {
				profile.ConfigDir = configDir
			}
			for _, p := range initialPaths {
				arrayPath, err := path.ParseArrayPath(p)
				if err != nil {
					return fmt.Errorf("invalid path %q: %w", p, err)
				}
				profile.AddPath(arrayPath.Segments())
			}

			if err := profile.Validate(); err != nil {
				return err
			}
			if err := profile.Save(filename); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "shared settings directory (default "+config.DefaultConfigDir+")")
	cmd.Flags().StringArrayVar(&initialPaths, "preserve", nil, "preserved path as a JSON array (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")
	return cmd
}
