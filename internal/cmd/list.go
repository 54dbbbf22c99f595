package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/store"
)

func listCmd(opts *options) *cobra.Command {
	var dev, name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List settings files in the shared config directory",
		Long: `List every file under the profile's config directory (or --store),
as slash-separated relative paths. With --dev or --name only files whose
path mentions the mod's author or name, ignoring case, are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.loadProfile()
			if err != nil {
				return err
			}
			s := store.New(profile.ConfigDir)

			var files []string
			if dev != "" || name != "" {
				files, err = s.ListForMod(dev, name)
			} else {
				files, err = s.List()
			}
			if err != nil {
				return err
			}

			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dev, "dev", "", "mod author to match")
	cmd.Flags().StringVar(&name, "name", "", "mod name to match")
	return cmd
}
