package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/manifest"
)

func manifestCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "manifest <mod-dir>",
		Short: "Print a mod's package manifest",
		Long: `Read manifest.json (or manifest.json.old for disabled mods) from a
mod directory and print its name, version and dependencies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.ReadDir(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(m, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			fmt.Fprintf(out, "%s %s\n", m.Name, m.VersionNumber)
			if m.Description != "" {
				fmt.Fprintf(out, "  %s\n", m.Description)
			}
			if m.WebsiteURL != "" {
				fmt.Fprintf(out, "  %s\n", m.WebsiteURL)
			}
			if len(m.Dependencies) > 0 {
				fmt.Fprintf(out, "Dependencies:\n  %s\n", strings.Join(m.Dependencies, "\n  "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the manifest as JSON")
	return cmd
}
