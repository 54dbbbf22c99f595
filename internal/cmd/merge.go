package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/config"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/format/cfg"
	"github.com/thirteen37/bepcfg/internal/merge"
	"github.com/thirteen37/bepcfg/internal/path"
)

func mergeCmd(opts *options) *cobra.Command {
	var (
		managedFile  string
		currentFile  string
		outputFile   string
		preservePath []string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge managed and current settings files",
		Long: `Merge a managed settings file with the current one, keeping the
current value of every preserved entry. Preserved paths come from the
profile and from --preserve.

The current file is read from --current, or from stdin when it is not
given. An empty or unparsable current file yields the managed file. The
result goes to stdout unless --output is set.

Example:
  bepcfg merge --managed pack/mod.cfg --current BepInEx/config/mod.cfg \
    --preserve '["General","PlayerName"]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			managedData, err := os.ReadFile(managedFile)
			if err != nil {
				return fmt.Errorf("failed to read managed file: %w", err)
			}

			var currentData []byte
			if currentFile != "" {
				currentData, err = os.ReadFile(currentFile)
				if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to read current file: %w", err)
				}
			} else {
				currentData, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read current from stdin: %w", err)
				}
			}

			profile, err := opts.loadProfile()
			if err != nil {
				return err
			}
			paths := profile.GetPaths()
			for _, p := range preservePath {
				arrayPath, err := path.ParseArrayPath(p)
				if err != nil {
					return fmt.Errorf("invalid path %q: %w", p, err)
				}
				if err := config.ValidatePath(arrayPath.Segments()); err != nil {
					return fmt.Errorf("invalid path %q: %w", p, err)
				}
				paths = append(paths, arrayPath)
			}

			handler := cfg.New()
			managed, err := handler.Parse(managedData, format.ParseOptions{})
			if err != nil {
				return fmt.Errorf("failed to parse managed file: %w", err)
			}

			var current any
			if len(currentData) > 0 {
				current, err = handler.Parse(currentData, format.ParseOptions{})
				if err != nil {
					log.Warn().Err(err).Msg("Current settings are invalid, using managed settings")
					current = nil
				}
			}

			result := merge.Merge(handler, managed, current, paths)

			output, err := handler.Serialize(result, format.SerializeOptions{})
			if err != nil {
				return fmt.Errorf("failed to serialize result: %w", err)
			}

			if outputFile == "" {
				_, err = cmd.OutOrStdout().Write(output)
				return err
			}
			if err := os.WriteFile(outputFile, output, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			log.Info().Str("file", outputFile).Int("preserved", len(paths)).Msg("Merged settings")
			return nil
		},
	}

	cmd.Flags().StringVarP(&managedFile, "managed", "m", "", "managed settings file (required)")
	cmd.Flags().StringVarP(&currentFile, "current", "c", "", "current settings file (default stdin)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the result here instead of stdout")
	cmd.Flags().StringArrayVarP(&preservePath, "preserve", "p", nil, "extra preserved path as a JSON array (repeatable)")

	cmd.MarkFlagRequired("managed")
	return cmd
}
