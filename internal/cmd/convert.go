package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/bepinex"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/format/cfg"
	"github.com/thirteen37/bepcfg/internal/format/ini"
	"github.com/thirteen37/bepcfg/internal/format/json"
	"github.com/thirteen37/bepcfg/internal/format/toml"
)

// handlerFor returns the tree handler for a format name.
func handlerFor(name string) (format.Handler, error) {
	switch strings.ToLower(name) {
	case "json", "jsonc":
		return json.New(), nil
	case "toml":
		return toml.New(), nil
	case "ini":
		return ini.New(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (json, toml, ini)", name)
	}
}

func exportCmd(opts *options) *cobra.Command {
	var (
		formatName string
		indent     string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a settings file to JSON, TOML or INI",
		Long: `Export the values of a settings file as {section: {entry: value}}.

Booleans, integers and floats keep their type, enum values become their
option name and flag sets become lists of option names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := handlerFor(formatName)
			if err != nil {
				return err
			}

			s, rel := opts.locate(args[0])
			doc, err := s.Read(rel)
			if err != nil {
				return err
			}

			data, err := handler.Serialize(cfg.Tree(doc), format.SerializeOptions{Indent: indent})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "json", "output format (json, toml, ini)")
	cmd.Flags().StringVar(&indent, "indent", "", "indentation for nested values")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	var (
		formatName    string
		stripComments bool
	)

	cmd := &cobra.Command{
		Use:   "import <file> <values-file>",
		Short: "Apply values from a JSON, TOML or INI file to a settings file",
		Long: `Apply {section: {entry: value}} values to a settings file.

Each value is parsed with the existing entry's type, acceptable values and
range; missing sections and entries are created. Nothing is written if any
value is rejected. The format defaults to the values file's extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := formatName
			if name == "" {
				name = strings.TrimPrefix(filepath.Ext(args[1]), ".")
			}
			handler, err := handlerFor(name)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read values file: %w", err)
			}
			tree, err := handler.Parse(data, format.ParseOptions{StripComments: stripComments})
			if err != nil {
				return err
			}

			s, rel := opts.locate(args[0])
			doc, err := s.Read(rel)
			if errors.Is(err, fs.ErrNotExist) {
				doc, err = &bepinex.FileData{}, nil
			}
			if err != nil {
				return err
			}

			if err := cfg.Apply(doc, tree); err != nil {
				return fmt.Errorf("failed to import %s: %w", args[1], err)
			}
			return s.Write(rel, doc)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "values file format (json, toml, ini)")
	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "strip // comments from JSON")
	return cmd
}
