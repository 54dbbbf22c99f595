package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/bepinex"
)

func showCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a settings file in canonical form",
		Long: `Parse a settings file and print it in canonical form, or as JSON
with --json. JSON values are tagged with their type, e.g.
{"type": "Int", "data": {"value": 7, "range": {"start": 0, "end": 10}}}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, rel := opts.locate(args[0])
			doc, err := s.Read(rel)
			if err != nil {
				return err
			}

			if !asJSON {
				_, err = bepinex.WriteTo(cmd.OutOrStdout(), doc)
				return err
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parsed document as JSON")
	return cmd
}

func getCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <file> <section> <entry>",
		Short: "Print the value of one entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, rel := opts.locate(args[0])
			doc, err := s.Read(rel)
			if err != nil {
				return err
			}

			e, ok := doc.Lookup(args[1], args[2])
			if !ok {
				return fmt.Errorf("entry %s.%s not found in %s", args[1], args[2], args[0])
			}

			if !asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), bepinex.FormatValue(e.Value))
				return err
			}

			data, err := bepinex.MarshalValue(e.Value)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the value as tagged JSON")
	return cmd
}

func setCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "set <file> <section> <entry> <value>",
		Short: "Change the value of one entry",
		Long: `Change one entry and rewrite the file, keeping every other entry.

The value is parsed with the entry's type, acceptable values and range.
Missing files, sections and entries are created; a new entry's type is
inferred from the value. With --json the value is a tagged JSON value as
printed by "get --json".

Example:
  bepcfg set BepInEx.cfg Logging.Console Enabled true
  bepcfg set mod.cfg Choices Channels "Debug, Error"`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, rel := opts.locate(args[0])
			section, entry, text := args[1], args[2], args[3]

			if asJSON {
				value, err := bepinex.UnmarshalValue([]byte(text))
				if err != nil {
					return fmt.Errorf("invalid value: %w", err)
				}
				return s.SetEntry(rel, section, entry, value)
			}

			value, err := s.SetEntryText(rel, section, entry, text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %s\n", section, entry, bepinex.FormatValue(value))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "read the value as tagged JSON")
	return cmd
}

func fmtCmd(opts *options) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "Rewrite settings files in canonical form",
		Long: `Rewrite settings files in canonical form: regenerated comments,
lowercase booleans, dot decimals and one blank line between entries.

With --check nothing is written; the command fails if any file would change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var unformatted []string
			for _, file := range args {
				s, rel := opts.locate(file)
				text, err := s.ReadText(rel)
				if err != nil {
					return err
				}
				doc, err := bepinex.Parse(text)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				if bepinex.Write(doc) == text {
					continue
				}

				if check {
					unformatted = append(unformatted, file)
					fmt.Fprintln(cmd.OutOrStdout(), file)
					continue
				}
				if err := s.Write(rel, doc); err != nil {
					return err
				}
			}

			if len(unformatted) > 0 {
				return fmt.Errorf("%d file(s) not in canonical form", len(unformatted))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "report files that are not canonical instead of rewriting them")
	return cmd
}
