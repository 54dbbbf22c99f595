// Package cmd provides the CLI commands for bepcfg.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thirteen37/bepcfg/internal/config"
	"github.com/thirteen37/bepcfg/internal/store"
)

// options holds the persistent flags shared by every command.
type options struct {
	verbose  bool
	storeDir string
	profile  string
}

// NewRootCmd builds the bepcfg command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "bepcfg",
		Short: "Read, edit, convert and merge BepInEx plugin settings",
		Long: `bepcfg works with the *.cfg settings files BepInEx plugins write.

It can show and edit single entries while keeping every other entry's
comments, defaults and order, normalise hand-edited files, convert settings
to and from JSON, TOML and INI, and merge a managed settings file with the
one a player has changed, keeping the entries the player owns.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, opts.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.storeDir, "store", "", "resolve relative settings files against this directory")
	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "profile file (default $BEPCFG_PROFILE or "+config.DefaultProfile+")")

	rootCmd.AddCommand(
		showCmd(opts),
		getCmd(opts),
		setCmd(opts),
		fmtCmd(opts),
		exportCmd(opts),
		importCmd(opts),
		mergeCmd(opts),
		listCmd(opts),
		manifestCmd(),
		initCmd(opts),
		addPathCmd(opts),
		removePathCmd(opts),
		pathsCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// profilePath returns the profile file in use.
func (o *options) profilePath() string {
	if o.profile != "" {
		return o.profile
	}
	return config.LoadEnv().Profile
}

// loadProfile reads the profile and applies environment and flag overrides.
func (o *options) loadProfile() (*config.Profile, error) {
	env := config.LoadEnv()
	filename := o.profile
	if filename == "" {
		filename = env.Profile
	}

	p, err := config.Load(filename)
	if err != nil {
		return nil, err
	}
	p.ApplyEnv(env)
	if o.storeDir != "" {
		p.ConfigDir = o.storeDir
	}
	return p, nil
}

// locate maps a settings-file argument to a store and a path inside it.
// With --store, relative arguments are store paths; anything else is a
// plain filesystem path.
func (o *options) locate(file string) (*store.Store, string) {
	if o.storeDir != "" && !filepath.IsAbs(file) {
		return store.New(o.storeDir), filepath.ToSlash(file)
	}
	return store.New(filepath.Dir(file)), filepath.Base(file)
}
