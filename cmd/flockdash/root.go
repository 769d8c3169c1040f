package main

import (
	"github.com/spf13/cobra"

	"github.com/kombefarm/flockdash/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	envFile     string
	sessionPath string
	prefsPath   string
	verbose     bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath:  g.configPath,
		EnvFile:     g.envFile,
		SessionPath: g.sessionPath,
		PrefsPath:   g.prefsPath,
		Verbose:     g.verbose,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "flockdash",
		Short: "Terminal dashboard for the farm's poultry flocks",
		Long: `flockdash lists, creates, updates and deletes poultry flocks against the
farm's REST backend. Run without a subcommand to open the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/flockdash/config.toml)")
	pf.StringVar(&flags.envFile, "env-file", "", "env file loaded before the config (default ./.env when present)")
	pf.StringVar(&flags.sessionPath, "session", "", "session file with the signed-in user (overrides session_path)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/flockdash/prefs.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "write debug entries to the log")

	root.AddCommand(newExportCmd(flags), newDemoCmd(flags))
	return root
}
