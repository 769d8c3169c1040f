package main

import (
	"github.com/spf13/cobra"

	"github.com/kombefarm/flockdash/internal/app"
	"github.com/kombefarm/flockdash/internal/logging"
)

func newDemoCmd(flags *globalFlags) *cobra.Command {
	var (
		addr  string
		token string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve an in-memory flock API with sample data",
		Long: `demo serves the flock routes from memory so the dashboard can be tried
without the real backend. Point api_base_url at it, for example
FLOCKDASH_API_BASE_URL=http://127.0.0.1:8089.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.Must(logging.New("stderr", flags.verbose))
			defer func() { _ = logger.Sync() }()
			return app.ServeDemo(cmd.Context(), app.DemoOptions{
				Addr:   addr,
				Token:  token,
				Logger: logging.Named(logger, "demo"),
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "require this bearer token (default accept any)")
	return cmd
}
