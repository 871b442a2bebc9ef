package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aydinaksel/clive-fixtures/internal/api"
)

// newServeCmd creates the 'serve' subcommand, a local preview server for
// the generated artifact directory.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the output directory with health and metrics endpoints",
		Long: `Serves the generated calendars and manifest over HTTP for local
preview, alongside /healthz and Prometheus /metrics. Shuts down
gracefully on SIGINT or SIGTERM.`,

		RunE: runServeCommand,
	}
	cmd.Flags().String("addr", "", "listen address (default from serve.addr)")
	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	addr := viper.GetString("serve.addr")
	if flagAddr, ferr := cmd.Flags().GetString("addr"); ferr == nil && flagAddr != "" {
		addr = flagAddr
	}
	outDir := viper.GetString("output.dir")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(addr, outDir, appInstance.GetLogger())
	return srv.Run(ctx)
}
