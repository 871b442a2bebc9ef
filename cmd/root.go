package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/app"
	"github.com/aydinaksel/clive-fixtures/internal/logging"
	"github.com/aydinaksel/clive-fixtures/internal/store"
	"github.com/aydinaksel/clive-fixtures/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use. This allows us
// to inject a mock app during tests.
type App interface {
	Close() error
	GetLogger() *zap.Logger
	GetStore() *store.Store
}

// newApp is the application factory. It's a variable so tests can replace
// it with a mock factory.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Crawl league fixtures and publish calendar artifacts.",
		Long: `fixtures scrapes the league listing site into a local SQLite
database and derives deterministic iCalendar files and a JSON manifest
for every team and league, plus same-day email reminders.`,

		// Runs after config is loaded but before the subcommand's RunE; this
		// is where the application services are built and injected.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				if err := appInstance.Close(); err != nil {
					logging.L.Warn("Failed to close application services", zap.Error(err))
				}
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newRemindCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	logging.InitLogger()

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
