// Package cmd defines and implements the CLI commands for the fixtures executable.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/crawler"
)

// newCrawlCmd creates and configures the 'crawl' subcommand, which scrapes
// the league listing site into the local database.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl all league groups, leagues and fixtures into the database",
		Long: `Fetches the league listing page, walks every league group and
league, and upserts teams, venues and fixtures into the SQLite database.
Re-running against unchanged pages inserts nothing new.`,

		RunE: runCrawlCommand,
	}
	cmd.Flags().Int("limit", 0, "crawl at most N league groups (0 = all)")
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}
	if limit, ferr := cmd.Flags().GetInt("limit"); ferr == nil && limit > 0 {
		cfg.Limit = limit
	}

	fetcher := crawler.NewRetryingFetcher(
		crawler.NewCollyFetcher(cfg, logger),
		cfg.RetryAttempts,
		cfg.RetryBaseDelay,
		logger,
	)
	engine := crawler.NewEngine(cfg, fetcher, appInstance.GetStore(), logger)

	stats, err := engine.Run(cmd.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run crawler: %w", err)
	}

	logger.Info("Crawl command finished.",
		zap.Int("groups", stats.Groups),
		zap.Int("leagues", stats.Leagues),
		zap.Int("fixtures_inserted", stats.Fixtures),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("rows_skipped", stats.SkippedRows),
		zap.Int("failed_fetches", stats.FailedFetches),
	)
	return nil
}
