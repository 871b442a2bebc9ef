package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/calendar"
	"github.com/aydinaksel/clive-fixtures/internal/manifest"
)

// newGenerateCmd creates the 'generate' subcommand, which derives the
// calendar files and manifest from the database.
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate .ics calendars and the JSON manifest from the database",
		Long: `Writes one iCalendar file per team and per league into the output
directory, plus a manifest.json describing the whole dataset. Output is
deterministic: regenerating from an unchanged database reproduces the
files byte for byte.`,

		RunE: runGenerateCommand,
	}
	cmd.Flags().String("out", "", "output directory (default from output.dir)")
	return cmd
}

func runGenerateCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	outDir := viper.GetString("output.dir")
	if flagOut, ferr := cmd.Flags().GetString("out"); ferr == nil && flagOut != "" {
		outDir = flagOut
	}

	tzName := viper.GetString("calendar.timezone")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tzName, err)
	}
	defaultLocation := viper.GetString("calendar.default_location")

	gen := calendar.NewGenerator(appInstance.GetStore(), outDir, tz, defaultLocation, logger)
	summary, err := gen.GenerateAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("generate calendars: %w", err)
	}

	builder := manifest.NewBuilder(appInstance.GetStore(), defaultLocation, logger)
	if err := builder.Write(cmd.Context(), outDir); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	logger.Info("Generate command finished.",
		zap.String("out", outDir),
		zap.Int("team_calendars", summary.TeamCalendars),
		zap.Int("league_calendars", summary.LeagueCalendars),
	)
	return nil
}
