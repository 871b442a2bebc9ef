package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/mailer"
)

// newRemindCmd creates the 'remind' subcommand, which emails availability
// reminders for the configured team's fixtures kicking off today.
func newRemindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Email availability reminders for today's fixtures",
		Long: `Looks up the configured team's fixtures and sends one reminder
email per fixture kicking off on the reminder date over SMTPS. Missing
SMTP configuration aborts before any lookup.`,

		RunE: runRemindCommand,
	}
	return cmd
}

func runRemindCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	smtpCfg, err := mailer.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load smtp config: %w", err)
	}

	teamName := viper.GetString("reminder.team")
	if teamName == "" {
		return fmt.Errorf("reminder.team is not set")
	}
	tzName := viper.GetString("calendar.timezone")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tzName, err)
	}

	st := appInstance.GetStore()
	team, err := st.TeamByName(cmd.Context(), teamName)
	if err != nil {
		return fmt.Errorf("resolve team %q: %w", teamName, err)
	}
	fixtures, err := st.TeamFixtures(cmd.Context(), team.ID, viper.GetString("calendar.default_location"))
	if err != nil {
		return fmt.Errorf("load fixtures for %q: %w", teamName, err)
	}

	due := mailer.DueFixtures(fixtures, team.ID, time.Now(), tz, viper.GetInt("reminder.days_before"))
	if len(due) == 0 {
		logger.Info("No fixtures due for a reminder", zap.String("team", teamName))
		return nil
	}

	m := mailer.New(smtpCfg, logger)
	for _, r := range due {
		if err := m.Send(cmd.Context(), r); err != nil {
			return fmt.Errorf("send reminder for %q: %w", r.Opponent, err)
		}
	}

	logger.Info("Remind command finished.",
		zap.String("team", teamName),
		zap.Int("reminders", len(due)),
	)
	return nil
}
