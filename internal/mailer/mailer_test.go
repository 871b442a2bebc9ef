package mailer

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("smtp.host", "smtp.example.com")
	v.Set("smtp.port", 465)
	v.Set("smtp.username", "mark@example.com")
	v.Set("smtp.password", "hunter2")
	v.Set("smtp.recipients", []string{"squad@example.com"})

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, "smtp.example.com", cfg.Host)
	// Sender defaults to the username when unset.
	require.Equal(t, "mark@example.com", cfg.Sender)
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("smtp.host", "smtp.example.com")
	v.Set("smtp.username", "mark@example.com")
	v.Set("smtp.recipients", []string{"squad@example.com"})

	_, err := LoadConfig(v)
	require.ErrorContains(t, err, "smtp.password")
}

func TestDueFixtures(t *testing.T) {
	t.Parallel()

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	const teamID = int64(7)

	fixtures := []store.FixtureDetail{
		{HomeTeamID: teamID, AwayTeamID: 8, AwayName: "TeamY",
			Kickoff: time.Date(2025, 5, 12, 17, 30, 0, 0, time.UTC)},
		{HomeTeamID: 9, HomeName: "TeamZ", AwayTeamID: teamID,
			Kickoff: time.Date(2025, 5, 12, 19, 0, 0, 0, time.UTC)},
		{HomeTeamID: teamID, AwayTeamID: 9, AwayName: "TeamZ",
			Kickoff: time.Date(2025, 5, 19, 17, 30, 0, 0, time.UTC)},
	}

	now := time.Date(2025, 5, 12, 9, 0, 0, 0, london)
	due := DueFixtures(fixtures, teamID, now, london, 0)
	require.Len(t, due, 2)
	require.Equal(t, "TeamY", due[0].Opponent)
	// Away fixture names the home side as the opponent.
	require.Equal(t, "TeamZ", due[1].Opponent)

	// One day ahead picks up nothing; a week ahead finds the next match.
	require.Empty(t, DueFixtures(fixtures, teamID, now, london, 1))
	require.Len(t, DueFixtures(fixtures, teamID, now, london, 7), 1)
}

func TestReminderMessage(t *testing.T) {
	t.Parallel()

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	r := Reminder{
		Kickoff:  time.Date(2025, 5, 12, 17, 30, 0, 0, time.UTC).In(london),
		Opponent: "TeamY",
	}
	require.Equal(t, "Available v TeamY", r.Subject())
	require.Equal(t, "Hi,\n\nCan you make **18:30** versus **TeamY**?\n\nCheers,\nMark", r.Body())
}
