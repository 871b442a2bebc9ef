// Package mailer sends same-day fixture reminders over SMTPS.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

// Config carries the SMTP connection settings. All fields except Sender are
// required; Sender falls back to Username.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Sender     string
	Recipients []string
}

// LoadConfig reads the smtp.* keys and fails fast on anything missing.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:       v.GetString("smtp.host"),
		Port:       v.GetInt("smtp.port"),
		Username:   v.GetString("smtp.username"),
		Password:   v.GetString("smtp.password"),
		Sender:     v.GetString("smtp.sender"),
		Recipients: v.GetStringSlice("smtp.recipients"),
	}
	if cfg.Sender == "" {
		cfg.Sender = cfg.Username
	}
	switch {
	case cfg.Host == "":
		return cfg, fmt.Errorf("smtp.host is required")
	case cfg.Username == "":
		return cfg, fmt.Errorf("smtp.username is required")
	case cfg.Password == "":
		return cfg, fmt.Errorf("smtp.password is required")
	case len(cfg.Recipients) == 0:
		return cfg, fmt.Errorf("smtp.recipients is required")
	}
	return cfg, nil
}

// Reminder is one email-worthy fixture.
type Reminder struct {
	Kickoff  time.Time
	Opponent string
}

// DueFixtures filters the team's fixtures down to those kicking off on the
// reminder date, which is now plus daysBefore in the display timezone.
func DueFixtures(fixtures []store.FixtureDetail, teamID int64, now time.Time, tz *time.Location, daysBefore int) []Reminder {
	target := now.In(tz).AddDate(0, 0, daysBefore)
	ty, tm, td := target.Date()

	var due []Reminder
	for _, f := range fixtures {
		kickoff := f.Kickoff.In(tz)
		y, m, d := kickoff.Date()
		if y != ty || m != tm || d != td {
			continue
		}
		opponent := f.AwayName
		if f.AwayTeamID == teamID {
			opponent = f.HomeName
		}
		due = append(due, Reminder{Kickoff: kickoff, Opponent: opponent})
	}
	return due
}

// Subject is the reminder's email subject line.
func (r Reminder) Subject() string {
	return fmt.Sprintf("Available v %s", r.Opponent)
}

// Body is the reminder's plain-text email body.
func (r Reminder) Body() string {
	return fmt.Sprintf("Hi,\n\nCan you make **%s** versus **%s**?\n\nCheers,\nMark",
		r.Kickoff.Format("15:04"), r.Opponent)
}

// Mailer delivers reminders through one SMTPS connection per send.
type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

// New constructs a Mailer.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers one reminder to every configured recipient.
func (m *Mailer) Send(ctx context.Context, r Reminder) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("set sender %q: %w", m.cfg.Sender, err)
	}
	if err := msg.To(m.cfg.Recipients...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(r.Subject())
	msg.SetBodyString(mail.TypeTextPlain, r.Body())

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	m.logger.Info("Sent reminder",
		zap.String("opponent", r.Opponent),
		zap.Time("kickoff", r.Kickoff),
	)
	return nil
}
