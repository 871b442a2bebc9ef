package crawler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a crawl run. All values
// originate from Viper so the crawler can be configured via files, env vars,
// or CLI flags.
type Config struct {
	BaseURL         string
	LeaguePageURL   string
	UserAgent       string
	RequestTimeout  time.Duration
	RetryAttempts   int
	RetryBaseDelay  time.Duration
	LeagueDelay     time.Duration
	GroupDelay      time.Duration
	Limit           int
	Timezone        *time.Location
	DefaultLocation string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	tzName := v.GetString("calendar.timezone")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", tzName, err)
	}

	cfg := Config{
		BaseURL:         v.GetString("source.base_url"),
		LeaguePageURL:   v.GetString("source.league_page"),
		UserAgent:       v.GetString("crawler.user_agent"),
		RequestTimeout:  v.GetDuration("crawler.request_timeout"),
		RetryAttempts:   v.GetInt("crawler.retry_attempts"),
		RetryBaseDelay:  v.GetDuration("crawler.retry_base_delay"),
		LeagueDelay:     v.GetDuration("crawler.league_delay"),
		GroupDelay:      v.GetDuration("crawler.group_delay"),
		Limit:           v.GetInt("crawler.limit"),
		Timezone:        tz,
		DefaultLocation: v.GetString("calendar.default_location"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("source.base_url must be set")
	}
	if c.LeaguePageURL == "" {
		return fmt.Errorf("source.league_page must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("crawler.retry_attempts must be > 0")
	}
	if c.RetryBaseDelay < 0 {
		return fmt.Errorf("crawler.retry_base_delay must be >= 0")
	}
	if c.LeagueDelay < 0 {
		return fmt.Errorf("crawler.league_delay must be >= 0")
	}
	if c.Limit < 0 {
		return fmt.Errorf("crawler.limit must be >= 0")
	}
	if c.Timezone == nil {
		return fmt.Errorf("calendar.timezone must be set")
	}
	if c.DefaultLocation == "" {
		return fmt.Errorf("calendar.default_location must be set")
	}
	return nil
}
