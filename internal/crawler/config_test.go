package crawler

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/aydinaksel/clive-fixtures/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, "https://footballmundial.com", cfg.BaseURL)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, time.Second, cfg.RetryBaseDelay)
	require.Equal(t, 500*time.Millisecond, cfg.LeagueDelay)
	require.Equal(t, "Europe/London", cfg.Timezone.String())
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("calendar.timezone", "Mars/Olympus_Mons")

	_, err := LoadConfig(v)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	base, err := LoadConfig(v)
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }},
		{"missing user agent", func(c *Config) { c.UserAgent = "" }},
		{"zero retry attempts", func(c *Config) { c.RetryAttempts = 0 }},
		{"negative league delay", func(c *Config) { c.LeagueDelay = -time.Second }},
		{"negative limit", func(c *Config) { c.Limit = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := base
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
