// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so that configuration is loaded and available
// to all other packages.
func InitConfig() {
	// --- Set Search Paths ---
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                // Current working directory
	viper.AddConfigPath("/etc/fixtures/")   // System-wide configuration
	viper.AddConfigPath("$HOME/.fixtures")  // User-specific configuration

	// --- Set Defaults ---
	SetDefaults(viper.GetViper())

	// --- Environment Variables ---
	viper.SetEnvPrefix("FIXTURES") // e.g. FIXTURES_SMTP_HOST=mail.example.com
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; this is not a fatal error if we can
			// proceed with defaults and environment variables.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

// SetDefaults registers every configuration default on the given Viper
// instance. Exposed separately so tests can work against an isolated Viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.base_url", "https://footballmundial.com")
	v.SetDefault("source.league_page", "https://footballmundial.com/find_league")
	v.SetDefault("crawler.user_agent", "Mozilla/5.0 (compatible;)")
	v.SetDefault("crawler.request_timeout", "15s")
	v.SetDefault("crawler.retry_attempts", 3)
	v.SetDefault("crawler.retry_base_delay", "1s")
	v.SetDefault("crawler.league_delay", "500ms")
	v.SetDefault("crawler.group_delay", "0s")
	v.SetDefault("crawler.limit", 0)

	v.SetDefault("database.path", "docs/fixtures.db")
	v.SetDefault("output.dir", "docs")

	v.SetDefault("calendar.timezone", "Europe/London")
	v.SetDefault("calendar.default_location", "301 Huntington Rd, Huntington, York YO32 9WT")

	v.SetDefault("reminder.team", "CLIVE OWEN & CO")
	v.SetDefault("reminder.days_before", 0)
	v.SetDefault("smtp.port", 465)

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("log.development", false)
}
