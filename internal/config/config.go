package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string   `mapstructure:"ENV"`
	APIBaseURL     string   `mapstructure:"API_BASE_URL"`
	APITimeoutSecs int      `mapstructure:"API_TIMEOUT_SECS"`
	AuthToken      string   `mapstructure:"AUTH_TOKEN"`
	FixturePort    string   `mapstructure:"FIXTURE_PORT"`
	FixtureSeed    int64    `mapstructure:"FIXTURE_SEED"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("API_TIMEOUT_SECS", 15)
	v.SetDefault("FIXTURE_PORT", "8000")
	v.SetDefault("FIXTURE_SEED", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("API_TIMEOUT_SECS")
	v.BindEnv("AUTH_TOKEN")
	v.BindEnv("FIXTURE_PORT")
	v.BindEnv("FIXTURE_SEED")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// APITimeout returns the per-request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	if c.APITimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.APITimeoutSecs) * time.Second
}
