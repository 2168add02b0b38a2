// Package config loads and validates scanner configuration from a YAML
// file with SCANNER_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/trendwise/options-scanner/internal/notify"
	"github.com/trendwise/options-scanner/internal/signal"
)

type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Scan       ScanConfig       `mapstructure:"scan"`
	Indicators IndicatorsConfig `mapstructure:"indicators"`
	Options    OptionsConfig    `mapstructure:"options"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Tickers    []string         `mapstructure:"tickers"`
}

type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
	RetryCount int    `mapstructure:"retry_count"`
	RetryDelay int    `mapstructure:"retry_delay_sec"`
}

type ScanConfig struct {
	Workers       int `mapstructure:"workers"`
	RatePerSecond int `mapstructure:"rate_per_second"`
	LookbackDays  int `mapstructure:"lookback_days"`
}

type IndicatorsConfig struct {
	MAShort   int `mapstructure:"ma_short"`
	MALong    int `mapstructure:"ma_long"`
	RSIPeriod int `mapstructure:"rsi_period"`
}

type OptionsConfig struct {
	MinDTE          int     `mapstructure:"min_dte"`
	MaxDTE          int     `mapstructure:"max_dte"`
	TargetDeltaCall float64 `mapstructure:"target_delta_call"`
	TargetDeltaPut  float64 `mapstructure:"target_delta_put"`
	MinOpenInterest int64   `mapstructure:"min_open_interest"`
}

type ProjectionConfig struct {
	AssumedMovePct float64 `mapstructure:"assumed_move_pct"`
}

type NotifyConfig struct {
	Email notify.EmailConfig `mapstructure:"email"`
	Ntfy  notify.NtfyConfig  `mapstructure:"ntfy"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

// DefaultTickers is the scan universe used when the config lists none.
func DefaultTickers() []string {
	return []string{"AAPL", "NVDA", "AMZN", "META", "MSFT", "TSLA", "GOOG", "WDC"}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("api.base_url", "https://api.massive.com")
	v.SetDefault("api.timeout_sec", 10)
	v.SetDefault("api.retry_count", 3)
	v.SetDefault("api.retry_delay_sec", 2)
	v.SetDefault("scan.workers", 3)
	v.SetDefault("scan.rate_per_second", 2)
	v.SetDefault("scan.lookback_days", 90)
	v.SetDefault("indicators.ma_short", 10)
	v.SetDefault("indicators.ma_long", 20)
	v.SetDefault("indicators.rsi_period", 14)
	v.SetDefault("options.min_dte", 10)
	v.SetDefault("options.max_dte", 60)
	v.SetDefault("options.target_delta_call", 0.35)
	v.SetDefault("options.target_delta_put", -0.35)
	v.SetDefault("options.min_open_interest", 100)
	v.SetDefault("projection.assumed_move_pct", 0.05)
	v.SetDefault("notify.email.port", 587)
	v.SetDefault("notify.ntfy.server", "https://ntfy.sh")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Explicitly bind nested keys to env vars
	_ = v.BindEnv("api.api_key", "SCANNER_API_KEY")
	_ = v.BindEnv("notify.email.username", "SCANNER_EMAIL_USERNAME")
	_ = v.BindEnv("notify.email.password", "SCANNER_EMAIL_PASSWORD")
	_ = v.BindEnv("notify.ntfy.token", "SCANNER_NTFY_TOKEN")

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.API.APIKey == "" {
		return fmt.Errorf("api_key is required (set SCANNER_API_KEY env var)")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be >= 1")
	}
	if c.Scan.RatePerSecond < 1 {
		return fmt.Errorf("scan.rate_per_second must be >= 1")
	}
	if c.Scan.LookbackDays < 1 {
		return fmt.Errorf("scan.lookback_days must be >= 1")
	}
	if c.Indicators.MAShort < 1 || c.Indicators.MALong < 1 {
		return fmt.Errorf("indicator moving-average windows must be >= 1")
	}
	if c.Indicators.RSIPeriod < 1 {
		return fmt.Errorf("indicators.rsi_period must be >= 1")
	}
	if c.Options.MinDTE > c.Options.MaxDTE {
		return fmt.Errorf("options.min_dte (%d) must not exceed options.max_dte (%d)",
			c.Options.MinDTE, c.Options.MaxDTE)
	}
	if c.Options.TargetDeltaCall <= 0 {
		return fmt.Errorf("options.target_delta_call must be positive")
	}
	if c.Options.TargetDeltaPut >= 0 {
		return fmt.Errorf("options.target_delta_put must be negative")
	}
	if c.Options.MinOpenInterest < 0 {
		return fmt.Errorf("options.min_open_interest must not be negative")
	}
	if c.Projection.AssumedMovePct <= 0 {
		return fmt.Errorf("projection.assumed_move_pct must be positive")
	}
	if err := c.Notify.Email.Validate(); err != nil {
		return err
	}
	if err := c.Notify.Ntfy.Validate(); err != nil {
		return err
	}
	return nil
}

// SignalParams converts the configuration into the pipeline's parameter set.
func (c *Config) SignalParams() signal.Params {
	return signal.Params{
		Trend: signal.TrendParams{
			MAShort:   c.Indicators.MAShort,
			MALong:    c.Indicators.MALong,
			RSIPeriod: c.Indicators.RSIPeriod,
		},
		Criteria: signal.Criteria{
			MinDTE:          c.Options.MinDTE,
			MaxDTE:          c.Options.MaxDTE,
			MinOpenInterest: c.Options.MinOpenInterest,
		},
		TargetDeltaCall: c.Options.TargetDeltaCall,
		TargetDeltaPut:  c.Options.TargetDeltaPut,
		AssumedMovePct:  c.Projection.AssumedMovePct,
	}
}

// NotifierConfig returns the notification backend configuration.
func (c *Config) NotifierConfig() *notify.Config {
	return &notify.Config{Email: c.Notify.Email, Ntfy: c.Notify.Ntfy}
}

// ScanTickers returns the configured scan universe, falling back to the
// defaults when none are configured.
func (c *Config) ScanTickers() []string {
	if len(c.Tickers) > 0 {
		return c.Tickers
	}
	return DefaultTickers()
}
