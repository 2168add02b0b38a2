package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithAPIKey(t *testing.T) {
	t.Setenv("SCANNER_API_KEY", "test-key-123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected config to load with API key, got error: %v", err)
	}

	if cfg.API.APIKey != "test-key-123" {
		t.Errorf("expected API key 'test-key-123', got '%s'", cfg.API.APIKey)
	}

	if cfg.API.BaseURL != "https://api.massive.com" {
		t.Errorf("expected default base URL, got '%s'", cfg.API.BaseURL)
	}

	if cfg.Scan.Workers != 3 {
		t.Errorf("expected 3 workers by default, got %d", cfg.Scan.Workers)
	}

	if cfg.Indicators.MAShort != 10 || cfg.Indicators.MALong != 20 || cfg.Indicators.RSIPeriod != 14 {
		t.Errorf("unexpected indicator defaults: %+v", cfg.Indicators)
	}

	if cfg.Options.TargetDeltaCall != 0.35 || cfg.Options.TargetDeltaPut != -0.35 {
		t.Errorf("unexpected delta targets: %+v", cfg.Options)
	}
}

func TestLoadWithoutAPIKey(t *testing.T) {
	_ = os.Unsetenv("SCANNER_API_KEY")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("SCANNER_API_KEY", "file-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
scan:
  workers: 5
options:
  min_dte: 20
  max_dte: 45
tickers:
  - SPY
  - QQQ
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scan.Workers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Scan.Workers)
	}
	if cfg.Options.MinDTE != 20 || cfg.Options.MaxDTE != 45 {
		t.Errorf("unexpected dte window: %+v", cfg.Options)
	}
	if got := cfg.ScanTickers(); len(got) != 2 || got[0] != "SPY" {
		t.Errorf("unexpected tickers: %v", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("SCANNER_API_KEY", "validate-test")

	base, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted dte window", func(c *Config) { c.Options.MinDTE = 90; c.Options.MaxDTE = 10 }},
		{"non-positive call delta", func(c *Config) { c.Options.TargetDeltaCall = -0.35 }},
		{"non-negative put delta", func(c *Config) { c.Options.TargetDeltaPut = 0.35 }},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"zero rate", func(c *Config) { c.Scan.RatePerSecond = 0 }},
		{"zero rsi period", func(c *Config) { c.Indicators.RSIPeriod = 0 }},
		{"zero move pct", func(c *Config) { c.Projection.AssumedMovePct = 0 }},
		{"email enabled without host", func(c *Config) { c.Notify.Email.Enabled = true }},
		{"ntfy enabled without topic", func(c *Config) { c.Notify.Ntfy.Enabled = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestScanTickersDefault(t *testing.T) {
	cfg := &Config{}
	got := cfg.ScanTickers()
	if len(got) == 0 {
		t.Fatal("expected default tickers")
	}
	if got[0] != "AAPL" {
		t.Errorf("unexpected first default ticker: %s", got[0])
	}
}

func TestSignalParams(t *testing.T) {
	t.Setenv("SCANNER_API_KEY", "params-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := cfg.SignalParams()
	if p.Trend.MALong != 20 {
		t.Errorf("expected MA long 20, got %d", p.Trend.MALong)
	}
	if p.Criteria.MinOpenInterest != 100 {
		t.Errorf("expected min OI 100, got %d", p.Criteria.MinOpenInterest)
	}
	if p.AssumedMovePct != 0.05 {
		t.Errorf("expected move pct 0.05, got %v", p.AssumedMovePct)
	}
}
