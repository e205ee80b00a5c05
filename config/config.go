// Package config loads the ATM backend configuration from a TOML file,
// falling back to built-in defaults for anything the file leaves out.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full configuration tree.
type Config struct {
	HTTP      HTTPConfig      `toml:"http"`
	Bank      BankConfig      `toml:"bank"`
	Rules     RulesConfig     `toml:"rules"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// HTTPConfig configures the REST driver.
type HTTPConfig struct {
	Addr               string   `toml:"addr"`
	RequestTimeout     string   `toml:"request_timeout"`
	CORSOrigins        []string `toml:"cors_origins"`
	LoginRatePerMinute int      `toml:"login_rate_per_minute"`
	LoginBurst         int      `toml:"login_burst"`
}

// BankConfig sizes the ledger and credential pool and sets opening balances.
type BankConfig struct {
	MaxCustomers       int     `toml:"max_customers"`
	CredentialPoolSize int     `toml:"credential_pool_size"`
	StartingSavings    float64 `toml:"starting_savings"`
	StartingCurrent    float64 `toml:"starting_current"`
}

// RuleConfig is the minimum balance and penalty for one account type.
type RuleConfig struct {
	MinBalance float64 `toml:"min_balance"`
	Penalty    float64 `toml:"penalty"`
}

// RulesConfig holds one rule per account type.
type RulesConfig struct {
	Savings RuleConfig `toml:"savings"`
	Current RuleConfig `toml:"current"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// TelemetryConfig toggles metrics and trace export.
type TelemetryConfig struct {
	Metrics      bool   `toml:"metrics"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:               ":8080",
			RequestTimeout:     "10s",
			CORSOrigins:        []string{"*"},
			LoginRatePerMinute: 30,
			LoginBurst:         5,
		},
		Bank: BankConfig{
			MaxCustomers:       100,
			CredentialPoolSize: 10,
			StartingSavings:    10000,
			StartingCurrent:    25000,
		},
		Rules: RulesConfig{
			Savings: RuleConfig{MinBalance: 1000, Penalty: 50},
			Current: RuleConfig{MinBalance: 5000, Penalty: 250},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Metrics:     true,
			ServiceName: "go-atm",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("ATM_HTTP_ADDR"); ok && v != "" {
		c.HTTP.Addr = v
	}
	if v, ok := os.LookupEnv("ATM_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("ATM_OTLP_ENDPOINT"); ok {
		c.Telemetry.OTLPEndpoint = v
	}
}

// Validate rejects values the components cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Bank.MaxCustomers <= 0 {
		errs = append(errs, errors.New("bank.max_customers must be positive"))
	}
	// customer IDs are CUSTnnn
	if c.Bank.CredentialPoolSize <= 0 || c.Bank.CredentialPoolSize > 999 {
		errs = append(errs, errors.New("bank.credential_pool_size must be between 1 and 999"))
	}
	if c.Bank.StartingSavings < 0 || c.Bank.StartingCurrent < 0 {
		errs = append(errs, errors.New("bank starting balances must not be negative"))
	}
	for name, r := range map[string]RuleConfig{"savings": c.Rules.Savings, "current": c.Rules.Current} {
		if r.MinBalance < 0 || r.Penalty < 0 {
			errs = append(errs, fmt.Errorf("rules.%s values must not be negative", name))
		}
	}
	if _, err := c.HTTP.Timeout(); err != nil {
		errs = append(errs, err)
	}
	if c.HTTP.LoginRatePerMinute < 0 || c.HTTP.LoginBurst < 0 {
		errs = append(errs, errors.New("http login rate limits must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Timeout parses RequestTimeout. An empty value disables the timeout.
func (h HTTPConfig) Timeout() (time.Duration, error) {
	if h.RequestTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(h.RequestTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("http.request_timeout %q is not a valid duration", h.RequestTimeout)
	}
	return d, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
