// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Jupiter   JupiterConfig   `mapstructure:"jupiter"`
	Tokens    TokensConfig    `mapstructure:"tokens"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// JupiterConfig holds Jupiter aggregator API configuration.
type JupiterConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
	DryRun            bool          `mapstructure:"dry_run"`
}

// TokenConfig describes one side of the traded pair.
type TokenConfig struct {
	Mint     string `mapstructure:"mint"`
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
}

// MintAddress returns the mint as a solana.PublicKey. It panics on an
// invalid address; Validate catches that first.
func (c *TokenConfig) MintAddress() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.Mint)
}

// TokensConfig holds the trading pair. A is the token being accumulated,
// B is the quote side.
type TokensConfig struct {
	A TokenConfig `mapstructure:"a"`
	B TokenConfig `mapstructure:"b"`
}

// StrategyConfig holds the alternating buy/sell strategy parameters.
type StrategyConfig struct {
	Amount                   float64       `mapstructure:"amount"`
	SlippageBps              int           `mapstructure:"slippage_bps"`
	TargetProfitPercent      float64       `mapstructure:"target_profit_percent"`
	AutoSlippage             bool          `mapstructure:"auto_slippage"`
	Compounding              bool          `mapstructure:"compounding"`
	PriorityFeeMicroLamports uint64        `mapstructure:"priority_fee_micro_lamports"`
	TickInterval             time.Duration `mapstructure:"tick_interval"`
	TUIMode                  bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// AmountDecimal returns the configured trade amount as decimal.Decimal.
func (c *StrategyConfig) AmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Amount)
}

// TargetProfitPercentDecimal returns the profit target as decimal.Decimal.
func (c *StrategyConfig) TargetProfitPercentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TargetProfitPercent)
}

// JournalConfig holds the order journal settings.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("PONG")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "PONG_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "PONG_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "PONG_LOG_LEVEL", "LOG_LEVEL")

	// Jupiter
	v.BindEnv("jupiter.base_url", "PONG_JUPITER_URL", "JUPITER_URL")
	v.BindEnv("jupiter.requests_per_minute", "PONG_JUPITER_RPM")
	v.BindEnv("jupiter.dry_run", "PONG_DRY_RUN", "DRY_RUN")

	// Tokens
	v.BindEnv("tokens.a.mint", "PONG_TOKEN_A_MINT", "TOKEN_A_MINT")
	v.BindEnv("tokens.a.symbol", "PONG_TOKEN_A_SYMBOL", "TOKEN_A_SYMBOL")
	v.BindEnv("tokens.a.decimals", "PONG_TOKEN_A_DECIMALS", "TOKEN_A_DECIMALS")
	v.BindEnv("tokens.b.mint", "PONG_TOKEN_B_MINT", "TOKEN_B_MINT")
	v.BindEnv("tokens.b.symbol", "PONG_TOKEN_B_SYMBOL", "TOKEN_B_SYMBOL")
	v.BindEnv("tokens.b.decimals", "PONG_TOKEN_B_DECIMALS", "TOKEN_B_DECIMALS")

	// Strategy
	v.BindEnv("strategy.amount", "PONG_AMOUNT", "TRADE_AMOUNT")
	v.BindEnv("strategy.slippage_bps", "PONG_SLIPPAGE_BPS", "SLIPPAGE_BPS")
	v.BindEnv("strategy.target_profit_percent", "PONG_TARGET_PROFIT_PERCENT")
	v.BindEnv("strategy.auto_slippage", "PONG_AUTO_SLIPPAGE")
	v.BindEnv("strategy.compounding", "PONG_COMPOUNDING")
	v.BindEnv("strategy.priority_fee_micro_lamports", "PONG_PRIORITY_FEE")

	// Journal
	v.BindEnv("journal.path", "PONG_JOURNAL_PATH")

	// Telemetry
	v.BindEnv("telemetry.enabled", "PONG_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "PONG_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "PONG_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "pingpong-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Jupiter defaults
	v.SetDefault("jupiter.base_url", "https://quote-api.jup.ag/v6")
	v.SetDefault("jupiter.requests_per_minute", 60)
	v.SetDefault("jupiter.timeout", "10s")
	v.SetDefault("jupiter.dry_run", true)

	// Token defaults: SOL / USDC
	v.SetDefault("tokens.a.mint", "So11111111111111111111111111111111111111112")
	v.SetDefault("tokens.a.symbol", "SOL")
	v.SetDefault("tokens.a.decimals", 9)
	v.SetDefault("tokens.b.mint", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	v.SetDefault("tokens.b.symbol", "USDC")
	v.SetDefault("tokens.b.decimals", 6)

	// Strategy defaults
	v.SetDefault("strategy.amount", 0.1)
	v.SetDefault("strategy.slippage_bps", 50)
	v.SetDefault("strategy.target_profit_percent", 1.0)
	v.SetDefault("strategy.auto_slippage", false)
	v.SetDefault("strategy.compounding", false)
	v.SetDefault("strategy.priority_fee_micro_lamports", 0)
	v.SetDefault("strategy.tick_interval", "5s")

	// Journal defaults
	v.SetDefault("journal.path", "pingpong.db")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "pingpong-bot")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Jupiter.BaseURL == "" {
		return fmt.Errorf("jupiter.base_url is required")
	}
	if c.Jupiter.RequestsPerMinute <= 0 {
		return fmt.Errorf("jupiter.requests_per_minute must be positive")
	}
	if _, err := solana.PublicKeyFromBase58(c.Tokens.A.Mint); err != nil {
		return fmt.Errorf("invalid tokens.a.mint %q: %w", c.Tokens.A.Mint, err)
	}
	if _, err := solana.PublicKeyFromBase58(c.Tokens.B.Mint); err != nil {
		return fmt.Errorf("invalid tokens.b.mint %q: %w", c.Tokens.B.Mint, err)
	}
	if c.Tokens.A.Mint == c.Tokens.B.Mint {
		return fmt.Errorf("tokens.a.mint and tokens.b.mint must differ")
	}
	if c.Tokens.A.Decimals == 0 || c.Tokens.B.Decimals == 0 {
		return fmt.Errorf("token decimals must be positive")
	}
	if c.Strategy.Amount <= 0 {
		return fmt.Errorf("strategy.amount must be positive")
	}
	if c.Strategy.SlippageBps < 0 {
		return fmt.Errorf("strategy.slippage_bps cannot be negative")
	}
	if c.Strategy.TargetProfitPercent <= 0 {
		return fmt.Errorf("strategy.target_profit_percent must be positive")
	}
	if c.Strategy.TickInterval <= 0 {
		return fmt.Errorf("strategy.tick_interval must be positive")
	}
	return nil
}
