// Package config loads and validates the scanner configuration from a
// YAML file layered over built-in defaults. Credentials come from the
// environment and never from the file.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sentinel-quant/sentinel/internal/engine"
	"github.com/sentinel-quant/sentinel/pkg/errors"
)

// Environment variables holding credentials.
const (
	EnvBinanceAPIKey    = "BINANCE_API_KEY"
	EnvBinanceSecretKey = "BINANCE_SECRET_KEY"
	EnvTelegramBotToken = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID   = "TELEGRAM_CHAT_ID"
)

// EngineSettings are the tunables of the signal engine exposed through the
// config file. Indicator parameters keep their built-in defaults.
type EngineSettings struct {
	PrimaryInterval        string  `yaml:"primary_interval" validate:"required"`
	ConfirmInterval        string  `yaml:"confirm_interval" validate:"required"`
	CandleLimit            int     `yaml:"candle_limit" validate:"min=50"`
	SignalThreshold        int     `yaml:"signal_threshold" validate:"min=0,max=100"`
	ConfirmationMultiplier float64 `yaml:"confirmation_multiplier" validate:"gt=0"`

	MarketFilterEnabled bool    `yaml:"market_filter_enabled"`
	MarketFilterSymbol  string  `yaml:"market_filter_symbol" validate:"required_with=MarketFilterEnabled"`
	DropThresholdPct    float64 `yaml:"drop_threshold_pct" validate:"lt=0"`
	PumpThresholdPct    float64 `yaml:"pump_threshold_pct" validate:"gt=0"`

	SizeModeratePct float64 `yaml:"size_moderate_pct" validate:"gt=0,lte=100"`
	SizeStrongPct   float64 `yaml:"size_strong_pct" validate:"gt=0,lte=100"`

	ExitTimeHours int `yaml:"exit_time_hours" validate:"min=1"`
}

// TradingSettings control live order execution.
type TradingSettings struct {
	// Enabled switches from paper mode to live Binance futures orders.
	Enabled  bool `yaml:"enabled"`
	Leverage int  `yaml:"leverage" validate:"min=1,max=125"`
}

// LedgerSettings control equity ledger persistence.
type LedgerSettings struct {
	Path            string  `yaml:"path" validate:"required"`
	StartingBalance float64 `yaml:"starting_balance" validate:"gt=0"`
}

// Credentials are read from the environment, not the config file.
type Credentials struct {
	BinanceAPIKey    string `yaml:"-"`
	BinanceSecretKey string `yaml:"-"`
	TelegramBotToken string `yaml:"-"`
	TelegramChatID   string `yaml:"-"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel string   `yaml:"log_level" validate:"oneof=debug info warn error"`
	Symbols  []string `yaml:"symbols" validate:"required,min=1,dive,required"`

	ScanIntervalMinutes      int `yaml:"scan_interval_minutes" validate:"min=1"`
	ExitCheckIntervalMinutes int `yaml:"exit_check_interval_minutes" validate:"min=1"`
	SignalCooldownMinutes    int `yaml:"signal_cooldown_minutes" validate:"min=0"`
	MaxOpenPositions         int `yaml:"max_open_positions" validate:"min=1"`

	Engine  EngineSettings  `yaml:"engine"`
	Trading TradingSettings `yaml:"trading"`
	Ledger  LedgerSettings  `yaml:"ledger"`

	Credentials Credentials `yaml:"-"`
}

// DefaultConfig returns the built-in configuration: the top USDT perpetuals
// scanned every five minutes with the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Symbols: []string{
			"BTCUSDT", "ETHUSDT", "SOLUSDT", "BNBUSDT", "XRPUSDT",
			"DOGEUSDT", "ADAUSDT", "AVAXUSDT", "LINKUSDT", "DOTUSDT",
			"POLUSDT", "SUIUSDT", "APTUSDT", "OPUSDT", "ARBUSDT",
			"FILUSDT", "NEARUSDT", "ATOMUSDT", "LTCUSDT", "UNIUSDT",
			"WIFUSDT", "1000PEPEUSDT", "AAVEUSDT", "INJUSDT", "TIAUSDT",
		},
		ScanIntervalMinutes:      5,
		ExitCheckIntervalMinutes: 5,
		SignalCooldownMinutes:    60,
		MaxOpenPositions:         3,
		Engine: EngineSettings{
			PrimaryInterval:        "1h",
			ConfirmInterval:        "4h",
			CandleLimit:            200,
			SignalThreshold:        70,
			ConfirmationMultiplier: 1.3,
			MarketFilterEnabled:    true,
			MarketFilterSymbol:     "BTCUSDT",
			DropThresholdPct:       -1.0,
			PumpThresholdPct:       1.0,
			SizeModeratePct:        5.0,
			SizeStrongPct:          10.0,
			ExitTimeHours:          4,
		},
		Trading: TradingSettings{
			Enabled:  false,
			Leverage: 10,
		},
		Ledger: LedgerSettings{
			Path:            "ledger.yaml",
			StartingBalance: 46.0,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// credential environment variables, then validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err,
				"failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err,
				"failed to parse config file %s", path)
		}
	}

	cfg.Credentials = Credentials{
		BinanceAPIKey:    os.Getenv(EnvBinanceAPIKey),
		BinanceSecretKey: os.Getenv(EnvBinanceSecretKey),
		TelegramBotToken: os.Getenv(EnvTelegramBotToken),
		TelegramChatID:   os.Getenv(EnvTelegramChatID),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags and
// cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Trading.Enabled {
		if c.Credentials.BinanceAPIKey == "" || c.Credentials.BinanceSecretKey == "" {
			return errors.Newf(errors.ErrCodeInvalidConfiguration,
				"live trading requires %s and %s", EnvBinanceAPIKey, EnvBinanceSecretKey)
		}
	}

	return nil
}

// ScanInterval returns the scan loop cadence.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalMinutes) * time.Minute
}

// ExitCheckInterval returns the exit-check loop cadence.
func (c *Config) ExitCheckInterval() time.Duration {
	return time.Duration(c.ExitCheckIntervalMinutes) * time.Minute
}

// SignalCooldown returns the per-symbol minimum time between signals.
func (c *Config) SignalCooldown() time.Duration {
	return time.Duration(c.SignalCooldownMinutes) * time.Minute
}

// EngineConfig maps the file settings onto the engine defaults.
func (c *Config) EngineConfig() engine.Config {
	ec := engine.DefaultConfig()
	ec.PrimaryInterval = c.Engine.PrimaryInterval
	ec.ConfirmInterval = c.Engine.ConfirmInterval
	ec.CandleLimit = c.Engine.CandleLimit
	ec.SignalThreshold = c.Engine.SignalThreshold
	ec.ConfirmationMultiplier = c.Engine.ConfirmationMultiplier
	ec.MarketFilterEnabled = c.Engine.MarketFilterEnabled
	ec.MarketFilterSymbol = c.Engine.MarketFilterSymbol
	ec.DropThresholdPct = c.Engine.DropThresholdPct
	ec.PumpThresholdPct = c.Engine.PumpThresholdPct
	ec.SizeModeratePct = c.Engine.SizeModeratePct
	ec.SizeStrongPct = c.Engine.SizeStrongPct
	ec.ExitAfter = time.Duration(c.Engine.ExitTimeHours) * time.Hour

	return ec
}
