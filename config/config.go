// Package config loads portfolio definitions from YAML.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/purchase"
	"github.com/jb68/moneybot/internal/services/signals"
	"github.com/jb68/moneybot/internal/services/strategy"
)

// Strategy names accepted in the strategy field.
const (
	StrategyBuyHold     = "buyhold"
	StrategyEqualWeight = "equalweight"
	StrategyBuffed      = "buffed"
)

// Snapshot source names accepted in the source field.
const (
	SourceFile        = "file"
	SourceBinance     = "binance"
	SourceBybit       = "bybit"
	SourceHyperliquid = "hyperliquid"
)

const (
	defaultHyperliquidURL   = "https://api.hyperliquid.xyz"
	defaultHistoryInterval  = time.Hour
	defaultHistoryLimit     = 500
	defaultSnapshotFileName = "snapshot.json"
)

// Config one portfolio.
type Config struct {
	Name           string
	Strategy       string
	Fiat           domain.Coin
	Purchase       purchase.Params
	Source         string
	SnapshotFile   string
	HyperliquidURL string
	Balances       map[domain.Coin]decimal.Decimal
	Buffed         strategy.BuffedParams
	CrashGuard     CrashGuard
}

// CrashGuard momentum filter settings.
type CrashGuard struct {
	Enabled   bool
	Interval  time.Duration
	Limit     int
	Threshold float64
	Windows   signals.Windows
}

// KlineInterval returns Interval in exchange notation, e.g. "1h" or "15m".
func (c CrashGuard) KlineInterval() string {
	switch {
	case c.Interval%(24*time.Hour) == 0:
		return strconv.Itoa(int(c.Interval/(24*time.Hour))) + "d"
	case c.Interval%time.Hour == 0:
		return strconv.Itoa(int(c.Interval/time.Hour)) + "h"
	default:
		return strconv.Itoa(int(c.Interval/time.Minute)) + "m"
	}
}

// ConfigTmp raw YAML form of Config.
type ConfigTmp struct {
	Name           string            `yaml:"name"`
	Strategy       string            `yaml:"strategy"`
	Fiat           string            `yaml:"fiat"`
	Fee            string            `yaml:"fee,omitempty"`
	PriceKey       string            `yaml:"price_key,omitempty"`
	MinTradeValue  string            `yaml:"min_trade_value,omitempty"`
	Source         string            `yaml:"source"`
	SnapshotFile   string            `yaml:"snapshot_file,omitempty"`
	HyperliquidURL string            `yaml:"hyperliquid_url,omitempty"`
	Balances       map[string]string `yaml:"balances"`
	Buffed         BuffedTmp         `yaml:"buffed,omitempty"`
	CrashGuard     CrashGuardTmp     `yaml:"crash_guard,omitempty"`
}

// BuffedTmp raw YAML form of strategy.BuffedParams.
type BuffedTmp struct {
	Mode       string `yaml:"mode,omitempty"`
	Multiplier string `yaml:"multiplier,omitempty"`
	Power      string `yaml:"power,omitempty"`
}

// CrashGuardTmp raw YAML form of CrashGuard.
type CrashGuardTmp struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval,omitempty"`
	Limit     int           `yaml:"limit,omitempty"`
	Threshold string        `yaml:"threshold,omitempty"`
	Short     float64       `yaml:"short,omitempty"`
	Long      float64       `yaml:"long,omitempty"`
	Signal    float64       `yaml:"signal,omitempty"`
}

// Get reads the portfolio list from the YAML file at path.
func Get(path string) ([]Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(f)
}

// Parse decodes a YAML portfolio list.
func Parse(data []byte) ([]Config, error) {
	var configsTmp []ConfigTmp
	if err := yaml.Unmarshal(data, &configsTmp); err != nil {
		return nil, errors.Wrap(err, "decode yaml config")
	}
	if len(configsTmp) == 0 {
		return nil, errors.New("config defines no portfolios")
	}

	configs := make([]Config, 0, len(configsTmp))
	names := make(map[string]struct{}, len(configsTmp))
	for i, c := range configsTmp {
		cfg, err := c.toConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "portfolio #%d", i+1)
		}
		if cfg.Name == "" {
			cfg.Name = "portfolio-" + strconv.Itoa(i+1)
		}
		if _, dup := names[cfg.Name]; dup {
			return nil, errors.Errorf("duplicate portfolio name %q", cfg.Name)
		}
		names[cfg.Name] = struct{}{}

		configs = append(configs, cfg)
	}
	return configs, nil
}

func (c ConfigTmp) toConfig() (Config, error) {
	cfg := Config{
		Name:           c.Name,
		Strategy:       c.Strategy,
		Fiat:           domain.Coin(c.Fiat),
		Purchase:       purchase.DefaultParams(),
		Source:         c.Source,
		SnapshotFile:   c.SnapshotFile,
		HyperliquidURL: c.HyperliquidURL,
		Balances:       make(map[domain.Coin]decimal.Decimal, len(c.Balances)),
		Buffed:         strategy.DefaultBuffedParams(),
		CrashGuard: CrashGuard{
			Enabled:  c.CrashGuard.Enabled,
			Interval: defaultHistoryInterval,
			Limit:    defaultHistoryLimit,
			Windows:  signals.DefaultWindows(),
		},
	}

	if cfg.Strategy == "" {
		cfg.Strategy = StrategyBuyHold
	}
	switch cfg.Strategy {
	case StrategyBuyHold, StrategyEqualWeight, StrategyBuffed:
	default:
		return Config{}, errors.Errorf("incorrect 'strategy' param %q, expected buyhold, equalweight or buffed", cfg.Strategy)
	}

	if cfg.Fiat == "" {
		cfg.Fiat = domain.DefaultFiat
	}

	if cfg.Source == "" {
		cfg.Source = SourceFile
	}
	switch cfg.Source {
	case SourceFile:
		if cfg.SnapshotFile == "" {
			cfg.SnapshotFile = defaultSnapshotFileName
		}
	case SourceHyperliquid:
		if cfg.HyperliquidURL == "" {
			cfg.HyperliquidURL = defaultHyperliquidURL
		}
	case SourceBinance, SourceBybit:
	default:
		return Config{}, errors.Errorf("incorrect 'source' param %q, expected file, binance, bybit or hyperliquid", cfg.Source)
	}

	if err := c.parsePurchase(&cfg.Purchase); err != nil {
		return Config{}, err
	}
	cfg.Buffed.PriceKey = cfg.Purchase.PriceKey

	for coin, amount := range c.Balances {
		v, err := decimal.NewFromString(amount)
		if err != nil {
			return Config{}, errors.Wrapf(err, "incorrect balance of %s", coin)
		}
		if v.IsNegative() {
			return Config{}, errors.Errorf("balance of %s must not be negative, got %s", coin, amount)
		}
		cfg.Balances[domain.Coin(coin)] = v
	}

	if err := c.Buffed.parse(&cfg.Buffed); err != nil {
		return Config{}, err
	}
	if err := c.CrashGuard.parse(&cfg.CrashGuard); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c ConfigTmp) parsePurchase(p *purchase.Params) error {
	if c.Fee != "" {
		fee, err := decimal.NewFromString(c.Fee)
		if err != nil {
			return errors.Wrap(err, "incorrect 'fee' param (must be a decimal)")
		}
		p.Fee = fee
	}
	if c.PriceKey != "" {
		p.PriceKey = domain.PriceKey(c.PriceKey)
	}
	if c.MinTradeValue != "" {
		minValue, err := decimal.NewFromString(c.MinTradeValue)
		if err != nil {
			return errors.Wrap(err, "incorrect 'min_trade_value' param (must be a decimal)")
		}
		p.MinTradeValue = minValue
	}
	return p.Validate()
}

func (b BuffedTmp) parse(p *strategy.BuffedParams) error {
	if b.Mode != "" {
		p.Mode = strategy.BuffedMode(b.Mode)
	}
	if !p.Mode.IsValid() {
		return errors.Errorf("incorrect 'buffed.mode' param %q, expected multiplier or power", b.Mode)
	}
	if b.Multiplier != "" {
		v, err := strconv.ParseFloat(b.Multiplier, 64)
		if err != nil {
			return errors.Wrap(err, "incorrect 'buffed.multiplier' param")
		}
		p.Multiplier = v
	}
	if b.Power != "" {
		v, err := strconv.ParseFloat(b.Power, 64)
		if err != nil {
			return errors.Wrap(err, "incorrect 'buffed.power' param")
		}
		p.Power = v
	}
	if p.Multiplier <= 0 || p.Power <= 0 {
		return errors.Errorf("buffed multiplier and power must be positive, got %g and %g", p.Multiplier, p.Power)
	}
	return nil
}

func (g CrashGuardTmp) parse(c *CrashGuard) error {
	if g.Interval != 0 {
		if g.Interval < time.Minute {
			return errors.Errorf("crash_guard.interval must be at least 1m, got %s", g.Interval)
		}
		c.Interval = g.Interval
	}
	if g.Limit != 0 {
		c.Limit = g.Limit
	}
	if c.Limit <= 0 {
		return errors.Errorf("crash_guard.limit must be positive, got %d", c.Limit)
	}
	if g.Threshold != "" {
		v, err := strconv.ParseFloat(g.Threshold, 64)
		if err != nil {
			return errors.Wrap(err, "incorrect 'crash_guard.threshold' param")
		}
		c.Threshold = v
	}
	if g.Short != 0 {
		c.Windows.Short = g.Short
	}
	if g.Long != 0 {
		c.Windows.Long = g.Long
	}
	if g.Signal != 0 {
		c.Windows.Signal = g.Signal
	}
	return c.Windows.Validate()
}
