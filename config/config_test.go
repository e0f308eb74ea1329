package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/signals"
	"github.com/jb68/moneybot/internal/services/strategy"
)

func TestParse_Defaults(t *testing.T) {
	configs, err := Parse([]byte(`
- balances:
    BTC: "1.5"
`))
	require.NoError(t, err)
	require.Len(t, configs, 1)

	c := configs[0]
	assert.Equal(t, "portfolio-1", c.Name)
	assert.Equal(t, StrategyBuyHold, c.Strategy)
	assert.Equal(t, domain.Coin("BTC"), c.Fiat)
	assert.Equal(t, SourceFile, c.Source)
	assert.Equal(t, "snapshot.json", c.SnapshotFile)
	assert.True(t, c.Purchase.Fee.Equal(decimal.RequireFromString("0.0025")))
	assert.True(t, c.Purchase.MinTradeValue.Equal(decimal.RequireFromString("0.0001")))
	assert.Equal(t, domain.PriceKeyWeightedAverage, c.Purchase.PriceKey)
	assert.True(t, c.Balances["BTC"].Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, strategy.BuffedModeMultiplier, c.Buffed.Mode)
	assert.False(t, c.CrashGuard.Enabled)
	assert.Equal(t, signals.DefaultWindows(), c.CrashGuard.Windows)
	assert.Equal(t, 500, c.CrashGuard.Limit)
	assert.Equal(t, "1h", c.CrashGuard.KlineInterval())
}

func TestParse_Full(t *testing.T) {
	configs, err := Parse([]byte(`
- name: main
  strategy: buffed
  fiat: USDT
  fee: "0.001"
  price_key: close
  min_trade_value: "10"
  source: hyperliquid
  balances: {USDT: "1000", ETH: "0.5"}
  buffed: {mode: power, multiplier: "3", power: "1.5"}
  crash_guard: {enabled: true, interval: 15m, limit: 200, threshold: "-0.01", short: 12, long: 26, signal: 4}
- name: second
  strategy: equalweight
  source: binance
`))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	c := configs[0]
	assert.Equal(t, "main", c.Name)
	assert.Equal(t, StrategyBuffed, c.Strategy)
	assert.Equal(t, domain.Coin("USDT"), c.Fiat)
	assert.Equal(t, defaultHyperliquidURL, c.HyperliquidURL)
	assert.Equal(t, domain.PriceKeyClose, c.Purchase.PriceKey)
	assert.Equal(t, domain.PriceKeyClose, c.Buffed.PriceKey)
	assert.True(t, c.Purchase.Fee.Equal(decimal.RequireFromString("0.001")))
	assert.True(t, c.Balances["ETH"].Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, strategy.BuffedParams{Mode: strategy.BuffedModePower, Multiplier: 3, Power: 1.5, PriceKey: domain.PriceKeyClose}, c.Buffed)
	assert.Equal(t, CrashGuard{
		Enabled:   true,
		Interval:  15 * time.Minute,
		Limit:     200,
		Threshold: -0.01,
		Windows:   signals.Windows{Short: 12, Long: 26, Signal: 4},
	}, c.CrashGuard)
	assert.Equal(t, "15m", c.CrashGuard.KlineInterval())

	assert.Equal(t, StrategyEqualWeight, configs[1].Strategy)
	assert.Equal(t, SourceBinance, configs[1].Source)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: ``},
		{name: "not a list", yaml: `name: main`},
		{name: "unknown strategy", yaml: `[{strategy: yolo}]`},
		{name: "unknown source", yaml: `[{source: kraken}]`},
		{name: "bad fee", yaml: `[{fee: "abc"}]`},
		{name: "fee out of range", yaml: `[{fee: "1"}]`},
		{name: "unknown price key", yaml: `[{price_key: median}]`},
		{name: "bad min trade value", yaml: `[{min_trade_value: "x"}]`},
		{name: "bad balance", yaml: `[{balances: {BTC: "lots"}}]`},
		{name: "negative balance", yaml: `[{balances: {BTC: "-1"}}]`},
		{name: "unknown buffed mode", yaml: `[{buffed: {mode: sideways}}]`},
		{name: "zero multiplier", yaml: `[{buffed: {multiplier: "0"}}]`},
		{name: "negative window", yaml: `[{crash_guard: {short: -1}}]`},
		{name: "negative limit", yaml: `[{crash_guard: {limit: -5}}]`},
		{name: "short interval", yaml: `[{crash_guard: {interval: 10s}}]`},
		{name: "duplicate names", yaml: `[{name: a}, {name: a}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_UnknownPriceKeyIsTyped(t *testing.T) {
	_, err := Parse([]byte(`[{price_key: median}]`))
	assert.True(t, errors.Is(err, domain.ErrUnknownPriceKey))
}

func TestGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: file\n  balances: {BTC: \"2\"}\n"), 0o600))

	configs, err := Get(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "file", configs[0].Name)

	_, err = Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestKlineInterval(t *testing.T) {
	assert.Equal(t, "1d", CrashGuard{Interval: 24 * time.Hour}.KlineInterval())
	assert.Equal(t, "4h", CrashGuard{Interval: 4 * time.Hour}.KlineInterval())
	assert.Equal(t, "5m", CrashGuard{Interval: 5 * time.Minute}.KlineInterval())
}
