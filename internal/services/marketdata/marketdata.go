// Package marketdata builds market snapshots and price histories from
// files and exchange APIs.
package marketdata

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/jb68/moneybot/internal/domain"
)

// SnapshotSource provides the current chart data of every market quoted in fiat.
type SnapshotSource interface {
	Snapshot(ctx context.Context, fiat domain.Coin) (domain.MarketSnapshot, error)
}

// HistorySource provides the most recent limit prices of market, oldest first.
type HistorySource interface {
	History(ctx context.Context, market domain.Market, limit int) ([]float64, error)
}

// ticker 24h statistics as exchanges report them, before parsing.
type ticker struct {
	symbol      string
	open        string
	high        string
	low         string
	last        string
	volume      string
	quoteVolume string
	// weightedAvg is empty when the exchange does not report it; it is then
	// derived from quoteVolume / volume, falling back to last.
	weightedAvg string
	closeTime   int64
}

// coinFromSymbol returns the base coin of an exchange symbol quoted in fiat.
func coinFromSymbol(symbol string, fiat domain.Coin) (domain.Coin, bool) {
	f := string(fiat)
	if !strings.HasSuffix(symbol, f) || len(symbol) == len(f) {
		return "", false
	}
	return domain.Coin(strings.TrimSuffix(symbol, f)), true
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse %s %q", field, value)
	}
	return d, nil
}

func (t ticker) chartData() (domain.ChartData, error) {
	var c domain.ChartData
	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"open", t.open, &c.Open},
		{"high", t.high, &c.High},
		{"low", t.low, &c.Low},
		{"close", t.last, &c.Close},
		{"volume", t.volume, &c.Volume},
		{"quote volume", t.quoteVolume, &c.QuoteVolume},
		{"weighted average", t.weightedAvg, &c.WeightedAverage},
	}
	for _, f := range fields {
		v, err := parseDecimal(f.name, f.value)
		if err != nil {
			return domain.ChartData{}, errors.Wrap(err, t.symbol)
		}
		*f.dst = v
	}

	if t.weightedAvg == "" {
		c.WeightedAverage = c.Close
		if c.Volume.IsPositive() {
			c.WeightedAverage = c.QuoteVolume.Div(c.Volume)
		}
	}
	c.Date = t.closeTime / 1000

	return c, nil
}

// snapshotFromTickers keeps the tickers quoted in fiat with a positive price.
func snapshotFromTickers(tickers []ticker, fiat domain.Coin) (domain.MarketSnapshot, error) {
	snapshot := make(domain.MarketSnapshot)
	for _, t := range tickers {
		coin, ok := coinFromSymbol(t.symbol, fiat)
		if !ok {
			continue
		}

		c, err := t.chartData()
		if err != nil {
			return nil, err
		}
		if !c.WeightedAverage.IsPositive() {
			continue
		}
		snapshot[domain.NewMarket(fiat, coin).String()] = c
	}
	return snapshot, nil
}
