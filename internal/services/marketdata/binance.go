package marketdata

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"github.com/jb68/moneybot/internal/domain"
)

// BinanceSource builds snapshots from Binance 24h ticker statistics.
type BinanceSource struct {
	client *binance.Client
}

// NewBinanceSource returns a BinanceSource using client.
func NewBinanceSource(client *binance.Client) *BinanceSource {
	return &BinanceSource{client: client}
}

// Snapshot fetches every 24h ticker and keeps the symbols quoted in fiat.
func (s *BinanceSource) Snapshot(ctx context.Context, fiat domain.Coin) (domain.MarketSnapshot, error) {
	stats, err := s.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch 24h tickers from Binance")
	}

	tickers := make([]ticker, 0, len(stats))
	for _, st := range stats {
		tickers = append(tickers, ticker{
			symbol:      st.Symbol,
			open:        st.OpenPrice,
			high:        st.HighPrice,
			low:         st.LowPrice,
			last:        st.LastPrice,
			volume:      st.Volume,
			quoteVolume: st.QuoteVolume,
			weightedAvg: st.WeightedAvgPrice,
			closeTime:   st.CloseTime,
		})
	}

	return snapshotFromTickers(tickers, fiat)
}

// BinanceHistory reads close prices from Binance klines.
type BinanceHistory struct {
	client   *binance.Client
	interval string
}

// NewBinanceHistory returns a BinanceHistory for klines of interval, e.g. "1h".
func NewBinanceHistory(client *binance.Client, interval string) *BinanceHistory {
	return &BinanceHistory{client: client, interval: interval}
}

// History returns the last limit kline closes of market, oldest first.
func (h *BinanceHistory) History(ctx context.Context, market domain.Market, limit int) ([]float64, error) {
	if limit <= 0 {
		return nil, errors.Errorf("limit must be > 0, got %d", limit)
	}

	klines, err := h.client.NewKlinesService().
		Symbol(market.Symbol()).
		Interval(h.interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Binance for %s", market)
	}

	closes := make([]string, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
	}
	return parseCloses(closes)
}

func parseCloses(closes []string) ([]float64, error) {
	out := make([]float64, len(closes))
	for i, c := range closes {
		price, err := parseDecimal("close", c)
		if err != nil {
			return nil, errors.Wrapf(err, "kline %d", i)
		}
		out[i] = price.InexactFloat64()
	}
	return out, nil
}
