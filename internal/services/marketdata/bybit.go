package marketdata

import (
	"context"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/jb68/moneybot/internal/domain"
)

// BybitSource builds snapshots from Bybit V5 spot tickers.
type BybitSource struct {
	client *bybit.Client
}

// NewBybitSource returns a BybitSource using client.
func NewBybitSource(client *bybit.Client) *BybitSource {
	return &BybitSource{client: client}
}

// Snapshot fetches all spot tickers and keeps the symbols quoted in fiat.
// Bybit reports no weighted average, so turnover / volume is used.
func (s *BybitSource) Snapshot(_ context.Context, fiat domain.Coin) (domain.MarketSnapshot, error) {
	result, err := s.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch spot tickers from Bybit")
	}

	tickers := make([]ticker, 0, len(result.Result.Spot.List))
	for _, item := range result.Result.Spot.List {
		tickers = append(tickers, ticker{
			symbol:      string(item.Symbol),
			open:        item.PrevPrice24H,
			high:        item.HighPrice24H,
			low:         item.LowPrice24H,
			last:        item.LastPrice,
			volume:      item.Volume24H,
			quoteVolume: item.Turnover24H,
		})
	}

	return snapshotFromTickers(tickers, fiat)
}
