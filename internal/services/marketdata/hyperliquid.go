package marketdata

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/jb68/moneybot/internal/domain"
)

// usdQuoted coins Hyperliquid prices at par with its mids.
var usdQuoted = map[domain.Coin]struct{}{"USD": {}, "USDC": {}}

// HyperliquidSource builds snapshots from Hyperliquid mid prices.
type HyperliquidSource struct {
	info *hyperliquid.Info
}

// NewHyperliquidSource returns a HyperliquidSource using info.
func NewHyperliquidSource(info *hyperliquid.Info) *HyperliquidSource {
	return &HyperliquidSource{info: info}
}

// Snapshot fetches all mids and cross-rates them into fiat.
func (s *HyperliquidSource) Snapshot(ctx context.Context, fiat domain.Coin) (domain.MarketSnapshot, error) {
	if s.info == nil {
		return nil, errors.New("hyperliquid info client is nil")
	}

	mids, err := s.info.AllMids(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch mids from Hyperliquid")
	}

	return snapshotFromMids(mids, fiat)
}

// snapshotFromMids prices every coin in fiat as mid(coin) / mid(fiat).
// Spot pairs such as "@107" are skipped.
func snapshotFromMids(mids map[string]string, fiat domain.Coin) (domain.MarketSnapshot, error) {
	fiatMid := decimal.NewFromInt(1)
	if _, ok := usdQuoted[fiat]; !ok {
		raw, ok := mids[string(fiat)]
		if !ok {
			return nil, errors.Wrapf(domain.ErrMissingMarket, "no hyperliquid mid for fiat %s", fiat)
		}
		v, err := parseDecimal("mid", raw)
		if err != nil {
			return nil, err
		}
		if !v.IsPositive() {
			return nil, errors.Wrapf(domain.ErrInvalidPrice, "hyperliquid mid for fiat %s is %s", fiat, v)
		}
		fiatMid = v
	}

	coins := make([]string, 0, len(mids))
	for coin := range mids {
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	snapshot := make(domain.MarketSnapshot, len(coins))
	for _, coin := range coins {
		if coin == "" || coin[0] == '@' || domain.Coin(coin) == fiat {
			continue
		}

		mid, err := parseDecimal("mid", mids[coin])
		if err != nil {
			return nil, errors.Wrap(err, coin)
		}
		if !mid.IsPositive() {
			continue
		}

		price := mid.Div(fiatMid)
		snapshot[domain.NewMarket(fiat, domain.Coin(coin)).String()] = domain.SinglePriceChartData(price)
	}
	return snapshot, nil
}
