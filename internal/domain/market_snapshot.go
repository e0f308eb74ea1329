package domain

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MarketSnapshot market prices for a single decision cycle, keyed by "{fiat}_{coin}".
type MarketSnapshot map[string]ChartData

// ChartData returns the record for market.
func (s MarketSnapshot) ChartData(market Market) (ChartData, error) {
	data, ok := s[market.String()]
	if !ok {
		return ChartData{}, errors.Wrapf(ErrMissingMarket, "market %s", market.String())
	}
	return data, nil
}

// Price returns the price of market.Coin in market.Fiat.
// Zero and negative prices are rejected so callers can divide by the result.
func (s MarketSnapshot) Price(market Market, key PriceKey) (decimal.Decimal, error) {
	data, err := s.ChartData(market)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := data.Price(key)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "market %s", market.String())
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "market %s %s=%s", market.String(), key, price.String())
	}

	return price, nil
}

// AvailableMarkets returns all markets quoted in fiat, sorted by coin.
func (s MarketSnapshot) AvailableMarkets(fiat Coin) []Market {
	markets := make([]Market, 0, len(s))
	for key := range s {
		market, err := ParseMarket(key)
		if err != nil || market.Fiat != fiat || market.Coin == fiat {
			continue
		}
		markets = append(markets, market)
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].Coin < markets[j].Coin
	})

	return markets
}

// HasMarket reports whether the snapshot quotes coin in fiat.
func (s MarketSnapshot) HasMarket(market Market) bool {
	_, ok := s[market.String()]
	return ok
}
