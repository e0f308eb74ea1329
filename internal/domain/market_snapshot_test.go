package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketSnapshot_AvailableMarkets(t *testing.T) {
	snapshot := MarketSnapshot{
		"BTC_XRP":  {},
		"BTC_ETH":  {},
		"USDT_BTC": {},
		"BTCD_LTC": {},
		"garbage":  {},
	}

	got := snapshot.AvailableMarkets("BTC")

	assert.Equal(t, []Market{
		{Fiat: "BTC", Coin: "ETH"},
		{Fiat: "BTC", Coin: "XRP"},
	}, got)
	assert.Empty(t, MarketSnapshot{}.AvailableMarkets("BTC"))
}

func TestMarketSnapshot_Price(t *testing.T) {
	snapshot := MarketSnapshot{
		"BTC_ETH":  {WeightedAverage: decimal.RequireFromString("0.05"), Close: decimal.RequireFromString("0.06")},
		"BTC_DEAD": {},
	}

	price, err := snapshot.Price(NewMarket("BTC", "ETH"), PriceKeyWeightedAverage)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.05").Equal(price))

	price, err = snapshot.Price(NewMarket("BTC", "ETH"), PriceKeyClose)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.06").Equal(price))

	_, err = snapshot.Price(NewMarket("BTC", "LTC"), PriceKeyWeightedAverage)
	require.True(t, errors.Is(err, ErrMissingMarket))
	assert.Contains(t, err.Error(), "BTC_LTC")

	_, err = snapshot.Price(NewMarket("BTC", "DEAD"), PriceKeyWeightedAverage)
	require.True(t, errors.Is(err, ErrInvalidPrice))

	_, err = snapshot.Price(NewMarket("BTC", "ETH"), PriceKey("median"))
	require.True(t, errors.Is(err, ErrUnknownPriceKey))
}

func TestPriceKey_IsValid(t *testing.T) {
	assert.True(t, DefaultPriceKey.IsValid())
	assert.True(t, PriceKeyClose.IsValid())
	assert.False(t, PriceKey("vwap").IsValid())
}
