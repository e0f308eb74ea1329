// Package strategy decides which purchases a portfolio should make in one
// decision cycle. Strategies hold configuration only; every call is a pure
// function of the snapshot and balances passed in.
package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/jb68/moneybot/internal/domain"
)

// Strategy produces the purchases for one decision cycle.
type Strategy interface {
	GetTrades(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error)
}

type allocator interface {
	InitialEqualAlloc(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]*domain.Purchase, error)
	RebalanceEqualAlloc(coinsToRebalance []domain.Coin, snapshot domain.MarketSnapshot,
		balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error)
}

// fiatValues values every held non-fiat coin that has a market in fiat.
func fiatValues(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin,
	priceKey domain.PriceKey) (map[domain.Coin]decimal.Decimal, error) {
	values := make(map[domain.Coin]decimal.Decimal)
	for _, coin := range balances.HeldCoins() {
		market := domain.NewMarket(fiat, coin)
		if coin == fiat || !snapshot.HasMarket(market) {
			continue
		}

		price, err := snapshot.Price(market, priceKey)
		if err != nil {
			return nil, err
		}
		values[coin] = balances.Amount(coin).Mul(price)
	}
	return values, nil
}
