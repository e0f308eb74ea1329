package domain

import "github.com/shopspring/decimal"

// Balances holdings per coin. Implementations never change in place:
// ApplyPurchases returns a projection.
type Balances interface {
	// HeldCoins returns coins with a positive amount, sorted.
	HeldCoins() []Coin
	// Amount returns the held amount of coin, zero if none.
	Amount(coin Coin) decimal.Decimal
	// EstimateTotalFiatValue values all holdings in the fiat coin.
	EstimateTotalFiatValue(snapshot MarketSnapshot) (decimal.Decimal, error)
	// ApplyPurchases projects prev (the receiver when nil) after purchases.
	ApplyPurchases(prev Balances, purchases []Purchase) Balances
}

// HoldsOnly reports whether coin is the only held coin.
func HoldsOnly(b Balances, coin Coin) bool {
	held := b.HeldCoins()
	return len(held) == 1 && held[0] == coin
}
