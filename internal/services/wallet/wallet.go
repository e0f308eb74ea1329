// Package wallet provides an in-memory Balances used to project holdings
// after proposed purchases. Nothing here talks to an exchange.
package wallet

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/jb68/moneybot/internal/domain"
)

// Wallet immutable coin -> amount mapping.
type Wallet struct {
	fiat     domain.Coin
	priceKey domain.PriceKey
	amounts  map[domain.Coin]decimal.Decimal
}

var _ domain.Balances = (*Wallet)(nil)

// New creates a Wallet valued in fiat using priceKey. amounts is copied.
func New(fiat domain.Coin, priceKey domain.PriceKey, amounts map[domain.Coin]decimal.Decimal) *Wallet {
	if fiat == "" {
		fiat = domain.DefaultFiat
	}
	if priceKey == "" {
		priceKey = domain.DefaultPriceKey
	}

	copied := make(map[domain.Coin]decimal.Decimal, len(amounts))
	for coin, amount := range amounts {
		copied[coin] = amount
	}

	return &Wallet{fiat: fiat, priceKey: priceKey, amounts: copied}
}

// HeldCoins returns coins with a positive amount, sorted.
func (w *Wallet) HeldCoins() []domain.Coin {
	held := make([]domain.Coin, 0, len(w.amounts))
	for coin, amount := range w.amounts {
		if amount.IsPositive() {
			held = append(held, coin)
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })

	return held
}

// Amount returns the held amount of coin.
func (w *Wallet) Amount(coin domain.Coin) decimal.Decimal {
	return w.amounts[coin]
}

// Amounts returns a copy of every tracked amount, including zero balances.
func (w *Wallet) Amounts() map[domain.Coin]decimal.Decimal {
	copied := make(map[domain.Coin]decimal.Decimal, len(w.amounts))
	for coin, amount := range w.amounts {
		copied[coin] = amount
	}
	return copied
}

// FiatValue returns the value of the held amount of coin in fiat.
func (w *Wallet) FiatValue(snapshot domain.MarketSnapshot, coin domain.Coin) (decimal.Decimal, error) {
	amount := w.amounts[coin]
	if coin == w.fiat || amount.IsZero() {
		return amount, nil
	}

	price, err := snapshot.Price(domain.NewMarket(w.fiat, coin), w.priceKey)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "value %s holdings", coin)
	}

	return amount.Mul(price), nil
}

// EstimateTotalFiatValue values all held coins in fiat.
func (w *Wallet) EstimateTotalFiatValue(snapshot domain.MarketSnapshot) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, coin := range w.HeldCoins() {
		value, err := w.FiatValue(snapshot, coin)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}

	return total, nil
}

// ApplyPurchases returns the projection of prev (w when nil) after purchases.
// Neither w nor prev is modified.
func (w *Wallet) ApplyPurchases(prev domain.Balances, purchases []domain.Purchase) domain.Balances {
	base := w.Amounts()
	if prev != nil {
		base = amountsOf(prev)
	}

	for _, p := range purchases {
		base[p.From] = base[p.From].Sub(p.FromAmount)
		base[p.To] = base[p.To].Add(p.ToAmount)
	}

	return &Wallet{fiat: w.fiat, priceKey: w.priceKey, amounts: base}
}

func amountsOf(b domain.Balances) map[domain.Coin]decimal.Decimal {
	if w, ok := b.(*Wallet); ok {
		return w.Amounts()
	}

	amounts := make(map[domain.Coin]decimal.Decimal)
	for _, coin := range b.HeldCoins() {
		amounts[coin] = b.Amount(coin)
	}
	return amounts
}
