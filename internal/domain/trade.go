package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Purchase proposed trade of FromAmount From into ToAmount To.
// Values are produced by the purchase calculator and never mutated.
type Purchase struct {
	// From coin given up.
	From Coin `json:"from_coin"`
	// FromAmount quantity of From given up.
	FromAmount decimal.Decimal `json:"from_amount"`
	// To coin received.
	To Coin `json:"to_coin"`
	// ToAmount quantity of To received after fees.
	ToAmount decimal.Decimal `json:"to_amount"`
}

// NewPurchase creates a Purchase.
func NewPurchase(from Coin, fromAmount decimal.Decimal, to Coin, toAmount decimal.Decimal) Purchase {
	return Purchase{
		From:       from,
		FromAmount: fromAmount,
		To:         to,
		ToAmount:   toAmount,
	}
}

// IsSell reports whether the purchase converts into fiat.
func (p Purchase) IsSell(fiat Coin) bool {
	return p.To == fiat
}

// String returns a human-readable string representation.
func (p Purchase) String() string {
	return fmt.Sprintf("%s %s -> %s %s", p.FromAmount.String(), p.From, p.ToAmount.String(), p.To)
}
