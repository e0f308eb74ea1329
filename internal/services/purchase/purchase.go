// Package purchase prices a single proposed trade against a market snapshot,
// applying the trading fee and the minimum trade size.
package purchase

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/jb68/moneybot/internal/domain"
)

var (
	defaultFee           = decimal.RequireFromString("0.0025")
	defaultMinTradeValue = decimal.RequireFromString("0.0001")
)

// Params trade sizing policy.
type Params struct {
	// Fee fraction of the invested amount kept by the exchange, 0 <= Fee < 1.
	Fee decimal.Decimal
	// PriceKey chart data field used as the market price.
	PriceKey domain.PriceKey
	// MinTradeValue trades at or below this fiat value are skipped.
	MinTradeValue decimal.Decimal
}

// DefaultParams returns the exchange defaults.
func DefaultParams() Params {
	return Params{
		Fee:           defaultFee,
		PriceKey:      domain.DefaultPriceKey,
		MinTradeValue: defaultMinTradeValue,
	}
}

// Validate checks the policy is usable.
func (p Params) Validate() error {
	if p.Fee.IsNegative() || p.Fee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.Errorf("fee must be in [0, 1), got %s", p.Fee.String())
	}
	if p.MinTradeValue.IsNegative() {
		return errors.Errorf("min trade value must not be negative, got %s", p.MinTradeValue.String())
	}
	if !p.PriceKey.IsValid() {
		return errors.Wrapf(domain.ErrUnknownPriceKey, "%q", string(p.PriceKey))
	}
	return nil
}

// Calculator prices purchases. Safe for concurrent use.
type Calculator struct {
	params Params
}

// NewCalculator returns a Calculator for params.
func NewCalculator(params Params) (*Calculator, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid purchase params")
	}
	return &Calculator{params: params}, nil
}

// GetPurchase converts fromAmount of from into to, where one side is fiat.
//
// Selling into fiat is skipped when the fiat received does not exceed
// MinTradeValue. Buying with fiat is skipped when the fiat spent does not
// exceed MinTradeValue. A skipped trade is reported as nil with a nil error;
// a missing market or bad price is an error.
func (c *Calculator) GetPurchase(snapshot domain.MarketSnapshot, from domain.Coin, fromAmount decimal.Decimal,
	to domain.Coin, fiat domain.Coin) (*domain.Purchase, error) {
	if from == to {
		return nil, nil
	}

	if to == fiat {
		price, err := snapshot.Price(domain.NewMarket(fiat, from), c.params.PriceKey)
		if err != nil {
			return nil, errors.Wrapf(err, "price sale of %s", from)
		}

		// fiat per coin, so the received fiat is investable / (1 / price)
		toAmount := c.investable(fromAmount).Mul(price)
		if !toAmount.GreaterThan(c.params.MinTradeValue) {
			return nil, nil
		}

		purchase := domain.NewPurchase(from, fromAmount, to, toAmount)
		return &purchase, nil
	}

	if !fromAmount.GreaterThan(c.params.MinTradeValue) {
		return nil, nil
	}

	price, err := snapshot.Price(domain.NewMarket(fiat, to), c.params.PriceKey)
	if err != nil {
		return nil, errors.Wrapf(err, "price purchase of %s", to)
	}

	purchase := domain.NewPurchase(from, fromAmount, to, c.investable(fromAmount).Div(price))
	return &purchase, nil
}

// investable returns amount after the exchange fee.
func (c *Calculator) investable(amount decimal.Decimal) decimal.Decimal {
	return amount.Sub(amount.Mul(c.params.Fee))
}
