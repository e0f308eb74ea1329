package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PriceKey names the ChartData field used as the market price.
type PriceKey string

const (
	PriceKeyWeightedAverage PriceKey = "weightedAverage"
	PriceKeyClose           PriceKey = "close"
	PriceKeyOpen            PriceKey = "open"
	PriceKeyHigh            PriceKey = "high"
	PriceKeyLow             PriceKey = "low"
)

// DefaultPriceKey price field used when none is configured.
const DefaultPriceKey = PriceKeyWeightedAverage

// IsValid checks if the PriceKey value is valid.
func (k PriceKey) IsValid() bool {
	switch k {
	case PriceKeyWeightedAverage, PriceKeyClose, PriceKeyOpen, PriceKeyHigh, PriceKeyLow:
		return true
	}
	return false
}

// ChartData price record for one market, priced in the fiat coin.
type ChartData struct {
	Date            int64           `json:"date,omitempty" yaml:"date,omitempty"`
	High            decimal.Decimal `json:"high" yaml:"high"`
	Low             decimal.Decimal `json:"low" yaml:"low"`
	Open            decimal.Decimal `json:"open" yaml:"open"`
	Close           decimal.Decimal `json:"close" yaml:"close"`
	Volume          decimal.Decimal `json:"volume" yaml:"volume"`
	QuoteVolume     decimal.Decimal `json:"quoteVolume" yaml:"quoteVolume"`
	WeightedAverage decimal.Decimal `json:"weightedAverage" yaml:"weightedAverage"`
}

// Price returns the field selected by key.
func (c ChartData) Price(key PriceKey) (decimal.Decimal, error) {
	switch key {
	case PriceKeyWeightedAverage:
		return c.WeightedAverage, nil
	case PriceKeyClose:
		return c.Close, nil
	case PriceKeyOpen:
		return c.Open, nil
	case PriceKeyHigh:
		return c.High, nil
	case PriceKeyLow:
		return c.Low, nil
	default:
		return decimal.Zero, errors.Wrapf(ErrUnknownPriceKey, "%q", string(key))
	}
}

// SinglePriceChartData fills every price field with the same value.
// Used by sources that only expose one price per market.
func SinglePriceChartData(price decimal.Decimal) ChartData {
	return ChartData{
		High:            price,
		Low:             price,
		Open:            price,
		Close:           price,
		WeightedAverage: price,
	}
}
