// Package signals flags anomalous coins: values far above the peer median
// ("buffed") and momentum shifts measured by the percentage price oscillator.
package signals

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/jb68/moneybot/internal/domain"
)

const (
	// DefaultBuffedMultiplier used by IsBuffed.
	DefaultBuffedMultiplier = 2.0
	// DefaultBuffedPower used by IsBuffedByPower.
	DefaultBuffedPower = 1.2
)

var (
	// ErrNotEnoughData input is empty.
	ErrNotEnoughData = errors.New("not enough data")
	// ErrUnknownCoin coin is not among the compared values.
	ErrUnknownCoin = errors.New("unknown coin")
)

// Median returns the median of values.
func Median(values map[domain.Coin]float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrap(ErrNotEnoughData, "median of no values")
	}

	data := make([]float64, 0, len(values))
	for _, v := range values {
		data = append(data, v)
	}

	median, err := stats.Median(data)
	if err != nil {
		return 0, errors.Wrap(err, "failed to calculate median")
	}
	return median, nil
}

// SumOf returns the sum of values.
func SumOf(values map[domain.Coin]float64) float64 {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		data = append(data, v)
	}

	// stats.Sum only fails on empty input, whose sum is zero
	sum, err := stats.Sum(data)
	if err != nil {
		return 0
	}
	return sum
}

// IsBuffed reports whether coin's value exceeds the median times multiplier.
func IsBuffed(coin domain.Coin, values map[domain.Coin]float64, multiplier float64) (bool, error) {
	value, median, err := valueAndMedian(coin, values)
	if err != nil {
		return false, err
	}
	return value > median*multiplier, nil
}

// IsBuffedByPower reports whether coin's value exceeds the median raised to power.
// Medians at or below 1 use 1/power instead, since raising them to a power
// above 1 would lower the threshold.
func IsBuffedByPower(coin domain.Coin, values map[domain.Coin]float64, power float64) (bool, error) {
	value, median, err := valueAndMedian(coin, values)
	if err != nil {
		return false, err
	}
	return value > PowerThreshold(median, power), nil
}

// PowerThreshold returns the IsBuffedByPower threshold for median.
func PowerThreshold(median, power float64) float64 {
	if median > 1 {
		return math.Pow(median, power)
	}
	return math.Pow(median, 1/power)
}

func valueAndMedian(coin domain.Coin, values map[domain.Coin]float64) (float64, float64, error) {
	value, ok := values[coin]
	if !ok {
		return 0, 0, errors.Wrapf(ErrUnknownCoin, "%s", coin)
	}

	median, err := Median(values)
	if err != nil {
		return 0, 0, err
	}
	return value, median, nil
}
