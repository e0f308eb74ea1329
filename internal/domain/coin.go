// Package domain defines core data structures used throughout the fund runner.
package domain

// Coin opaque currency symbol, e.g. "BTC" or "ETH".
type Coin string

// DefaultFiat unit of account all markets are quoted in.
const DefaultFiat Coin = "BTC"

// String returns the string representation.
func (c Coin) String() string {
	return string(c)
}
