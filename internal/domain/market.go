package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const marketSeparator = "_"

// Market trading pair quoted in the fiat coin.
type Market struct {
	// Fiat quote currency symbol.
	Fiat Coin
	// Coin traded currency symbol.
	Coin Coin
}

// NewMarket returns the market for coin quoted in fiat.
func NewMarket(fiat, coin Coin) Market {
	return Market{Fiat: fiat, Coin: coin}
}

// String returns the snapshot key, e.g. "BTC_ETH".
func (m Market) String() string {
	return fmt.Sprintf("%s%s%s", m.Fiat, marketSeparator, m.Coin)
}

// ParseMarket parses a "{fiat}_{coin}" snapshot key.
func ParseMarket(s string) (Market, error) {
	parts := strings.Split(s, marketSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Market{}, errors.Errorf("invalid market %q, expected FIAT_COIN", s)
	}

	return Market{Fiat: Coin(parts[0]), Coin: Coin(parts[1])}, nil
}

// Symbol returns the exchange symbol with the coin as base, e.g. "ETHBTC".
func (m Market) Symbol() string {
	return fmt.Sprintf("%s%s", m.Coin, m.Fiat)
}
