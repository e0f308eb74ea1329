package strategy

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/allocation"
	"github.com/jb68/moneybot/internal/services/signals"
)

// BuffedMode selects the buffed-coin test.
type BuffedMode string

const (
	// BuffedModeMultiplier flags coins above median * multiplier.
	BuffedModeMultiplier BuffedMode = "multiplier"
	// BuffedModePower flags coins above median ^ power.
	BuffedModePower BuffedMode = "power"
)

// IsValid checks if the BuffedMode value is valid.
func (m BuffedMode) IsValid() bool {
	return m == BuffedModeMultiplier || m == BuffedModePower
}

// BuffedParams configures BuffedRebalance.
type BuffedParams struct {
	Mode       BuffedMode
	Multiplier float64
	Power      float64
	PriceKey   domain.PriceKey
}

// DefaultBuffedParams returns multiplier mode with the default thresholds.
func DefaultBuffedParams() BuffedParams {
	return BuffedParams{
		Mode:       BuffedModeMultiplier,
		Multiplier: signals.DefaultBuffedMultiplier,
		Power:      signals.DefaultBuffedPower,
		PriceKey:   domain.DefaultPriceKey,
	}
}

// BuffedRebalance trims only coins whose holding has grown far above the
// median holding, spreading the proceeds over the other markets.
type BuffedRebalance struct {
	alloc  allocator
	params BuffedParams
	l      *zap.Logger
}

// NewBuffedRebalance returns a BuffedRebalance strategy.
func NewBuffedRebalance(l *zap.Logger, alloc allocator, params BuffedParams) (*BuffedRebalance, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if !params.Mode.IsValid() {
		return nil, errors.Errorf("unknown buffed mode %q", string(params.Mode))
	}
	if params.PriceKey == "" {
		params.PriceKey = domain.DefaultPriceKey
	}
	return &BuffedRebalance{alloc: alloc, params: params, l: l}, nil
}

// GetTrades returns the initial allocation for an all-fiat portfolio,
// otherwise rebalances the buffed coins together with fiat.
func (s *BuffedRebalance) GetTrades(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error) {
	if domain.HoldsOnly(balances, fiat) {
		purchases, err := s.alloc.InitialEqualAlloc(snapshot, balances, fiat)
		if err != nil {
			return nil, errors.Wrap(err, "buffed initial allocation")
		}
		return allocation.FilterNone(purchases), nil
	}

	buffed, err := s.buffedCoins(snapshot, balances, fiat)
	if err != nil {
		return nil, err
	}
	if len(buffed) == 0 {
		return nil, nil
	}

	s.l.Info("buffed coins detected", zap.Any("coins", buffed))

	purchases, err := s.alloc.RebalanceEqualAlloc(append(buffed, fiat), snapshot, balances, fiat)
	if err != nil {
		return nil, errors.Wrap(err, "buffed rebalance")
	}
	return purchases, nil
}

func (s *BuffedRebalance) buffedCoins(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]domain.Coin, error) {
	values, err := fiatValues(snapshot, balances, fiat, s.params.PriceKey)
	if err != nil {
		return nil, errors.Wrap(err, "value holdings")
	}

	floats := make(map[domain.Coin]float64, len(values))
	for coin, v := range values {
		floats[coin] = v.InexactFloat64()
	}

	buffed := make([]domain.Coin, 0)
	for _, coin := range balances.HeldCoins() {
		if _, ok := floats[coin]; !ok {
			continue
		}

		var isBuffed bool
		switch s.params.Mode {
		case BuffedModePower:
			isBuffed, err = signals.IsBuffedByPower(coin, floats, s.params.Power)
		default:
			isBuffed, err = signals.IsBuffed(coin, floats, s.params.Multiplier)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "buffed check for %s", coin)
		}
		if isBuffed {
			buffed = append(buffed, coin)
		}
	}
	return buffed, nil
}
