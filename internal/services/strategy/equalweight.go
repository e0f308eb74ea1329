package strategy

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/allocation"
)

// EqualWeight invests an all-fiat portfolio equally and afterwards
// rebalances every held coin back toward equal weight.
type EqualWeight struct {
	alloc allocator
	l     *zap.Logger
}

// NewEqualWeight returns an EqualWeight strategy.
func NewEqualWeight(l *zap.Logger, alloc allocator) *EqualWeight {
	if l == nil {
		l = zap.NewNop()
	}
	return &EqualWeight{alloc: alloc, l: l}
}

// GetTrades returns the initial allocation or the rebalancing purchases.
func (s *EqualWeight) GetTrades(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error) {
	if domain.HoldsOnly(balances, fiat) {
		purchases, err := s.alloc.InitialEqualAlloc(snapshot, balances, fiat)
		if err != nil {
			return nil, errors.Wrap(err, "equal weight initial allocation")
		}
		return allocation.FilterNone(purchases), nil
	}

	coins := allocation.HeldCoinsWithChartData(snapshot, balances, fiat)
	s.l.Debug("rebalancing held coins", zap.Int("coins", len(coins)))

	purchases, err := s.alloc.RebalanceEqualAlloc(coins, snapshot, balances, fiat)
	if err != nil {
		return nil, errors.Wrap(err, "equal weight rebalance")
	}
	return purchases, nil
}
