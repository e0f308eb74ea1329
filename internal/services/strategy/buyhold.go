package strategy

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/allocation"
)

// BuyHold invests an all-fiat portfolio equally once, then holds.
type BuyHold struct {
	alloc allocator
	l     *zap.Logger
}

// NewBuyHold returns a BuyHold strategy.
func NewBuyHold(l *zap.Logger, alloc allocator) *BuyHold {
	if l == nil {
		l = zap.NewNop()
	}
	return &BuyHold{alloc: alloc, l: l}
}

// GetTrades buys every available market when only fiat is held and
// returns no purchases otherwise.
func (s *BuyHold) GetTrades(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error) {
	if !domain.HoldsOnly(balances, fiat) {
		s.l.Debug("portfolio already invested, holding", zap.Stringer("fiat", fiat))
		return nil, nil
	}

	purchases, err := s.alloc.InitialEqualAlloc(snapshot, balances, fiat)
	if err != nil {
		return nil, errors.Wrap(err, "buy and hold initial allocation")
	}

	return allocation.FilterNone(purchases), nil
}
