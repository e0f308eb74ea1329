package internal

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/config"
	"github.com/jb68/moneybot/internal/services/allocation"
	"github.com/jb68/moneybot/internal/services/purchase"
	"github.com/jb68/moneybot/internal/services/strategy"
)

// strategyFactory creates portfolio strategies.
type strategyFactory struct {
	logger *zap.Logger
}

// newStrategyFactory creates a new strategy factory.
func newStrategyFactory(logger *zap.Logger) *strategyFactory {
	return &strategyFactory{logger: logger}
}

// createStrategy creates the configured strategy, without the crash guard.
func (f *strategyFactory) createStrategy(conf config.Config) (strategy.Strategy, error) {
	calc, err := purchase.NewCalculator(conf.Purchase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create purchase calculator")
	}
	alloc := allocation.NewAllocator(f.logger, calc, conf.Purchase.PriceKey)

	switch conf.Strategy {
	case config.StrategyBuyHold:
		return strategy.NewBuyHold(f.logger, alloc), nil
	case config.StrategyEqualWeight:
		return strategy.NewEqualWeight(f.logger, alloc), nil
	case config.StrategyBuffed:
		s, err := strategy.NewBuffedRebalance(f.logger, alloc, conf.Buffed)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create buffed strategy")
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported strategy type: %s", conf.Strategy)
	}
}

// guard wraps inner with the crash guard over history.
func (f *strategyFactory) guard(conf config.Config, inner strategy.Strategy, history strategy.PriceHistory) (strategy.Strategy, error) {
	g, err := strategy.NewCrashGuard(f.logger, inner, history, conf.CrashGuard.Windows, conf.CrashGuard.Threshold)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create crash guard")
	}
	return g, nil
}
