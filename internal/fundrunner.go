package internal

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jb68/moneybot/config"
	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/marketdata"
	"github.com/jb68/moneybot/internal/services/strategy"
	"github.com/jb68/moneybot/internal/services/wallet"
)

// maxHistoryFetches bounds concurrent history requests per portfolio.
const maxHistoryFetches = 4

// Portfolio a configured portfolio with its market data services.
type Portfolio struct {
	Config   config.Config
	Snapshot marketdata.SnapshotSource
	History  marketdata.HistorySource
}

// NewPortfolios builds a Portfolio per config using NewServiceProvider.
func NewPortfolios(ctx context.Context, configs []config.Config) ([]Portfolio, error) {
	portfolios := make([]Portfolio, 0, len(configs))
	for _, conf := range configs {
		provider, err := NewServiceProvider(ctx, conf)
		if err != nil {
			return nil, errors.Wrapf(err, "portfolio %s", conf.Name)
		}
		portfolios = append(portfolios, Portfolio{
			Config:   conf,
			Snapshot: provider.SnapshotSource(),
			History:  provider.HistorySource(conf.CrashGuard.KlineInterval()),
		})
	}
	return portfolios, nil
}

// Cycle result of one decision cycle of a portfolio.
type Cycle struct {
	ID          uuid.UUID
	Portfolio   string
	Strategy    string
	Fiat        domain.Coin
	Purchases   []domain.Purchase
	Before      domain.Balances
	After       domain.Balances
	ValueBefore decimal.Decimal
	ValueAfter  decimal.Decimal
}

// FundRunner runs decision cycles over a set of portfolios. It only proposes
// purchases; nothing is sent to an exchange.
type FundRunner struct {
	portfolios []Portfolio
	factory    *strategyFactory
	logger     *zap.Logger
}

// NewFundRunner creates a runner for portfolios.
func NewFundRunner(logger *zap.Logger, portfolios []Portfolio) *FundRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FundRunner{
		portfolios: portfolios,
		factory:    newStrategyFactory(logger),
		logger:     logger,
	}
}

// Run executes one decision cycle per portfolio concurrently. Cycles are
// returned in portfolio order.
func (r *FundRunner) Run(ctx context.Context) ([]Cycle, error) {
	cycles := make([]Cycle, len(r.portfolios))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range r.portfolios {
		i, p := i, p
		g.Go(func() error {
			c, err := r.cycle(gctx, p)
			if err != nil {
				return errors.Wrapf(err, "portfolio %s", p.Config.Name)
			}
			cycles[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return cycles, nil
}

func (r *FundRunner) cycle(ctx context.Context, p Portfolio) (Cycle, error) {
	conf := p.Config
	id := uuid.New()
	logger := r.logger.With(
		zap.String("portfolio", conf.Name),
		zap.String("cycle_id", id.String()),
		zap.String("strategy", conf.Strategy),
	)

	snapshot, err := p.Snapshot.Snapshot(ctx, conf.Fiat)
	if err != nil {
		return Cycle{}, errors.Wrap(err, "failed to get market snapshot")
	}
	logger.Debug("market snapshot loaded", zap.Int("markets", len(snapshot.AvailableMarkets(conf.Fiat))))

	balances := wallet.New(conf.Fiat, conf.Purchase.PriceKey, conf.Balances)

	s, err := r.factory.createStrategy(conf)
	if err != nil {
		return Cycle{}, err
	}

	if conf.CrashGuard.Enabled {
		s, err = r.guarded(ctx, p, s, snapshot, balances)
		if err != nil {
			return Cycle{}, err
		}
	}

	purchases, err := s.GetTrades(snapshot, balances, conf.Fiat)
	if err != nil {
		return Cycle{}, errors.Wrap(err, "strategy failed")
	}

	after := balances.ApplyPurchases(nil, purchases)

	valueBefore, err := balances.EstimateTotalFiatValue(snapshot)
	if err != nil {
		return Cycle{}, errors.Wrap(err, "failed to value balances")
	}
	valueAfter, err := after.EstimateTotalFiatValue(snapshot)
	if err != nil {
		return Cycle{}, errors.Wrap(err, "failed to value projected balances")
	}

	logger.Info("decision cycle complete",
		zap.Int("purchases", len(purchases)),
		zap.String("value_before", valueBefore.String()),
		zap.String("value_after", valueAfter.String()),
		zap.Stringer("fiat", conf.Fiat))

	return Cycle{
		ID:          id,
		Portfolio:   conf.Name,
		Strategy:    conf.Strategy,
		Fiat:        conf.Fiat,
		Purchases:   purchases,
		Before:      balances,
		After:       after,
		ValueBefore: valueBefore,
		ValueAfter:  valueAfter,
	}, nil
}

// guarded wraps s in a crash guard fed with the history of every coin s
// would buy this cycle.
func (r *FundRunner) guarded(ctx context.Context, p Portfolio, s strategy.Strategy,
	snapshot domain.MarketSnapshot, balances domain.Balances) (strategy.Strategy, error) {
	fiat := p.Config.Fiat

	candidates, err := s.GetTrades(snapshot, balances, fiat)
	if err != nil {
		return nil, errors.Wrap(err, "strategy failed")
	}

	coins := make([]domain.Coin, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsSell(fiat) {
			coins = append(coins, c.To)
		}
	}

	history, err := fetchHistory(ctx, p.History, fiat, coins, p.Config.CrashGuard.Limit)
	if err != nil {
		return nil, err
	}

	return r.factory.guard(p.Config, s, history)
}

// fetchHistory loads the price history of coins quoted in fiat concurrently.
func fetchHistory(ctx context.Context, source marketdata.HistorySource, fiat domain.Coin,
	coins []domain.Coin, limit int) (strategy.PriceHistory, error) {
	var mu sync.Mutex
	history := make(strategy.PriceHistory, len(coins))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxHistoryFetches)
	for _, coin := range coins {
		coin := coin
		g.Go(func() error {
			prices, err := source.History(gctx, domain.NewMarket(fiat, coin), limit)
			if err != nil {
				return errors.Wrapf(err, "failed to get price history of %s", coin)
			}
			mu.Lock()
			history[coin] = prices
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return history, nil
}
