package internal

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/signals"
	"github.com/jb68/moneybot/internal/services/strategy"
	"github.com/jb68/moneybot/internal/services/wallet"
)

// CoinSignal concentration and momentum readings of one held coin.
type CoinSignal struct {
	Portfolio string
	Coin      domain.Coin
	FiatValue decimal.Decimal
	Buffed    bool
	PPOHist   float64
}

// Signals reports the signal readings of every held coin with a fiat market,
// per portfolio, without proposing any purchase.
func (r *FundRunner) Signals(ctx context.Context) ([][]CoinSignal, error) {
	reports := make([][]CoinSignal, len(r.portfolios))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range r.portfolios {
		i, p := i, p
		g.Go(func() error {
			report, err := r.signals(gctx, p)
			if err != nil {
				return errors.Wrapf(err, "portfolio %s", p.Config.Name)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *FundRunner) signals(ctx context.Context, p Portfolio) ([]CoinSignal, error) {
	conf := p.Config

	snapshot, err := p.Snapshot.Snapshot(ctx, conf.Fiat)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get market snapshot")
	}
	balances := wallet.New(conf.Fiat, conf.Purchase.PriceKey, conf.Balances)

	values := make(map[domain.Coin]float64)
	fiatValues := make(map[domain.Coin]decimal.Decimal)
	coins := make([]domain.Coin, 0)
	for _, coin := range balances.HeldCoins() {
		if coin == conf.Fiat || !snapshot.HasMarket(domain.NewMarket(conf.Fiat, coin)) {
			continue
		}
		v, err := balances.FiatValue(snapshot, coin)
		if err != nil {
			return nil, err
		}
		values[coin] = v.InexactFloat64()
		fiatValues[coin] = v
		coins = append(coins, coin)
	}
	if len(coins) == 0 {
		r.logger.Debug("no held coins to report", zap.String("portfolio", conf.Name))
		return nil, nil
	}

	history, err := fetchHistory(ctx, p.History, conf.Fiat, coins, conf.CrashGuard.Limit)
	if err != nil {
		return nil, err
	}

	report := make([]CoinSignal, 0, len(coins))
	for _, coin := range coins {
		buffed, err := isBuffed(conf.Buffed, coin, values)
		if err != nil {
			return nil, err
		}
		hist, err := signals.LatestPPOHist(history[coin], conf.CrashGuard.Windows)
		if err != nil {
			return nil, errors.Wrapf(err, "momentum of %s", coin)
		}

		report = append(report, CoinSignal{
			Portfolio: conf.Name,
			Coin:      coin,
			FiatValue: fiatValues[coin],
			Buffed:    buffed,
			PPOHist:   hist,
		})
	}

	return report, nil
}

func isBuffed(params strategy.BuffedParams, coin domain.Coin, values map[domain.Coin]float64) (bool, error) {
	if params.Mode == strategy.BuffedModePower {
		return signals.IsBuffedByPower(coin, values, params.Power)
	}
	return signals.IsBuffed(coin, values, params.Multiplier)
}
