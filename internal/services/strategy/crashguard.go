package strategy

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/internal/domain"
	"github.com/jb68/moneybot/internal/services/signals"
)

// PriceHistory price series per coin, oldest first, priced in fiat.
type PriceHistory map[domain.Coin][]float64

// CrashGuard wraps a Strategy and drops purchases into coins whose latest
// PPO histogram reading is below Threshold. Sales into fiat always pass.
type CrashGuard struct {
	inner     Strategy
	history   PriceHistory
	windows   signals.Windows
	threshold float64
	l         *zap.Logger
}

// NewCrashGuard returns a CrashGuard around inner.
func NewCrashGuard(l *zap.Logger, inner Strategy, history PriceHistory, windows signals.Windows, threshold float64) (*CrashGuard, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if inner == nil {
		return nil, errors.New("crash guard needs a strategy to wrap")
	}
	if err := windows.Validate(); err != nil {
		return nil, err
	}
	return &CrashGuard{inner: inner, history: history, windows: windows, threshold: threshold, l: l}, nil
}

// GetTrades returns the wrapped strategy's purchases minus buys into crashing coins.
func (g *CrashGuard) GetTrades(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error) {
	purchases, err := g.inner.GetTrades(snapshot, balances, fiat)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.IsSell(fiat) {
			kept = append(kept, p)
			continue
		}

		series := g.history[p.To]
		if len(series) == 0 {
			g.l.Debug("no price history, keeping purchase", zap.Stringer("coin", p.To))
			kept = append(kept, p)
			continue
		}

		hist, err := signals.LatestPPOHist(series, g.windows)
		if err != nil {
			return nil, errors.Wrapf(err, "momentum of %s", p.To)
		}
		if hist < g.threshold {
			g.l.Info("skipping purchase of crashing coin",
				zap.Stringer("coin", p.To),
				zap.Float64("ppo_hist", hist),
				zap.Float64("threshold", g.threshold))
			continue
		}
		kept = append(kept, p)
	}

	return kept, nil
}
