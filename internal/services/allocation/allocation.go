// Package allocation builds equal-weight trade lists: deploying idle fiat
// across every available market and rebalancing an existing portfolio.
package allocation

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/internal/domain"
)

type calculator interface {
	GetPurchase(snapshot domain.MarketSnapshot, from domain.Coin, fromAmount decimal.Decimal,
		to domain.Coin, fiat domain.Coin) (*domain.Purchase, error)
}

// Allocator builds equal-weight purchases. Safe for concurrent use.
type Allocator struct {
	calc     calculator
	priceKey domain.PriceKey
	l        *zap.Logger
}

// NewAllocator returns an Allocator pricing trades with calc at priceKey.
func NewAllocator(l *zap.Logger, calc calculator, priceKey domain.PriceKey) *Allocator {
	if l == nil {
		l = zap.NewNop()
	}
	if priceKey == "" {
		priceKey = domain.DefaultPriceKey
	}
	return &Allocator{calc: calc, priceKey: priceKey, l: l}
}

// InitialEqualAlloc splits the fiat balance into len(markets)+1 equal shares
// and buys one share of every available market. The extra share stays in fiat.
// The result has one slot per market; slots too small to trade are nil.
func (a *Allocator) InitialEqualAlloc(snapshot domain.MarketSnapshot, balances domain.Balances,
	fiat domain.Coin) ([]*domain.Purchase, error) {
	markets := snapshot.AvailableMarkets(fiat)
	share := balances.Amount(fiat).Div(decimal.NewFromInt(int64(len(markets) + 1)))

	a.l.Debug("initial equal allocation",
		zap.Stringer("fiat", fiat),
		zap.Int("markets", len(markets)),
		zap.String("share", share.String()))

	purchases := make([]*domain.Purchase, 0, len(markets))
	for _, market := range markets {
		p, err := a.calc.GetPurchase(snapshot, fiat, share, market.Coin, fiat)
		if err != nil {
			return nil, errors.Wrapf(err, "initial purchase of %s", market.Coin)
		}
		purchases = append(purchases, p)
	}

	return purchases, nil
}

// RebalanceEqualAlloc moves coinsToRebalance toward an equal fiat value per
// available market.
//
// Coins worth more than the ideal value are sold down to it. When fiat is
// itself in coinsToRebalance and something was sold, the fiat above the ideal
// value is then spread equally over every market that was not just sold.
// The result lists the sells first, then the buys.
func (a *Allocator) RebalanceEqualAlloc(coinsToRebalance []domain.Coin, snapshot domain.MarketSnapshot,
	balances domain.Balances, fiat domain.Coin) ([]domain.Purchase, error) {
	markets := snapshot.AvailableMarkets(fiat)
	if len(markets) == 0 {
		return nil, errors.Wrapf(domain.ErrDegenerateAllocation, "no markets quoted in %s", fiat)
	}

	total, err := balances.EstimateTotalFiatValue(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "estimate portfolio value")
	}
	ideal := total.Div(decimal.NewFromInt(int64(len(markets))))

	rebalanceFiat := false
	sells := make([]domain.Purchase, 0)
	for _, coin := range unique(coinsToRebalance) {
		if coin == fiat {
			rebalanceFiat = true
			continue
		}

		sell, err := a.liquidateExcess(snapshot, balances, coin, ideal, fiat)
		if err != nil {
			return nil, err
		}
		if sell != nil {
			sells = append(sells, *sell)
		}
	}

	a.l.Debug("rebalance liquidation",
		zap.String("total_value", total.String()),
		zap.String("ideal_value", ideal.String()),
		zap.Int("sells", len(sells)))

	if !rebalanceFiat || len(sells) == 0 {
		return sells, nil
	}

	buys, err := a.redistribute(snapshot, balances, sells, markets, ideal, fiat)
	if err != nil {
		return nil, err
	}

	return append(sells, buys...), nil
}

// liquidateExcess sells the part of coin's holding valued above ideal.
func (a *Allocator) liquidateExcess(snapshot domain.MarketSnapshot, balances domain.Balances,
	coin domain.Coin, ideal decimal.Decimal, fiat domain.Coin) (*domain.Purchase, error) {
	price, err := snapshot.Price(domain.NewMarket(fiat, coin), a.priceKey)
	if err != nil {
		return nil, errors.Wrapf(err, "value %s holdings", coin)
	}

	value := balances.Amount(coin).Mul(price)
	if !value.GreaterThan(ideal) {
		return nil, nil
	}

	excess := value.Sub(ideal).Div(price)
	sell, err := a.calc.GetPurchase(snapshot, coin, excess, fiat, fiat)
	if err != nil {
		return nil, errors.Wrapf(err, "liquidate %s", coin)
	}

	return sell, nil
}

// redistribute spends the projected fiat above ideal on every market not just sold.
func (a *Allocator) redistribute(snapshot domain.MarketSnapshot, balances domain.Balances, sells []domain.Purchase,
	markets []domain.Market, ideal decimal.Decimal, fiat domain.Coin) ([]domain.Purchase, error) {
	projected := balances.ApplyPurchases(nil, sells)
	excess := projected.Amount(fiat).Sub(ideal)

	sold := make(map[domain.Coin]struct{}, len(sells))
	for _, s := range sells {
		sold[s.From] = struct{}{}
	}

	toBuy := make([]domain.Market, 0, len(markets))
	for _, market := range markets {
		if _, ok := sold[market.Coin]; !ok {
			toBuy = append(toBuy, market)
		}
	}
	if len(toBuy) == 0 {
		return nil, errors.Wrapf(domain.ErrDegenerateAllocation,
			"all %d markets quoted in %s were just sold, nothing to redistribute into", len(markets), fiat)
	}

	perMarket := excess.Div(decimal.NewFromInt(int64(len(toBuy))))

	a.l.Debug("rebalance redistribution",
		zap.String("excess_fiat", excess.String()),
		zap.Int("markets", len(toBuy)),
		zap.String("per_market", perMarket.String()))

	buys := make([]*domain.Purchase, 0, len(toBuy))
	for _, market := range toBuy {
		p, err := a.calc.GetPurchase(snapshot, fiat, perMarket, market.Coin, fiat)
		if err != nil {
			return nil, errors.Wrapf(err, "redistribute into %s", market.Coin)
		}
		buys = append(buys, p)
	}

	return FilterNone(buys), nil
}

// FilterNone drops skipped (nil) purchases.
func FilterNone(purchases []*domain.Purchase) []domain.Purchase {
	filtered := make([]domain.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p != nil {
			filtered = append(filtered, *p)
		}
	}
	return filtered
}

// HeldCoinsWithChartData returns held coins that have a market quoted in fiat,
// plus fiat itself when held.
func HeldCoinsWithChartData(snapshot domain.MarketSnapshot, balances domain.Balances, fiat domain.Coin) []domain.Coin {
	available := map[domain.Coin]struct{}{fiat: {}}
	for _, market := range snapshot.AvailableMarkets(fiat) {
		available[market.Coin] = struct{}{}
	}

	coins := make([]domain.Coin, 0)
	for _, coin := range balances.HeldCoins() {
		if _, ok := available[coin]; ok {
			coins = append(coins, coin)
		}
	}
	return coins
}

func unique(coins []domain.Coin) []domain.Coin {
	seen := make(map[domain.Coin]struct{}, len(coins))
	out := make([]domain.Coin, 0, len(coins))
	for _, c := range coins {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
