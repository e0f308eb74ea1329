package internal

import (
	"context"
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/jb68/moneybot/config"
	"github.com/jb68/moneybot/internal/services/marketdata"
)

// ServiceProvider creates the market data services of one portfolio.
type ServiceProvider interface {
	SnapshotSource() marketdata.SnapshotSource
	HistorySource(interval string) marketdata.HistorySource
}

// NewServiceProvider creates a new service provider based on the configured source.
// Price history always comes from Binance public klines.
func NewServiceProvider(ctx context.Context, conf config.Config) (ServiceProvider, error) {
	// public endpoints only, no credentials
	history := binance.NewClient("", "")

	switch conf.Source {
	case config.SourceFile:
		return &fileProvider{path: conf.SnapshotFile, history: history}, nil
	case config.SourceBinance:
		return &binanceProvider{client: history}, nil
	case config.SourceBybit:
		return &bybitProvider{client: bybit.NewClient(), history: history}, nil
	case config.SourceHyperliquid:
		ex := hyperliquid.NewExchange(ctx, nil, conf.HyperliquidURL, nil, "", "", nil)
		return &hyperliquidProvider{info: ex.Info(), history: history}, nil
	default:
		return nil, fmt.Errorf("unsupported source: %s", conf.Source)
	}
}

type fileProvider struct {
	path    string
	history *binance.Client
}

func (p *fileProvider) SnapshotSource() marketdata.SnapshotSource {
	return marketdata.NewFileSource(p.path)
}
func (p *fileProvider) HistorySource(interval string) marketdata.HistorySource {
	return marketdata.NewBinanceHistory(p.history, interval)
}

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) SnapshotSource() marketdata.SnapshotSource {
	return marketdata.NewBinanceSource(p.client)
}
func (p *binanceProvider) HistorySource(interval string) marketdata.HistorySource {
	return marketdata.NewBinanceHistory(p.client, interval)
}

type bybitProvider struct {
	client  *bybit.Client
	history *binance.Client
}

func (p *bybitProvider) SnapshotSource() marketdata.SnapshotSource {
	return marketdata.NewBybitSource(p.client)
}
func (p *bybitProvider) HistorySource(interval string) marketdata.HistorySource {
	return marketdata.NewBinanceHistory(p.history, interval)
}

type hyperliquidProvider struct {
	info    *hyperliquid.Info
	history *binance.Client
}

func (p *hyperliquidProvider) SnapshotSource() marketdata.SnapshotSource {
	return marketdata.NewHyperliquidSource(p.info)
}
func (p *hyperliquidProvider) HistorySource(interval string) marketdata.HistorySource {
	return marketdata.NewBinanceHistory(p.history, interval)
}
