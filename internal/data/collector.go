package data

import (
	"context"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

// MarketData is the upstream market data provider
type MarketData interface {
	GetDailyPrices(ctx context.Context, symbol string, days int) ([]contracts.DailyPrice, error)
	GetProfile(ctx context.Context, symbol string) (contracts.Stock, error)
}

// priceHistoryDays is how much history one ingest run pulls
const priceHistoryDays = 120

// Collector ingests universe metadata and daily bars into storage.
// Per-ticker failures are logged and skipped.
type Collector struct {
	source MarketData
	stocks contracts.StockRepository
	prices contracts.PriceRepository
	market string
	log    *logger.Logger
}

// NewCollector creates a data collector
func NewCollector(source MarketData, stocks contracts.StockRepository, prices contracts.PriceRepository, market string, log *logger.Logger) *Collector {
	return &Collector{source: source, stocks: stocks, prices: prices, market: market, log: log}
}

// SyncUniverse refreshes names and sectors for every ticker
func (c *Collector) SyncUniverse(ctx context.Context, tickers []string) error {
	synced := 0
	for _, ticker := range tickers {
		stock, err := c.source.GetProfile(ctx, ticker)
		if err != nil {
			c.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ 銘柄情報取得失敗")
			continue
		}
		stock.Market = c.market

		if err := c.stocks.Upsert(ctx, stock); err != nil {
			return err
		}
		synced++
	}

	c.log.WithField("synced", synced).Info("📊 銘柄マスタ更新完了")
	return nil
}

// IngestPrices pulls recent daily bars for every ticker
func (c *Collector) IngestPrices(ctx context.Context, tickers []string) error {
	ingested := 0
	for _, ticker := range tickers {
		bars, err := c.source.GetDailyPrices(ctx, ticker, priceHistoryDays)
		if err != nil {
			c.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ 株価取得失敗")
			continue
		}

		if err := c.prices.SaveDailyPrices(ctx, bars); err != nil {
			return err
		}
		ingested++
	}

	c.log.WithField("tickers", ingested).Info("📊 株価データ収集完了")
	return nil
}
