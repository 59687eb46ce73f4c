package contracts

import (
	"context"
	"time"
)

// StockRepository persists the instrument universe
type StockRepository interface {
	Upsert(ctx context.Context, stock Stock) error
	GetByTicker(ctx context.Context, ticker string) (*Stock, error)
	List(ctx context.Context) ([]Stock, error)
}

// PriceRepository persists daily OHLCV bars
type PriceRepository interface {
	SaveDailyPrices(ctx context.Context, prices []DailyPrice) error
	GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]DailyPrice, error)
}

// NewsRepository persists articles and their ticker links
type NewsRepository interface {
	SaveArticles(ctx context.Context, articles []NewsArticle) (int, error)
	GetUnscored(ctx context.Context, limit int) ([]NewsArticle, error)
	UpdateSentiment(ctx context.Context, id int64, score, confidence float64, method string) error
	GetForTicker(ctx context.Context, ticker string, since time.Time) ([]NewsArticle, error)
}

// ResultRepository persists per-ticker score results.
// Upsert is keyed by (ticker, analysis date): same-day reruns overwrite.
type ResultRepository interface {
	Upsert(ctx context.Context, date time.Time, result ScoreResult) error
	GetByDate(ctx context.Context, date time.Time) ([]ScoreResult, error)
}

// ReportRepository persists daily reports
type ReportRepository interface {
	Save(ctx context.Context, report *DailyReport) error
	GetLatest(ctx context.Context) (*DailyReport, error)
	GetByDate(ctx context.Context, date time.Time) (*DailyReport, error)
}
