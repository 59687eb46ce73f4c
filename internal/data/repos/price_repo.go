package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/ichiba/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository
// ⭐ SSOT: 日足データの読み書きはここだけ
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// SaveDailyPrices bulk-upserts daily bars, keyed by (ticker, trade_date)
func (r *PriceRepository) SaveDailyPrices(ctx context.Context, prices []contracts.DailyPrice) error {
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.daily_prices (
			ticker, trade_date, open, high, low, close, volume
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	for _, p := range prices {
		batch.Queue(query, p.Ticker, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range prices {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert daily price: %w", err)
		}
	}

	return nil
}

// GetByTickerAndDateRange returns bars in [from, to], oldest first
func (r *PriceRepository) GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]contracts.DailyPrice, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM data.daily_prices
		WHERE ticker = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	var prices []contracts.DailyPrice
	for rows.Next() {
		var p contracts.DailyPrice
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prices: %w", err)
	}

	return prices, nil
}
