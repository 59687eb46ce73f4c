package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/ichiba/internal/contracts"
)

// StockRepository implements contracts.StockRepository
// ⭐ SSOT: 銘柄マスタの読み書きはここだけ
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a stock repository
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Upsert inserts or refreshes one stock
func (r *StockRepository) Upsert(ctx context.Context, stock contracts.Stock) error {
	query := `
		INSERT INTO data.stocks (ticker, name, sector, market)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			market = EXCLUDED.market,
			updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, stock.Ticker, stock.Name, stock.Sector, stock.Market); err != nil {
		return fmt.Errorf("failed to upsert stock %s: %w", stock.Ticker, err)
	}

	return nil
}

// GetByTicker returns one stock, or nil when unknown
func (r *StockRepository) GetByTicker(ctx context.Context, ticker string) (*contracts.Stock, error) {
	query := `SELECT ticker, name, sector, market FROM data.stocks WHERE ticker = $1`

	var s contracts.Stock
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&s.Ticker, &s.Name, &s.Sector, &s.Market)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock %s: %w", ticker, err)
	}

	return &s, nil
}

// List returns the whole universe, ticker ascending
func (r *StockRepository) List(ctx context.Context) ([]contracts.Stock, error) {
	query := `SELECT ticker, name, sector, market FROM data.stocks ORDER BY ticker`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	defer rows.Close()

	var stocks []contracts.Stock
	for rows.Next() {
		var s contracts.Stock
		if err := rows.Scan(&s.Ticker, &s.Name, &s.Sector, &s.Market); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stocks: %w", err)
	}

	return stocks, nil
}
