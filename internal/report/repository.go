package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/ichiba/internal/contracts"
)

// Repository implements contracts.ReportRepository on PostgreSQL.
// レポートは1日1件、再実行は上書き。
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a report repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save upserts the report, keyed by (report_date, report_type)
func (r *Repository) Save(ctx context.Context, report *contracts.DailyReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO reports.daily_reports (report_date, report_type, payload, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (report_date, report_type) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, report.ReportDate, report.ReportType, payload); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetLatest returns the most recent daily report, or nil when none exists
func (r *Repository) GetLatest(ctx context.Context) (*contracts.DailyReport, error) {
	query := `
		SELECT payload
		FROM reports.daily_reports
		WHERE report_type = 'daily'
		ORDER BY report_date DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query)
}

// GetByDate returns the daily report for one date, or nil when none exists
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*contracts.DailyReport, error) {
	query := `
		SELECT payload
		FROM reports.daily_reports
		WHERE report_type = 'daily' AND report_date = $1
	`
	return r.queryOne(ctx, query, date)
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...interface{}) (*contracts.DailyReport, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report contracts.DailyReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}
