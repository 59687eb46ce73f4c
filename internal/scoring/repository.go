package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/ichiba/internal/contracts"
)

// Repository handles score result persistence
// ⭐ SSOT: スコア結果の保存/取得はここだけ
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new scoring repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert saves one score result, keyed by (ticker, analysis_date).
// Same-day reruns overwrite the previous row.
func (r *Repository) Upsert(ctx context.Context, date time.Time, result contracts.ScoreResult) error {
	signalsJSON, err := json.Marshal(result.Signals)
	if err != nil {
		return fmt.Errorf("failed to marshal signals: %w", err)
	}
	detailsJSON, err := json.Marshal(result.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}

	query := `
		INSERT INTO analysis.score_results (
			ticker, analysis_date, name, sector, total_score, rating, rating_icon,
			sentiment_score, technical_score, fundamental_score, macro_score, risk_score,
			signals, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (ticker, analysis_date) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			total_score = EXCLUDED.total_score,
			rating = EXCLUDED.rating,
			rating_icon = EXCLUDED.rating_icon,
			sentiment_score = EXCLUDED.sentiment_score,
			technical_score = EXCLUDED.technical_score,
			fundamental_score = EXCLUDED.fundamental_score,
			macro_score = EXCLUDED.macro_score,
			risk_score = EXCLUDED.risk_score,
			signals = EXCLUDED.signals,
			details = EXCLUDED.details,
			updated_at = NOW()
	`

	_, err = r.pool.Exec(ctx, query,
		result.Ticker, date, result.Name, result.Sector,
		result.TotalScore, result.Rating, result.RatingIcon,
		result.Scores.Sentiment, result.Scores.Technical, result.Scores.Fundamental,
		result.Scores.Macro, result.Scores.Risk,
		signalsJSON, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score result: %w", err)
	}

	return nil
}

// GetByDate returns all score results for one analysis date, total
// score descending.
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]contracts.ScoreResult, error) {
	query := `
		SELECT ticker, name, sector, total_score, rating, rating_icon,
			sentiment_score, technical_score, fundamental_score, macro_score, risk_score,
			signals, details
		FROM analysis.score_results
		WHERE analysis_date = $1
		ORDER BY total_score DESC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query score results: %w", err)
	}
	defer rows.Close()

	var results []contracts.ScoreResult
	for rows.Next() {
		var res contracts.ScoreResult
		var signalsJSON, detailsJSON []byte

		err := rows.Scan(
			&res.Ticker, &res.Name, &res.Sector,
			&res.TotalScore, &res.Rating, &res.RatingIcon,
			&res.Scores.Sentiment, &res.Scores.Technical, &res.Scores.Fundamental,
			&res.Scores.Macro, &res.Scores.Risk,
			&signalsJSON, &detailsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score result: %w", err)
		}

		if err := json.Unmarshal(signalsJSON, &res.Signals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal signals: %w", err)
		}
		if err := json.Unmarshal(detailsJSON, &res.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal details: %w", err)
		}

		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score results: %w", err)
	}

	return results, nil
}
