package news

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/ichiba/internal/contracts"
)

// Repository handles news article persistence
// ⭐ SSOT: 記事テーブルの読み書きはここだけ
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a news repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveArticles inserts articles, skipping rows that already exist
// (same title and source). Ticker links are stored alongside.
// Returns the number of newly inserted articles.
func (r *Repository) SaveArticles(ctx context.Context, articles []contracts.NewsArticle) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertArticle := `
		INSERT INTO news.articles (
			title, content, url, source, published_at,
			sentiment_score, confidence, method
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (title, source) DO NOTHING
		RETURNING id
	`
	insertLink := `
		INSERT INTO news.ticker_links (article_id, ticker)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	saved := 0
	for _, a := range articles {
		if a.Title == "" {
			continue
		}

		var id int64
		err := tx.QueryRow(ctx, insertArticle,
			a.Title, a.Content, a.URL, a.Source, a.PublishedAt,
			a.SentimentScore, a.Confidence, nullableString(a.Method),
		).Scan(&id)
		if err == pgx.ErrNoRows {
			continue // 既存記事
		}
		if err != nil {
			return 0, fmt.Errorf("failed to insert article: %w", err)
		}

		for _, ticker := range a.Tickers {
			if _, err := tx.Exec(ctx, insertLink, id, ticker); err != nil {
				return 0, fmt.Errorf("failed to insert ticker link: %w", err)
			}
		}
		saved++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit articles: %w", err)
	}

	return saved, nil
}

// GetUnscored returns articles without a sentiment score, newest first
func (r *Repository) GetUnscored(ctx context.Context, limit int) ([]contracts.NewsArticle, error) {
	query := `
		SELECT id, title, COALESCE(content, ''), url, source, published_at
		FROM news.articles
		WHERE sentiment_score IS NULL
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unscored articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// UpdateSentiment stores one article's sentiment classification
func (r *Repository) UpdateSentiment(ctx context.Context, id int64, score, confidence float64, method string) error {
	query := `
		UPDATE news.articles
		SET sentiment_score = $2, confidence = $3, method = $4
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id, score, confidence, method); err != nil {
		return fmt.Errorf("failed to update sentiment: %w", err)
	}

	return nil
}

// GetForTicker returns scored articles linked to a ticker since the
// given time, newest first.
func (r *Repository) GetForTicker(ctx context.Context, ticker string, since time.Time) ([]contracts.NewsArticle, error) {
	query := `
		SELECT a.id, a.title, COALESCE(a.content, ''), a.url, a.source, a.published_at,
			a.sentiment_score, a.confidence, COALESCE(a.method, '')
		FROM news.articles a
		JOIN news.ticker_links l ON l.article_id = a.id
		WHERE l.ticker = $1
			AND a.sentiment_score IS NOT NULL
			AND (a.published_at IS NULL OR a.published_at >= $2)
		ORDER BY a.published_at DESC NULLS LAST
	`

	rows, err := r.pool.Query(ctx, query, ticker, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles for %s: %w", ticker, err)
	}
	defer rows.Close()

	var articles []contracts.NewsArticle
	for rows.Next() {
		var a contracts.NewsArticle
		err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.URL, &a.Source, &a.PublishedAt,
			&a.SentimentScore, &a.Confidence, &a.Method)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

func scanArticles(rows pgx.Rows) ([]contracts.NewsArticle, error) {
	var articles []contracts.NewsArticle
	for rows.Next() {
		var a contracts.NewsArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.URL, &a.Source, &a.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
