package sentiment

import (
	"context"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

// latestArticleLimit caps the article references kept on a summary
const latestArticleLimit = 5

// Service produces per-ticker sentiment summaries from stored articles
type Service struct {
	news contracts.NewsRepository
	cfg  config.SentimentConfig
	log  *logger.Logger
}

// NewService creates a sentiment service
func NewService(news contracts.NewsRepository, cfg config.SentimentConfig, log *logger.Logger) *Service {
	return &Service{news: news, cfg: cfg, log: log}
}

// TickerSentiment aggregates the scored articles linked to one ticker
// within the configured window. A ticker with no articles gets an
// empty summary (ArticleCount 0), never an error.
func (s *Service) TickerSentiment(ctx context.Context, ticker string) (*contracts.SentimentSummary, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -s.cfg.WindowDays)

	articles, err := s.news.GetForTicker(ctx, ticker, since)
	if err != nil {
		return nil, err
	}

	obs := make([]contracts.SentimentObservation, 0, len(articles))
	for _, a := range articles {
		if a.SentimentScore == nil {
			continue
		}
		obs = append(obs, a.Observation())
	}

	summary := Aggregate(ticker, obs, s.cfg.WindowDays, s.cfg.DecayFactor, now)

	// Articles come back newest first; keep the head as references
	for i, a := range articles {
		if i >= latestArticleLimit {
			break
		}
		ref := contracts.ArticleRef{Title: a.Title, PublishedAt: a.PublishedAt}
		if a.SentimentScore != nil {
			ref.Sentiment = *a.SentimentScore
		}
		summary.LatestArticles = append(summary.LatestArticles, ref)
	}

	return &summary, nil
}
