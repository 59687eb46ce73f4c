package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/ichiba/internal/recommend"
	"github.com/wonny/ichiba/pkg/logger"
)

// newsSentimentBatch caps the sentiment pass per collection cycle
const newsSentimentBatch = 100

// NewsCollectionJob pulls fresh articles every hour and scores them,
// so the evening analysis starts from an already-scored corpus
type NewsCollectionJob struct {
	news     recommend.NewsIngester
	articles recommend.ArticleScorer
	log      *logger.Logger
}

// NewNewsCollectionJob creates the hourly news collection job
func NewNewsCollectionJob(news recommend.NewsIngester, articles recommend.ArticleScorer, log *logger.Logger) *NewsCollectionJob {
	return &NewsCollectionJob{news: news, articles: articles, log: log}
}

// Name returns the job name
func (j *NewsCollectionJob) Name() string {
	return "news_collection"
}

// Schedule returns the cron schedule (hourly, on the hour)
func (j *NewsCollectionJob) Schedule() string {
	return "0 0 * * * *"
}

// Run collects articles and runs sentiment over the unscored backlog
func (j *NewsCollectionJob) Run(ctx context.Context) error {
	saved, err := j.news.CollectAll(ctx)
	if err != nil {
		return fmt.Errorf("collect news: %w", err)
	}

	scored := 0
	if j.articles != nil {
		if scored, err = j.articles.AnalyzeUnscored(ctx, newsSentimentBatch); err != nil {
			return fmt.Errorf("score articles: %w", err)
		}
	}

	j.log.WithFields(map[string]interface{}{
		"saved":  saved,
		"scored": scored,
	}).Info("📰 ニュース収集ジョブ完了")

	return nil
}
